// Package export writes tables, table boxes and text blocks in the output
// formats of the command line tool: HTML, XML in the ICDAR competition
// layout, CSV (via model.Table.ToCSV) and terminal text.
package export
