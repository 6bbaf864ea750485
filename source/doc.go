// Package source supplies positioned text fragments, one page at a time.
//
// [OpenPDF] reads the text layer of a PDF file. [Memory] serves pages
// built in code, which is what tests and callers with their own extractor
// use:
//
//	src := source.FromPages("invoice", page1, page2)
//	defer src.Close()
//	for n := 1; n <= src.PageCount(); n++ {
//		page, err := src.Page(n)
//		...
//	}
//
// A failure to read one page is reported for that page only; the other
// pages stay readable.
package source
