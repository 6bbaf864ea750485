package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/tabby"
	"github.com/tsawler/tabby/export"
	"github.com/tsawler/tabby/internal/logger"
)

type extractOptions struct {
	out      string
	format   string
	debugDir string
	workers  int
	pages    string
}

func ExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract [files or folders]",
		Short: "Extract tables",
		Long: `Extract the tables of each PDF.

Formats:
  html  one <name>.html per file
  xml   <name>-str-output.xml with cells and <name>-reg-output.xml with regions
  csv   one <name>-table-N.csv per table
  text  tables drawn on stdout`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "Output folder")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "Output format (html, xml, csv, text)")
	cmd.Flags().StringVar(&opts.debugDir, "debug-dir", "", "Write page overlays to this folder")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", -1, "Pages processed concurrently (0 for all cores)")
	cmd.Flags().StringVarP(&opts.pages, "pages", "p", "", "Pages to process, e.g. 1,3,5-7")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, opts *extractOptions, args []string) error {
	switch opts.format {
	case "html", "xml", "csv", "text":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
	pages, err := parsePages(opts.pages)
	if err != nil {
		return err
	}
	files, err := collectPDFs(args)
	if err != nil {
		return err
	}
	if opts.format != "text" {
		if err := os.MkdirAll(opts.out, 0o755); err != nil {
			return err
		}
	}

	failed := 0
	for _, file := range files {
		log := a.log.With("file", file)
		n, err := a.extractFile(cmd.Context(), cmd.OutOrStdout(), log, opts, pages, file)
		if err != nil {
			failed++
			log.Error("extraction failed", "error", err)
			continue
		}
		log.Info("extracted", "tables", n)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func (a *app) extractFile(
	ctx context.Context,
	stdout io.Writer,
	log logger.Logger,
	opts *extractOptions,
	pages []int,
	file string,
) (int, error) {
	ext := tabby.Open(file).
		WithSettings(a.settings).
		WithLogger(log).
		Pages(pages...)
	if opts.workers >= 0 {
		ext = ext.Workers(opts.workers)
	}
	if opts.debugDir != "" {
		ext = ext.WithDebug(opts.debugDir)
	}

	res, warnings, err := ext.Result(ctx)
	if err != nil {
		return 0, err
	}
	for _, w := range warnings {
		log.Warn("page skipped", "page", w.Page, "reason", w.Message, "error", w.Err)
	}

	name := filepath.Base(file)
	base := filepath.Join(opts.out, stem(file))
	switch opts.format {
	case "html":
		err = writeFile(base+".html", func(w io.Writer) error {
			return export.HTMLDocument(w, name, res.Tables)
		})
	case "xml":
		err = writeFile(base+"-str-output.xml", func(w io.Writer) error {
			return export.TablesXML(w, name, res.Tables)
		})
		if err == nil {
			err = writeFile(base+"-reg-output.xml", func(w io.Writer) error {
				return export.RegionsXML(w, name, res.Boxes)
			})
		}
	case "csv":
		for i := range res.Tables {
			if err = os.WriteFile(fmt.Sprintf("%s-table-%d.csv", base, i+1), []byte(res.Tables[i].ToCSV()), 0o644); err != nil {
				break
			}
		}
	case "text":
		for _, t := range res.Tables {
			export.Text(stdout, t)
			fmt.Fprintln(stdout)
		}
	}
	return len(res.Tables), err
}

// writeFile renders into memory first so a failed render leaves no file
func writeFile(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
