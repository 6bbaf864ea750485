package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/tabby"
	"github.com/tsawler/tabby/export"
)

func BlocksCmd(a *app) *cobra.Command {
	var out, pagesFlag string
	cmd := &cobra.Command{
		Use:   "blocks [files or folders]",
		Short: "Write merged text blocks",
		Long:  `Write the merged text blocks of each PDF to <name>-blk-output.xml.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := parsePages(pagesFlag)
			if err != nil {
				return err
			}
			files, err := collectPDFs(args)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}

			failed := 0
			for _, file := range files {
				log := a.log.With("file", file)
				blocks, warnings, err := tabby.Open(file).
					WithSettings(a.settings).
					WithLogger(log).
					Pages(pages...).
					Blocks(cmd.Context())
				if err == nil {
					for _, w := range warnings {
						log.Warn("page skipped", "page", w.Page, "reason", w.Message, "error", w.Err)
					}
					path := filepath.Join(out, stem(file)+"-blk-output.xml")
					err = writeFile(path, func(w io.Writer) error {
						return export.BlocksXML(w, filepath.Base(file), blocks)
					})
				}
				if err != nil {
					failed++
					log.Error("block extraction failed", "error", err)
					continue
				}
				log.Info("blocks written", "pages", len(blocks))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", ".", "Output folder")
	cmd.Flags().StringVarP(&pagesFlag, "pages", "p", "", "Pages to process, e.g. 1,3,5-7")
	return cmd
}
