package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/tabby/config"
	"github.com/tsawler/tabby/internal/logger"
)

// app holds what the persistent flags resolve to
type app struct {
	configPath string
	logLevel   string
	logJSON    bool

	settings *config.Settings
	log      logger.Logger
}

func RootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "tabby",
		Short: "Extract tables from PDF files",
		Long: `Extract tables from the text layer of PDF files using layout heuristics.
Arguments are PDF files or folders; folders are searched for *.pdf files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "Log as JSON")

	root.AddCommand(
		ExtractCmd(a),
		BlocksCmd(a),
	)
	return root
}

// setup loads settings and builds the logger. Flags win over the file and
// the environment.
func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.Load(cmd.Context(), a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		settings.Log.Level = a.logLevel
	}
	if a.logJSON {
		settings.Log.JSON = true
	}
	if err := config.Validate(settings); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg := logger.DefaultConfig()
	cfg.Output = cmd.ErrOrStderr()
	cfg.Level = logger.LogLevel(settings.Log.Level)
	cfg.JSON = settings.Log.JSON

	a.settings = settings
	a.log = logger.NewLogger(cfg)
	cmd.SetContext(logger.ContextWithLogger(cmd.Context(), a.log))
	return nil
}

// collectPDFs expands folders into their PDF files, keeping file
// arguments as given. Folders are not searched recursively.
func collectPDFs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
	}
	return files, nil
}

// parsePages reads a selection such as "1,3,5-7"
func parsePages(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var pages []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil || end < start {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}
	slices.Sort(pages)
	return slices.Compact(pages), nil
}

// stem returns the file name without directory and extension
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
