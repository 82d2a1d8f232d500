// Package main provides the CLI entry point for exhibit.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/config"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/fetch"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/markup"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/output"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/server"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/settings"
	"github.com/spf13/cobra"
)

var (
	configPath string
	outputPath string
	pretty     bool
	strict     bool

	dataURL     string
	regionsJSON bool

	sheet     string
	cellRange string
	sortRows  bool
	skipEmpty bool

	settingsDataURL   string
	settingsLayoutURL string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "exhibit",
		Short: "Render Exhibit layouts and convert spreadsheets to Exhibit data",
		Long: `exhibit compiles Exhibit layout documents into widget markup, converts
Google Spreadsheet cell feeds and xlsx workbooks into Exhibit data files,
and serves both for embedding widgets.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML)")
	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newRenderCmd(), newConvertCmd(), newSettingsCmd(), newServeCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a layout document into widget markup",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&dataURL, "data-url", "", "Data file linked from the rendered widget")
	cmd.Flags().BoolVar(&regionsJSON, "json", false, "Output the rendered regions as JSON")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on cells missing required fields")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	_, loader, err := setup(cmd, true)
	if err != nil {
		return err
	}

	layout, err := exhibit.LoadLayout(cmd.Context(), loader, args[0])
	if err != nil {
		return err
	}
	if strict {
		if err := markup.ValidateLayout(*layout); err != nil {
			return err
		}
	}

	regions := markup.RenderLayout(*layout)
	var data []byte
	if regionsJSON {
		if data, err = output.RegionsToJSON(regions, pretty); err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
	} else {
		data = []byte(regions.HTML(dataURL))
	}
	return write(cmd, data)
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [source]",
		Short: "Convert a spreadsheet into an Exhibit data file",
		Long: `convert reads a Google Spreadsheet URL, a cell feed (URL or file), or an
xlsx workbook and writes the rows below the header row as Exhibit items.`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Workbook sheet (default: first sheet)")
	cmd.Flags().StringVar(&cellRange, "range", "", "Workbook range, e.g. A1:D10")
	cmd.Flags().BoolVar(&sortRows, "sort-rows", false, "Sort cells by row before grouping")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on columns without a header")
	cmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "Drop items without fields")
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	_, loader, err := setup(cmd, true)
	if err != nil {
		return err
	}

	opts := exhibit.DefaultOptions()
	opts.Sheet = sheet
	opts.Range = cellRange
	opts.Flatten.SortRows = sortRows
	opts.Flatten.Strict = strict
	opts.Flatten.SkipEmptyItems = skipEmpty

	ds, err := exhibit.Convert(cmd.Context(), loader, args[0], opts)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	data, err := output.ToJSON(ds, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return write(cmd, data)
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change widget settings",
	}

	get := &cobra.Command{
		Use:   "get [widget-id]",
		Short: "Print the resolved settings of a widget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configPath)
			if err != nil {
				return err
			}
			store := settings.NewFileStore(cfg.SettingsPath)
			s := settings.Preferred(cmd.Context(), store, args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "dataURL: %s\nlayoutURL: %s\n", s.DataURL, s.LayoutURL)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set [widget-id]",
		Short: "Save the settings of a widget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configPath)
			if err != nil {
				return err
			}
			store := settings.NewFileStore(cfg.SettingsPath)
			s, err := store.Load(cmd.Context(), args[0])
			if err != nil && !errors.Is(err, settings.ErrNotFound) {
				return err
			}
			if cmd.Flags().Changed("data-url") {
				s.DataURL = settingsDataURL
			}
			if cmd.Flags().Changed("layout-url") {
				s.LayoutURL = settingsLayoutURL
			}
			return store.Save(cmd.Context(), args[0], s)
		},
	}
	set.Flags().StringVar(&settingsDataURL, "data-url", "", "Data file URL")
	set.Flags().StringVar(&settingsLayoutURL, "layout-url", "", "Layout document URL")

	cmd.AddCommand(get, set)
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve widgets, settings, and conversion over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, loader, err := setup(cmd, false)
			if err != nil {
				return err
			}
			store := settings.NewFileStore(cfg.SettingsPath)
			return server.NewServer(cfg.Addr, store, loader).Serve(cmd.Context())
		},
	}
}

// setup loads the configuration and builds the document loader. Local files
// are only read when localFiles is set.
func setup(cmd *cobra.Command, localFiles bool) (*config.Config, *fetch.Client, error) {
	cfg, err := config.Load(cmd.Flags(), configPath)
	if err != nil {
		return nil, nil, err
	}
	base, err := cfg.ParsedBaseURL()
	if err != nil {
		return nil, nil, err
	}

	opts := []fetch.Option{
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		fetch.WithCacheTTL(cfg.CacheTTL),
		fetch.WithLocalFiles(localFiles),
	}
	if base != nil {
		opts = append(opts, fetch.WithBaseURL(base))
	}
	loader, err := fetch.New(cfg.CacheSize, opts...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, loader, nil
}

func write(cmd *cobra.Command, data []byte) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
