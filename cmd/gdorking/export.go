package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/nao1215/gdorking/internal/config"
	"github.com/nao1215/gdorking/internal/export"
	"github.com/nao1215/gdorking/internal/model"
	"github.com/nao1215/gdorking/internal/pipeline"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole catalog to text, Markdown, JSON and CSV files",
		Long: `Export downloads the complete catalog, normalizes every record and
writes one file per format into the output directory.

Every format is attempted even if an earlier one fails; the command exits
with an error if any of them failed.

Examples:
  # Write google-dorks.{txt,md,json,csv} to the XDG data directory
  gdorking export

  # Only JSON and CSV, into ./out as dorks.json and dorks.csv
  gdorking export --dir out --name dorks -f json -f csv`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().String("dir", config.XDGDataDir(), "Output directory")
	cmd.Flags().StringP("name", "n", config.DefaultBaseName, "Base file name, without extension")
	cmd.Flags().StringSliceP("format", "f", config.DefaultFormats,
		fmt.Sprintf("Export formats %v", export.SupportedFormats()))

	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyExportFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.ValidateExport(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	formats, err := export.ParseFormats(cfg.Formats)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	s, err := newSession(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	exporter := export.NewExporter(cfg.OutputDir, cfg.BaseName, export.WithLogger(s.logger))

	p := pipeline.New(pipeline.WithLogger(s.logger))
	p.AddSteps(
		pipeline.NewFetchStep(s.client),
		pipeline.NewNormalizeStep(s.client.Origin()),
		pipeline.NewExportStep(exporter, formats),
	)

	catalog := model.NewCatalog(s.client.ListingURL())
	runErr := p.Execute(ctx, catalog)
	if len(catalog.Exports) > 0 {
		if err := printExportSummary(cmd.OutOrStdout(), catalog); err != nil {
			return err
		}
	}
	return runErr
}

// applyExportFlags overrides the config file with explicitly set flags.
func applyExportFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("dir") {
		if cfg.OutputDir, err = flags.GetString("dir"); err != nil {
			return err
		}
	}
	if flags.Changed("name") {
		if cfg.BaseName, err = flags.GetString("name"); err != nil {
			return err
		}
	}
	if flags.Changed("format") {
		if cfg.Formats, err = flags.GetStringSlice("format"); err != nil {
			return err
		}
	}
	return nil
}

// printExportSummary writes one table row per attempted format and a
// colored status line.
func printExportSummary(w io.Writer, catalog *model.Catalog) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
	)
	table.Header("Format", "File", "Records", "Status")

	rows := make([][]string, 0, len(catalog.Exports))
	for _, result := range catalog.Exports {
		status := "ok"
		if !result.OK() {
			status = result.Err.Error()
		}
		rows = append(rows, []string{result.Format, result.Path, strconv.Itoa(result.Records), status})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	failed := catalog.FailedExports()
	if len(failed) == 0 {
		_, err := color.New(color.FgGreen).Fprintf(w, "Exported %d records in %d formats\n",
			len(catalog.Records), len(catalog.Exports))
		return err
	}
	_, err := color.New(color.FgRed).Fprintf(w, "%d of %d formats failed\n", len(failed), len(catalog.Exports))
	return err
}
