package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/nao1215/gdorking/internal/config"
	"github.com/nao1215/gdorking/internal/export"
	"github.com/nao1215/gdorking/internal/model"
	"github.com/nao1215/gdorking/internal/pipeline"
	"github.com/nao1215/gdorking/internal/report"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for gdorking.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gdorking",
		Short: "Download the Google Hacking Database catalog",
		Long: `gdorking downloads the Google Hacking Database published on exploit-db.

Without flags it prints every dork title that looks like a search query,
one per line. With --id it prints the report of a single entry.

Examples:
  # Print the dork titles
  gdorking

  # Save the dork titles to a file
  gdorking -o dorks.txt

  # Print entry 8239
  gdorking --id 8239

  # Route requests through a SOCKS5 proxy
  gdorking --proxy 127.0.0.1:9050`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	flags := cmd.PersistentFlags()
	flags.BoolP("debug", "d", false, "Enable debug logging")
	flags.String("proxy", "", "Route requests through a SOCKS5 proxy (host:port)")
	flags.Bool("tor", false, "Start an embedded Tor daemon and route requests through it")
	flags.Duration("tor-timeout", config.DefaultTorStartupTimeout, "Timeout for embedded Tor startup")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .gdorking in current or home directory)")

	cmd.Flags().IntP("id", "i", 0, "Print the report of one catalog entry")
	cmd.Flags().StringP("output", "o", "", "Write output to the given file instead of stdout")

	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err) //nolint:errcheck // nothing left to report to
		os.Exit(1)
	}
}

func runRootCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.EntryID, err = cmd.Flags().GetInt("id"); err != nil {
		return err
	}
	if cfg.OutputFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	s, err := newSession(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if cfg.EntryID > 0 {
		return runEntry(ctx, cmd, s)
	}
	return runList(ctx, cmd, s)
}

// runList prints the filtered dork titles.
func runList(ctx context.Context, cmd *cobra.Command, s *session) error {
	p := pipeline.New(pipeline.WithLogger(s.logger))
	p.AddSteps(
		pipeline.NewFetchStep(s.client),
		pipeline.NewFilterTitlesStep(s.logger),
		pipeline.NewWriteTitlesStep(s.cfg.OutputFile, cmd.OutOrStdout()),
	)

	catalog := model.NewCatalog(s.client.ListingURL())
	if err := p.Execute(ctx, catalog); err != nil {
		return err
	}
	s.logger.Info("listed dorks", "records", len(catalog.Raw), "titles", len(catalog.Titles))
	return nil
}

// runEntry prints the report of one entry. Nothing is written when the
// page cannot be fetched or parsed.
func runEntry(ctx context.Context, cmd *cobra.Command, s *session) error {
	id := s.cfg.EntryID
	sourceURL := s.client.EntryURL(id)

	detail, err := s.client.FetchEntry(ctx, id)
	if err != nil {
		return err
	}

	if s.cfg.OutputFile == "" {
		_, err := report.NewEntryWriter(cmd.OutOrStdout()).Write(detail, sourceURL)
		return err
	}

	if err := export.WriteFileAtomic(s.cfg.OutputFile, func(w io.Writer) error {
		_, err := report.NewEntryWriter(w).Write(detail, sourceURL)
		return err
	}); err != nil {
		return err
	}
	s.logger.Info("entry written", "id", id, "path", s.cfg.OutputFile)
	return nil
}
