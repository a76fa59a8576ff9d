package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nao1215/gdorking/internal/export"
	"github.com/nao1215/gdorking/internal/model"
	"github.com/nao1215/gdorking/internal/normalize"
)

// CatalogSource returns the complete raw listing.
type CatalogSource interface {
	FetchAll(ctx context.Context) ([]model.DorkRecord, error)
}

// FetchStep fills Catalog.Raw.
type FetchStep struct {
	source CatalogSource
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(source CatalogSource) *FetchStep {
	return &FetchStep{source: source}
}

// Name returns the step name.
func (s *FetchStep) Name() string { return "fetch" }

// Do executes the step.
func (s *FetchStep) Do(ctx context.Context, catalog *model.Catalog) error {
	records, err := s.source.FetchAll(ctx)
	if err != nil {
		return err
	}
	catalog.Raw = records
	return nil
}

// NormalizeStep fills Catalog.Records from Catalog.Raw.
type NormalizeStep struct {
	origin string
}

// NewNormalizeStep creates a NormalizeStep resolving links against origin.
func NewNormalizeStep(origin string) *NormalizeStep {
	return &NormalizeStep{origin: origin}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string { return "normalize" }

// Do executes the step.
func (s *NormalizeStep) Do(_ context.Context, catalog *model.Catalog) error {
	records, err := normalize.Records(catalog.Raw, s.origin)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	catalog.Records = records
	return nil
}

// FilterTitlesStep fills Catalog.Titles from Catalog.Raw.
type FilterTitlesStep struct {
	logger *slog.Logger
}

// NewFilterTitlesStep creates a FilterTitlesStep.
func NewFilterTitlesStep(logger *slog.Logger) *FilterTitlesStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterTitlesStep{logger: logger}
}

// Name returns the step name.
func (s *FilterTitlesStep) Name() string { return "filter_titles" }

// Do executes the step.
func (s *FilterTitlesStep) Do(_ context.Context, catalog *model.Catalog) error {
	titles, skipped := normalize.Titles(catalog.Raw)
	for _, id := range skipped {
		s.logger.Debug("record has no anchor, skipped", "id", id)
	}
	s.logger.Debug("filtered titles", "records", len(catalog.Raw), "titles", len(titles))
	catalog.Titles = titles
	return nil
}

// ExportStep writes Catalog.Records in every configured format and
// records one result per format. It fails if any format failed, after
// all of them have been attempted.
type ExportStep struct {
	exporter *export.Exporter
	formats  []export.Format
}

// NewExportStep creates an ExportStep.
func NewExportStep(exporter *export.Exporter, formats []export.Format) *ExportStep {
	return &ExportStep{exporter: exporter, formats: formats}
}

// Name returns the step name.
func (s *ExportStep) Name() string { return "export" }

// Do executes the step.
func (s *ExportStep) Do(_ context.Context, catalog *model.Catalog) error {
	results, err := s.exporter.WriteAll(catalog.Records, s.formats)
	catalog.Exports = results
	return err
}

// WriteTitlesStep writes Catalog.Titles, one per line, to a file or, when
// no path is set, to out.
type WriteTitlesStep struct {
	path string
	out  io.Writer
}

// NewWriteTitlesStep creates a WriteTitlesStep.
func NewWriteTitlesStep(path string, out io.Writer) *WriteTitlesStep {
	return &WriteTitlesStep{path: path, out: out}
}

// Name returns the step name.
func (s *WriteTitlesStep) Name() string { return "write_titles" }

// Do executes the step.
func (s *WriteTitlesStep) Do(_ context.Context, catalog *model.Catalog) error {
	text := strings.Join(catalog.Titles, "\n")
	if s.path == "" {
		_, err := fmt.Fprintln(s.out, text)
		return err
	}
	return export.WriteFileAtomic(s.path, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}
