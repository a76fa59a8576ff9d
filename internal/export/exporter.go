package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/gdorking/internal/model"
)

// FileError ties an export failure to its destination.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Exporter writes one file per format into a directory, all sharing a
// base name: {dir}/{base}.{ext}.
type Exporter struct {
	dir    string
	base   string
	logger *slog.Logger
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ExporterOption {
	return func(e *Exporter) { e.logger = logger }
}

// NewExporter creates an Exporter.
func NewExporter(dir, base string, opts ...ExporterOption) *Exporter {
	e := &Exporter{dir: dir, base: base, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns the destination of format f.
func (e *Exporter) Path(f Format) string {
	return filepath.Join(e.dir, e.base+"."+string(f))
}

// WriteAll writes records in every format. Formats are independent: a
// failure is recorded in its result and the remaining formats are still
// attempted. The returned error joins every *FileError.
func (e *Exporter) WriteAll(records []model.DorkRecord, formats []Format) ([]model.ExportResult, error) {
	if err := os.MkdirAll(e.dir, 0o750); err != nil {
		return nil, &FileError{Path: e.dir, Err: err}
	}

	results := make([]model.ExportResult, 0, len(formats))
	var errs []error

	for _, f := range formats {
		path := e.Path(f)
		result := model.ExportResult{Format: string(f), Path: path, Records: len(records)}

		if err := e.write(path, f, records); err != nil {
			fileErr := &FileError{Path: path, Err: err}
			result.Err = fileErr
			errs = append(errs, fileErr)
			e.logger.Error("export failed", "format", f, "path", path, "error", err)
		} else {
			e.logger.Info("exported", "format", f, "path", path, "records", len(records))
		}
		results = append(results, result)
	}

	return results, errors.Join(errs...)
}

func (e *Exporter) write(path string, f Format, records []model.DorkRecord) error {
	if !f.Valid() {
		return &UnsupportedFormatError{Format: string(f)}
	}
	return WriteFileAtomic(path, func(w io.Writer) error {
		writer, err := NewWriter(f, w)
		if err != nil {
			return err
		}
		return writer.Write(records)
	})
}

// WriteFileAtomic writes through a temporary file in the destination
// directory and renames it into place, so path is either left untouched
// or fully written.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()           //nolint:errcheck // already failing
			_ = os.Remove(tmp.Name()) //nolint:errcheck // best effort cleanup
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // export files are meant to be shared
		return err
	}
	return os.Rename(tmp.Name(), path)
}
