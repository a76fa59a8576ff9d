package export

import (
	"cmp"
	"io"
	"slices"

	"github.com/nao1215/gdorking/internal/model"
)

// Writer encodes a normalized record set to one format.
type Writer interface {
	Write(records []model.DorkRecord) error
}

// NewWriter returns the Writer for f.
func NewWriter(f Format, output io.Writer) (Writer, error) {
	switch f {
	case FormatText:
		return NewTextWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output), nil
	case FormatCSV:
		return NewCSVWriter(output), nil
	default:
		return nil, &UnsupportedFormatError{Format: string(f)}
	}
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// byTitle returns a copy of records sorted by title. Ties keep their
// incoming order.
func byTitle(records []model.DorkRecord) []model.DorkRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.DorkRecord) int {
		return cmp.Compare(a.Title, b.Title)
	})
	return sorted
}
