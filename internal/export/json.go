package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nao1215/gdorking/internal/model"
)

// JSONWriter writes the full record set as an indented JSON array,
// including upstream fields the model does not name.
type JSONWriter struct {
	baseWriter
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent sets the per-level indentation. The default is four spaces.
func WithIndent(indent string) JSONWriterOption {
	return func(w *JSONWriter) { w.indent = indent }
}

// NewJSONWriter creates a JSONWriter.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		indent:     "    ",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *JSONWriter) Write(records []model.DorkRecord) error {
	if records == nil {
		records = []model.DorkRecord{}
	}
	enc := json.NewEncoder(w.output)
	enc.SetIndent("", w.indent)
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// ReadJSON reads a dump written by JSONWriter.
func ReadJSON(r io.Reader) ([]model.DorkRecord, error) {
	var records []model.DorkRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("read json dump: %w", err)
	}
	return records, nil
}
