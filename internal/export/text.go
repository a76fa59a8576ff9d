package export

import (
	"bufio"
	"io"

	"github.com/nao1215/gdorking/internal/model"
)

// TextWriter writes one title per line, sorted by title.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *TextWriter) Write(records []model.DorkRecord) error {
	bw := bufio.NewWriter(w.output)
	for _, r := range byTitle(records) {
		if _, err := bw.WriteString(r.Title + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
