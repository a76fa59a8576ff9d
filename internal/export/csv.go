package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/nao1215/gdorking/internal/model"
)

// CSVHeader is the fixed column order of the tabular export.
var CSVHeader = []string{"id", "title", "url", "category", "date", "author"}

// CSVWriter writes one row per record with CRLF line endings.
// Category and author are flattened to their names.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *CSVWriter) Write(records []model.DorkRecord) error {
	cw := csv.NewWriter(w.output)
	cw.UseCRLF = true

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(int(r.ID)),
			r.Title,
			r.URL,
			r.Category.Title,
			r.Date,
			r.Author.Name,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
