package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nao1215/gdorking/internal/model"
)

// ErrNoDetail is returned when there is nothing to render.
var ErrNoDetail = errors.New("no entry detail to render")

const codeTextLabel = "- Code Text "

// EntryWriter writes the single-entry report.
type EntryWriter struct {
	baseWriter
}

// NewEntryWriter creates an EntryWriter.
func NewEntryWriter(output io.Writer) *EntryWriter {
	return &EntryWriter{baseWriter: newBaseWriter(output)}
}

// Write renders d, fetched from sourceURL, followed by a newline.
func (w *EntryWriter) Write(d *model.DorkEntryDetail, sourceURL string) (int, error) {
	text, err := Render(d, sourceURL)
	if err != nil {
		return 0, err
	}
	return io.WriteString(w.output, text+"\n")
}

// Render lays out one entry:
//
//	GHDB ID: 8239
//	Exploit DB: https://www.exploit-db.com/ghdb/8239
//	Author: Jane Doe
//	Publish Date: 2023-01-18
//	Google Search URL: https://www.google.com/search?q=...
//	- Code Text ----------------
//	intitle:"index of" "backup"
//	----------------------------
//
// The rulers are as wide as the longest code line; the upper one never
// shrinks below its label. Code lines lose trailing whitespace. The
// result has no trailing newline.
func Render(d *model.DorkEntryDetail, sourceURL string) (string, error) {
	if d == nil {
		return "", ErrNoDetail
	}

	codeLines := strings.Split(d.CodeText, "\n")
	width := 0
	for i, line := range codeLines {
		codeLines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
		width = max(width, utf8.RuneCountInString(codeLines[i]))
	}

	header := codeTextLabel
	if pad := width - utf8.RuneCountInString(header); pad > 0 {
		header += strings.Repeat("-", pad)
	}

	lines := []string{
		fmt.Sprintf("GHDB ID: %s", d.GHDBID),
		fmt.Sprintf("Exploit DB: %s", sourceURL),
		fmt.Sprintf("Author: %s", d.Author),
		fmt.Sprintf("Publish Date: %s", d.PublishDate),
		fmt.Sprintf("Google Search URL: %s", EncodeURL(d.GoogleSearchURL)),
		header,
		strings.Join(codeLines, "\n"),
		strings.Repeat("-", width),
	}
	return strings.Join(lines, "\n"), nil
}
