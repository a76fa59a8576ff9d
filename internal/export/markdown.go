package export

import (
	"io"
	"sort"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/gdorking/internal/model"
)

// MarkdownWriter writes the categorized outline: a heading, a table of
// contents linking every category, then one section per category listing
// its records as links. Categories and records are sorted.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(records []model.DorkRecord) error {
	sorted := byTitle(records)
	categories := categoriesOf(sorted)

	md := markdown.NewMarkdown(w.output)
	md.H1("Google Dorks")
	md.PlainText("")
	md.PlainText("Table of Contents")

	toc := make([]string, 0, len(categories))
	for _, c := range categories {
		toc = append(toc, markdown.Link(c, "#"+Slug(c)))
	}
	md.BulletList(toc...)
	md.PlainText("")

	for _, c := range categories {
		md.H2(c)
		var links []string
		for _, r := range sorted {
			if r.Category.Title == c {
				links = append(links, markdown.Link(r.Title, r.URL))
			}
		}
		md.BulletList(links...)
		md.PlainText("")
	}

	return md.Build()
}

func categoriesOf(records []model.DorkRecord) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, r := range records {
		if !seen[r.Category.Title] {
			seen[r.Category.Title] = true
			categories = append(categories, r.Category.Title)
		}
	}
	sort.Strings(categories)
	return categories
}

// Slug is the in-document anchor of a category heading:
// "Files Containing Juicy Info" becomes "files-containing-juicy-info".
func Slug(category string) string {
	return strings.ReplaceAll(cases.Lower(language.Und).String(category), " ", "-")
}
