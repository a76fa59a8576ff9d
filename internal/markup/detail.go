package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/gdorking/internal/model"
)

// Field names reported by ExtractionError, in extraction order.
const (
	FieldGHDBID          = "ghdb_id"
	FieldAuthor          = "author"
	FieldPublishDate     = "publish_date"
	FieldGoogleSearchURL = "google_search_url"
	FieldCodeText        = "code_text"
)

// ExtractDetail reads a GHDB detail page and returns its five fields.
// The first field that cannot be located is reported as an
// ExtractionError; no partial result is returned.
//
// GoogleSearchURL is the raw href; re-encoding it is left to the caller.
func ExtractDetail(r io.Reader) (*model.DorkEntryDetail, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse detail page: %w", err)
	}

	stats := doc.Find(".statistics > .info > .row > .col-6")

	ghdbID := containing(stats, "GHDB-ID:").ChildrenFiltered("h6.stats-title").First()
	if ghdbID.Length() == 0 {
		return nil, notFound(FieldGHDBID)
	}

	author := containing(stats, "Author:").ChildrenFiltered("h6.stats-title").First()
	if author.Length() == 0 {
		return nil, notFound(FieldAuthor)
	}

	published := containing(doc.Find(".card-stats .card-footer"), "Published:").Find(".stats").First()
	if published.Length() == 0 {
		return nil, notFound(FieldPublishDate)
	}

	search := containing(doc.Find("div"), "Google Search:").ChildrenFiltered("a.external").First()
	href, ok := search.Attr("href")
	if !ok {
		return nil, notFound(FieldGoogleSearchURL)
	}

	code := doc.Find(".content code.language-text").First()
	if code.Length() == 0 {
		return nil, notFound(FieldCodeText)
	}

	return &model.DorkEntryDetail{
		GHDBID:          strings.TrimSpace(ghdbID.Text()),
		Author:          strings.TrimSpace(author.Text()),
		PublishDate:     afterLastLabel(strings.TrimSpace(published.Text())),
		GoogleSearchURL: href,
		CodeText:        strings.TrimSpace(code.Text()),
	}, nil
}

// containing keeps the elements whose text includes label.
func containing(sel *goquery.Selection, label string) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), label)
	})
}

// afterLastLabel turns "Published: 2023-01-18" into "2023-01-18".
func afterLastLabel(s string) string {
	if i := strings.LastIndex(s, ": "); i >= 0 {
		return s[i+2:]
	}
	return s
}

func notFound(field string) error {
	return &ExtractionError{Field: field, Err: ErrElementNotFound}
}
