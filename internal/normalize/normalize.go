package normalize

import (
	"cmp"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/nao1215/gdorking/internal/markup"
	"github.com/nao1215/gdorking/internal/model"
)

var (
	// ErrEmptyTitle means the anchor text was blank.
	ErrEmptyTitle = errors.New("anchor text is empty")

	// ErrEmptyHref means the anchor had no href to resolve.
	ErrEmptyHref = errors.New("anchor has no href")
)

// Records derives Title and URL for every record and returns a copy sorted
// by ascending id. The input slice is not modified.
//
// Title is the trimmed anchor text of URLTitle with any reply prefix
// removed; URL is the anchor href resolved against origin. A record whose
// anchor cannot be used fails the whole call with an error naming its id.
// Since both fields are re-derived from URLTitle, normalizing an already
// normalized set changes nothing.
func Records(raw []model.DorkRecord, origin string) ([]model.DorkRecord, error) {
	base, err := url.Parse(origin)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid origin %q", origin)
	}

	out := slices.Clone(raw)
	slices.SortStableFunc(out, func(a, b model.DorkRecord) int {
		return cmp.Compare(a.ID, b.ID)
	})

	for i := range out {
		r := &out[i]

		anchor, err := markup.ExtractAnchor(r.URLTitle)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", r.ID, err)
		}

		title := StripReplyPrefix(anchor.Text)
		if title == "" {
			return nil, fmt.Errorf("record %d: %w",
				r.ID, &markup.ExtractionError{Field: "title", Err: ErrEmptyTitle})
		}

		href := strings.TrimSpace(anchor.Href)
		if href == "" {
			return nil, fmt.Errorf("record %d: %w",
				r.ID, &markup.ExtractionError{Field: "url", Err: ErrEmptyHref})
		}
		ref, err := url.Parse(href)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w",
				r.ID, &markup.ExtractionError{Field: "url", Err: err})
		}

		r.Title = title
		r.URL = base.ResolveReference(ref).String()
	}

	return out, nil
}
