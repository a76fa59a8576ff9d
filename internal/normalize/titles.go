package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/nao1215/gdorking/internal/markup"
	"github.com/nao1215/gdorking/internal/model"
)

var replyPrefix = regexp.MustCompile(`^(Re|Fwd?):`)

// StripReplyPrefix trims s and removes one leading "Re:", "Fw:" or "Fwd:".
//
//	StripReplyPrefix("Re: admin panel") == "admin panel"
func StripReplyPrefix(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSpace(replyPrefix.ReplaceAllString(s, ""))
}

// Titles extracts the dork-like titles of raw and returns them sorted.
//
// The listing mixes search queries with forum-style thread titles. A title
// is kept when it contains a character other than a letter, digit,
// underscore, space or period (quotes, colons, ...), or, failing that, a
// period followed by a non-space character as in "U.S." or "example.com".
// Records without an anchor are skipped and their ids returned.
func Titles(raw []model.DorkRecord) (titles []string, skipped []model.RecordID) {
	titles = make([]string, 0, len(raw))
	for _, r := range raw {
		anchor, err := markup.ExtractAnchor(r.URLTitle)
		if err != nil {
			skipped = append(skipped, r.ID)
			continue
		}
		title := StripReplyPrefix(anchor.Text)
		if IsDorkLike(title) {
			titles = append(titles, title)
		}
	}
	sort.Strings(titles)
	return titles, skipped
}

// IsDorkLike reports whether title passes the listing filter.
func IsDorkLike(title string) bool {
	for _, r := range title {
		if r == ' ' || r == '.' {
			continue
		}
		if !isWordRune(r) {
			return true
		}
	}
	return hasInnerPeriod(title)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// hasInnerPeriod reports whether some '.' is followed by a non-space rune.
func hasInnerPeriod(s string) bool {
	runes := []rune(s)
	for i, r := range runes {
		if r == '.' && i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			return true
		}
	}
	return false
}
