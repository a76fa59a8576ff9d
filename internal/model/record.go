package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// RecordID is the numeric identifier of a GHDB catalog entry.
// Upstream encodes it either as a JSON number or as a quoted string,
// so decoding accepts both forms. It is always encoded as a number.
type RecordID int

// UnmarshalJSON accepts 8239 as well as "8239".
func (id *RecordID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid record id %s: %w", string(data), err)
	}
	*id = RecordID(n)
	return nil
}

// Category is the taxonomy label attached to a catalog entry.
type Category struct {
	// Title is the human-readable category name (upstream "cat_title").
	Title string `json:"cat_title"`

	// Extra keeps every other upstream field (cat_id, cat_description, ...)
	// so the structured dump stays lossless.
	Extra map[string]any `json:"-"`
}

// MarshalJSON merges Extra back into the encoded object.
func (c Category) MarshalJSON() ([]byte, error) {
	type plain Category
	return marshalWithExtra(plain(c), c.Extra)
}

// UnmarshalJSON decodes the known fields and stashes the rest in Extra.
func (c *Category) UnmarshalJSON(data []byte) error {
	type plain Category
	var p plain
	extra, err := unmarshalWithExtra(data, &p, "cat_title")
	if err != nil {
		return err
	}
	*c = Category(p)
	c.Extra = extra
	return nil
}

// Author is the contributor credited for a catalog entry.
type Author struct {
	// Name is the contributor name as provided upstream.
	Name string `json:"name"`

	// Extra keeps every other upstream field (id, ...).
	Extra map[string]any `json:"-"`
}

// MarshalJSON merges Extra back into the encoded object.
func (a Author) MarshalJSON() ([]byte, error) {
	type plain Author
	return marshalWithExtra(plain(a), a.Extra)
}

// UnmarshalJSON decodes the known fields and stashes the rest in Extra.
func (a *Author) UnmarshalJSON(data []byte) error {
	type plain Author
	var p plain
	extra, err := unmarshalWithExtra(data, &p, "name")
	if err != nil {
		return err
	}
	*a = Author(p)
	a.Extra = extra
	return nil
}

// DorkRecord is one entry of the Google Hacking Database listing.
//
// URLTitle, Category, Date and Author come straight from the listing
// endpoint. Title and URL are derived from URLTitle during normalization
// and are empty until then.
type DorkRecord struct {
	// ID is unique within one fetch and is the sort key.
	ID RecordID `json:"id"`

	// URLTitle is the raw HTML fragment holding one anchor, e.g.
	// <a href="/ghdb/8239">intitle:"index of" "backup"</a>.
	URLTitle string `json:"url_title"`

	// Title is the anchor text.
	Title string `json:"title,omitempty"`

	// URL is the anchor href resolved against the site origin.
	URL string `json:"url,omitempty"`

	// Category is the listing's taxonomy label.
	Category Category `json:"category"`

	// Date is the publication date, kept verbatim.
	Date string `json:"date"`

	// Author is the contributor, kept verbatim.
	Author Author `json:"author"`

	// Extra holds upstream fields this type does not model.
	Extra map[string]any `json:"-"`
}

// MarshalJSON encodes the record including any upstream extras.
func (r DorkRecord) MarshalJSON() ([]byte, error) {
	type plain DorkRecord
	return marshalWithExtra(plain(r), r.Extra)
}

// UnmarshalJSON decodes a record and keeps unknown fields in Extra.
func (r *DorkRecord) UnmarshalJSON(data []byte) error {
	type plain DorkRecord
	var p plain
	extra, err := unmarshalWithExtra(data, &p,
		"id", "url_title", "title", "url", "category", "date", "author")
	if err != nil {
		return err
	}
	*r = DorkRecord(p)
	r.Extra = extra
	return nil
}

// IsNormalized reports whether Title and URL have been derived.
func (r DorkRecord) IsNormalized() bool {
	return r.Title != "" && r.URL != ""
}

// marshalWithExtra encodes v in struct field order and appends the extra
// keys v does not already define, sorted by key. HTML is not escaped here;
// whether markup survives verbatim depends on the encoder that embeds the
// result, e.g. an Encoder with SetEscapeHTML(false).
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	base, err := encodeNoEscape(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}

	var defined map[string]json.RawMessage
	if err := json.Unmarshal(base, &defined); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if _, ok := defined[k]; !ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return base, nil
	}
	slices.Sort(keys)

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for i, k := range keys {
		if i > 0 || len(defined) > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeNoEscape(k)
		if err != nil {
			return nil, err
		}
		val, err := encodeNoEscape(extra[k])
		if err != nil {
			return nil, fmt.Errorf("encode extra field %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// unmarshalWithExtra decodes data into v and returns the fields whose
// keys are not listed in known.
func unmarshalWithExtra(data []byte, v any, known ...string) (map[string]any, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}

	var all map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func encodeNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
