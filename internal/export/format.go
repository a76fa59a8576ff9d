package export

import (
	"fmt"
	"strings"
)

// Format is an export encoding, named by its file extension.
type Format string

// Supported formats.
const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
)

// SupportedFormats lists every format in the order an export writes them.
func SupportedFormats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatJSON, FormatCSV}
}

// Valid reports whether f is supported.
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// UnsupportedFormatError is returned for an unknown format name.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	names := make([]string, 0, len(SupportedFormats()))
	for _, f := range SupportedFormats() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("unsupported format %q (supported: %s)", e.Format, strings.Join(names, ", "))
}

// ParseFormat converts a name such as "md" or "JSON" into a Format.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if !f.Valid() {
		return "", &UnsupportedFormatError{Format: name}
	}
	return f, nil
}

// ParseFormats parses every name and drops duplicates, keeping the first
// occurrence. It fails on the first unknown name.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	formats := make([]Format, 0, len(names))
	for _, name := range names {
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}
