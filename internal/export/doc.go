// Package export writes a normalized GHDB record set to disk.
//
// Four encodings are supported: a plain title list (txt), a categorized
// Markdown outline (md), an indented JSON dump that keeps every upstream
// field (json) and a flat table (csv). Exporter writes each of them to
// {dir}/{base}.{ext} through a temporary file, so a failed format never
// leaves a truncated file behind.
package export
