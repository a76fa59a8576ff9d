// Package markup pulls fields out of exploit-db HTML.
//
// ExtractAnchor handles the one-anchor fragments embedded in listing
// records. ExtractDetail handles full GHDB detail pages.
package markup
