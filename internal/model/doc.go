// Package model defines the data structures shared by the fetch,
// normalize, export and report packages.
//
// The main types are:
//   - DorkRecord: one Google Hacking Database listing entry
//   - DorkEntryDetail: the fields scraped from one GHDB detail page
//   - Catalog: the state carried through a fetch/normalize/export run
//
// Records are decoded once from the listing endpoint, normalized once,
// and then only read. Upstream fields that are not modelled explicitly
// are preserved so the JSON export remains lossless.
package model
