package model

import "time"

// ExportResult records the outcome of writing one export format.
type ExportResult struct {
	// Format is the file extension of the format (txt, md, json, csv).
	Format string `json:"format"`

	// Path is the destination file.
	Path string `json:"path"`

	// Records is the number of records written.
	Records int `json:"records"`

	// Err is set when the format could not be written.
	Err error `json:"-"`
}

// OK reports whether the export succeeded.
func (r ExportResult) OK() bool {
	return r.Err == nil
}

// Catalog is the working state of one fetch/normalize/export run.
// Each pipeline step fills in the fields it owns and never rewrites
// what an earlier step produced.
type Catalog struct {
	// Source is the listing endpoint the records came from.
	Source string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Raw holds the records exactly as decoded from the listing.
	Raw []DorkRecord

	// Records holds the normalized records, sorted by ID.
	Records []DorkRecord

	// Titles holds the filtered, sorted title list.
	Titles []string

	// Exports holds one result per attempted export format.
	Exports []ExportResult

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string
}

// NewCatalog creates an empty catalog for the given listing source.
func NewCatalog(source string) *Catalog {
	return &Catalog{
		Source:    source,
		StartedAt: time.Now(),
	}
}

// FailedExports returns the export results that carry an error.
func (c *Catalog) FailedExports() []ExportResult {
	var failed []ExportResult
	for _, r := range c.Exports {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}
