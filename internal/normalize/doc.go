// Package normalize turns raw GHDB listing records into clean output.
//
// Two policies coexist. Records is used by the multi-format export and
// keeps every record, deriving a title and absolute URL for each. Titles
// is used by the plain listing and drops entries that read like prose
// rather than search queries.
package normalize
