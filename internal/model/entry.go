package model

// DorkEntryDetail holds the fields scraped from a single GHDB detail page.
// It lives only for the duration of one report render.
type DorkEntryDetail struct {
	// GHDBID is the identifier shown in the statistics block.
	GHDBID string `json:"ghdb_id"`

	// Author is the contributor shown in the statistics block.
	Author string `json:"author"`

	// PublishDate is the date from the "Published:" footer.
	PublishDate string `json:"publish_date"`

	// GoogleSearchURL is the raw href of the external Google Search link.
	// It must be re-encoded before display.
	GoogleSearchURL string `json:"google_search_url"`

	// CodeText is the dork query text, verbatim.
	CodeText string `json:"code_text"`
}
