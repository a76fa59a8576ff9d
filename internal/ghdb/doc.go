// Package ghdb talks to the exploit-db Google Hacking Database.
//
// FetchAll walks the DataTables listing endpoint page by page and returns
// the raw records. FetchEntry reads one detail page. Transient HTTP
// failures are retried; malformed responses fail immediately with a
// DecodeError or markup.ExtractionError naming the URL.
package ghdb
