// Package main provides the entry point for the gdorking CLI.
//
// gdorking downloads the Google Hacking Database catalog published on
// exploit-db and prints the dork titles, renders a single entry, or
// exports the whole catalog as text, Markdown, JSON and CSV.
//
// Usage:
//
//	gdorking
//	gdorking --id 8239
//	gdorking export --format json --format csv
//
// See --help for all available options.
package main

func main() {
	Execute()
}
