// Package report renders a single GHDB entry for the terminal or a file.
package report
