// Package diag contains building blocks for formatting and processing
// diagnostics produced while compiling .60 documents.
package diag

// Shower wraps the Show function.
type Shower interface {
	// Show takes an indentation string and shows.
	Show(indent string) string
}
