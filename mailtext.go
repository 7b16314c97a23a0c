// Package mailtext turns rendered email markup into normalized plain text for
// downstream analysis such as a phishing classifier.
//
// The heart of the package is Engine, a pure tree walk that linearizes a
// markup subtree: block boundaries become line breaks, adjacent inline runs are
// separated by single spaces, and non-rendering content is skipped.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package mailtext
