package mailtext

import "context"

// Document is a loaded markup document that can be queried with CSS selectors.
// Implementations may wrap parsed static HTML or a live browser page.
type Document interface {
	// Find returns the first element matching selector as a Node tree,
	// or nil when nothing matches. An unparsable selector returns EINVALID.
	Find(ctx context.Context, selector string) (*Node, error)

	// HTML returns the document's current markup.
	HTML(ctx context.Context) (string, error)

	// Close releases resources held by the document.
	Close() error
}

// DocumentLoader opens documents from a source such as a file path or URL.
type DocumentLoader interface {
	// Load opens the document at source.
	// The context controls timeout and cancellation.
	Load(ctx context.Context, source string) (Document, error)
}

// ContentLocator finds the main content of a page without selectors.
type ContentLocator interface {
	// MainContent returns the node holding the page's main content,
	// or nil when no content could be identified.
	MainContent(html string) (*Node, error)
}
