package mock

import (
	"context"

	"github.com/fwojciec/mailtext"
)

var (
	_ mailtext.Document       = (*Document)(nil)
	_ mailtext.DocumentLoader = (*DocumentLoader)(nil)
	_ mailtext.ContentLocator = (*ContentLocator)(nil)
)

// Document is a mock implementation of mailtext.Document.
type Document struct {
	FindFn  func(ctx context.Context, selector string) (*mailtext.Node, error)
	HTMLFn  func(ctx context.Context) (string, error)
	CloseFn func() error
}

func (d *Document) Find(ctx context.Context, selector string) (*mailtext.Node, error) {
	return d.FindFn(ctx, selector)
}

func (d *Document) HTML(ctx context.Context) (string, error) {
	return d.HTMLFn(ctx)
}

func (d *Document) Close() error {
	if d.CloseFn == nil {
		return nil
	}
	return d.CloseFn()
}

// DocumentLoader is a mock implementation of mailtext.DocumentLoader.
type DocumentLoader struct {
	LoadFn func(ctx context.Context, source string) (mailtext.Document, error)
}

func (l *DocumentLoader) Load(ctx context.Context, source string) (mailtext.Document, error) {
	return l.LoadFn(ctx, source)
}

// ContentLocator is a mock implementation of mailtext.ContentLocator.
type ContentLocator struct {
	MainContentFn func(html string) (*mailtext.Node, error)
}

func (l *ContentLocator) MainContent(html string) (*mailtext.Node, error) {
	return l.MainContentFn(html)
}
