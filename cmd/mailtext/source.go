package main

import (
	"context"
	"strings"

	"github.com/fwojciec/mailtext"
)

// sourceLoader sends URLs to the web loader and everything else to the file loader.
type sourceLoader struct {
	files mailtext.DocumentLoader
	web   mailtext.DocumentLoader
}

func (l *sourceLoader) Load(ctx context.Context, source string) (mailtext.Document, error) {
	if isURL(source) {
		return l.web.Load(ctx, source)
	}
	return l.files.Load(ctx, source)
}

func isURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
