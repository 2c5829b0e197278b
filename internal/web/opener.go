package web

import (
	"context"

	"github.com/pkg/browser"
)

// BrowserOpener opens the options page in the user's default browser.
type BrowserOpener struct {
	URL string
	// Open defaults to browser.OpenURL.
	Open func(url string) error
}

func (o BrowserOpener) OpenOptions(context.Context) error {
	open := o.Open
	if open == nil {
		open = browser.OpenURL
	}
	return open(o.URL)
}
