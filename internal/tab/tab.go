// Package tab describes the browser tab a copy is taken from and the
// messages sent back to it.
package tab

import (
	"context"
	"errors"
)

// Tab is a reference to a browser tab. ID 0 means the tab has no handle.
// Empty URL or Title means the value is absent.
type Tab struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type MessageType string

const (
	MessageCopy  MessageType = "copy"
	MessageError MessageType = "error"
)

// Message is delivered to the page-side listener of a tab.
type Message struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

func CopyMessage(text string) Message  { return Message{Type: MessageCopy, Text: text} }
func ErrorMessage(text string) Message { return Message{Type: MessageError, Text: text} }

// ErrNoReceivingEnd is returned by Messenger.Send when the tab has no listener.
var ErrNoReceivingEnd = errors.New("could not establish connection: receiving end does not exist")

// Querier finds the active tab. It returns nil, nil when there is none.
type Querier interface {
	ActiveTab(ctx context.Context) (*Tab, error)
}

type Messenger interface {
	Send(ctx context.Context, tabID int, msg Message) error
}

// Static is a Querier that always returns the same tab.
type Static struct {
	Tab *Tab
}

func (s Static) ActiveTab(context.Context) (*Tab, error) {
	if s.Tab == nil {
		return nil, nil
	}
	t := *s.Tab
	return &t, nil
}
