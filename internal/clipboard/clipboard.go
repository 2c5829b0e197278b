// Package clipboard is the page-side listener for local runs: copy messages
// go to the system clipboard and every outcome is shown as a notification.
package clipboard

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/pterm/pterm"

	"github.com/hpungsan/urlcopy/internal/tab"
)

const (
	msgCopied     = "Copied current URL"
	msgCopyFailed = "Failed to copy URL"
)

// Sink implements tab.Messenger for every tab id.
type Sink struct {
	// Write stores text on the clipboard. Defaults to clipboard.WriteAll.
	Write func(text string) error
	// Out receives notifications. Defaults to stderr.
	Out io.Writer

	mu   sync.Mutex
	last *tab.Message
}

func NewSink() *Sink {
	return &Sink{Write: clipboard.WriteAll, Out: os.Stderr}
}

// Send handles msg. Clipboard failures are shown to the user, not returned.
func (s *Sink) Send(_ context.Context, _ int, msg tab.Message) error {
	s.mu.Lock()
	m := msg
	s.last = &m
	s.mu.Unlock()

	switch msg.Type {
	case tab.MessageCopy:
		if err := s.write(msg.Text); err != nil {
			s.printer(pterm.Error).Println(msgCopyFailed + ": " + err.Error())
			return nil
		}
		s.printer(pterm.Success).Println(msgCopied)
	case tab.MessageError:
		s.printer(pterm.Error).Println(msg.Text)
	}
	return nil
}

// lastMessage returns the most recent message handled, if any.
func (s *Sink) lastMessage() (tab.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return tab.Message{}, false
	}
	return *s.last, true
}

func (s *Sink) write(text string) error {
	if s.Write != nil {
		return s.Write(text)
	}
	return clipboard.WriteAll(text)
}

func (s *Sink) printer(p pterm.PrefixPrinter) *pterm.PrefixPrinter {
	out := s.Out
	if out == nil {
		out = os.Stderr
	}
	return p.WithWriter(out)
}
