// Package bridge connects browser pages to the daemon over WebSocket. Each
// page registers as a tab and receives copy messages from the orchestrator.
package bridge

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/urlcopy/internal/tab"
)

const (
	helloTimeout = 10 * time.Second
	writeTimeout = 5 * time.Second
)

// Wire message types.
const (
	TypeHello      = "hello"
	TypeRegistered = "registered"
	TypeFocus      = "focus"
	TypeUpdate     = "update"
)

// Envelope is the JSON frame exchanged with pages.
type Envelope struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	TabID int    `json:"tab_id,omitempty"`
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
}

type page struct {
	connID string
	conn   *websocket.Conn
	tab    tab.Tab

	writeMu sync.Mutex
}

func (p *page) write(ctx context.Context, env Envelope) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = p.conn.SetWriteDeadline(deadline)
	return p.conn.WriteJSON(env)
}

// Hub tracks live pages. It implements tab.Querier and tab.Messenger.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	pages map[int]*page
	// focus holds live tab ids, most recently focused last.
	focus  []int
	nextID int

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		pages:   make(map[int]*page),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// ServeHTTP upgrades the request and runs the page until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	p := &page{connID: uuid.NewString(), conn: conn}
	log := h.logger.With("conn_id", p.connID)

	_ = conn.SetReadDeadline(time.Now().Add(helloTimeout))
	var hello Envelope
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != TypeHello {
		log.Warn("page did not say hello", "error", err, "type", hello.Type)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	id := h.register(p, hello)
	defer h.unregister(id, p)
	log = log.With("tab_id", id)
	log.Info("page registered", "url", hello.URL)

	if err := p.write(r.Context(), Envelope{Type: TypeRegistered, TabID: id}); err != nil {
		log.Warn("ws write failed", "error", err)
		return
	}

	for {
		var msg Envelope
		if err := conn.ReadJSON(&msg); err != nil {
			log.Info("page disconnected")
			return
		}
		switch msg.Type {
		case TypeFocus:
			h.touch(id)
		case TypeUpdate:
			h.mu.Lock()
			if cur, ok := h.pages[id]; ok && cur == p {
				p.tab.URL = msg.URL
				p.tab.Title = msg.Title
			}
			h.mu.Unlock()
		default:
			log.Debug("ignoring page message", "type", msg.Type)
		}
	}
}

func (h *Hub) register(p *page, hello Envelope) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := hello.TabID
	if id <= 0 {
		for {
			h.nextID++
			if _, taken := h.pages[h.nextID]; !taken {
				break
			}
		}
		id = h.nextID
	} else if id > h.nextID {
		h.nextID = id
	}

	if old, ok := h.pages[id]; ok {
		// A reconnecting page takes over its tab id.
		_ = old.conn.Close()
	}
	p.tab = tab.Tab{ID: id, URL: hello.URL, Title: hello.Title}
	h.pages[id] = p
	h.focus = append(slices.DeleteFunc(h.focus, func(v int) bool { return v == id }), id)
	return id
}

func (h *Hub) unregister(id int, p *page) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.pages[id]; !ok || cur != p {
		return
	}
	delete(h.pages, id)
	h.focus = slices.DeleteFunc(h.focus, func(v int) bool { return v == id })
}

func (h *Hub) touch(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.pages[id]; !ok {
		return
	}
	h.focus = append(slices.DeleteFunc(h.focus, func(v int) bool { return v == id }), id)
}

// ActiveTab returns the most recently focused live page, or nil.
func (h *Hub) ActiveTab(context.Context) (*tab.Tab, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.focus) == 0 {
		return nil, nil
	}
	t := h.pages[h.focus[len(h.focus)-1]].tab
	return &t, nil
}

// Tabs returns every live page, most recently focused first.
func (h *Hub) Tabs() []tab.Tab {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]tab.Tab, 0, len(h.focus))
	for i := len(h.focus) - 1; i >= 0; i-- {
		out = append(out, h.pages[h.focus[i]].tab)
	}
	return out
}

// Send delivers msg to the page registered as tabID.
func (h *Hub) Send(ctx context.Context, tabID int, msg tab.Message) error {
	h.mu.RLock()
	p, ok := h.pages[tabID]
	h.mu.RUnlock()
	if !ok {
		return tab.ErrNoReceivingEnd
	}

	env := Envelope{Type: string(msg.Type), ID: h.newMessageID(), TabID: tabID, Text: msg.Text}
	if err := p.write(ctx, env); err != nil {
		return fmt.Errorf("send to tab %d: %w", tabID, err)
	}
	return nil
}

func (h *Hub) newMessageID() string {
	h.entropyMu.Lock()
	defer h.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), h.entropy).String()
}
