package ops

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/hpungsan/urlcopy/internal/menu"
	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/tab"
)

// recordingStore wraps a MemoryStore, records Set calls, and can fail on demand.
type recordingStore struct {
	*prefs.MemoryStore
	mu      sync.Mutex
	sets    []prefs.Pair
	failGet error
	failSet error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: prefs.NewMemoryStore()}
}

func (s *recordingStore) Get(ctx context.Context, key string) (any, bool, error) {
	if s.failGet != nil {
		return nil, false, s.failGet
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *recordingStore) Set(ctx context.Context, key string, value any) error {
	if s.failSet != nil {
		return s.failSet
	}
	s.mu.Lock()
	s.sets = append(s.sets, prefs.Pair{Key: key, Value: value})
	s.mu.Unlock()
	return s.MemoryStore.Set(ctx, key, value)
}

// seed writes values without recording them.
func (s *recordingStore) seed(t *testing.T, pairs ...prefs.Pair) {
	t.Helper()
	for _, p := range pairs {
		if err := s.MemoryStore.Set(context.Background(), p.Key, p.Value); err != nil {
			t.Fatalf("seed %s: %v", p.Key, err)
		}
	}
}

type indicatorUpdate struct {
	ID      string
	Checked bool
}

// recordingMenus wraps menu.Indicators and records Update calls.
type recordingMenus struct {
	*menu.Indicators
	updates []indicatorUpdate
}

func newRecordingMenus() *recordingMenus {
	return &recordingMenus{Indicators: menu.NewIndicators()}
}

func (m *recordingMenus) Update(id string, checked bool) error {
	m.updates = append(m.updates, indicatorUpdate{id, checked})
	return m.Indicators.Update(id, checked)
}

type sentMessage struct {
	TabID int
	Msg   tab.Message
}

type fakeMessenger struct {
	sent []sentMessage
	// errs are returned by successive Send calls; nil entries succeed.
	errs []error
}

func (m *fakeMessenger) Send(_ context.Context, tabID int, msg tab.Message) error {
	m.sent = append(m.sent, sentMessage{tabID, msg})
	if len(m.errs) == 0 {
		return nil
	}
	err := m.errs[0]
	m.errs = m.errs[1:]
	return err
}

type fakeQuerier struct {
	tab *tab.Tab
	err error
}

func (q fakeQuerier) ActiveTab(context.Context) (*tab.Tab, error) {
	return q.tab, q.err
}

type fakeOpener struct {
	calls int
	err   error
}

func (o *fakeOpener) OpenOptions(context.Context) error {
	o.calls++
	return o.err
}

var errBoom = errors.New("boom")

type testEnv struct {
	deps  Deps
	store *recordingStore
	menus *recordingMenus
	msgr  *fakeMessenger
	logs  *bytes.Buffer
}

func newTestEnv(t *testing.T, active *tab.Tab) *testEnv {
	t.Helper()
	env := &testEnv{
		store: newRecordingStore(),
		menus: newRecordingMenus(),
		msgr:  &fakeMessenger{},
		logs:  &bytes.Buffer{},
	}
	env.deps = Deps{
		Store:     env.store,
		Menus:     env.menus,
		Tabs:      fakeQuerier{tab: active},
		Messenger: env.msgr,
		Logger:    slog.New(slog.NewTextHandler(env.logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	return env
}
