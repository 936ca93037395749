package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/domain"
	domhistory "github.com/divergeconnect/connect/internal/domain/history"
)

// --- Mocks ---

type mockRepo struct {
	data    map[string][]domhistory.Item
	corrupt bool
	saves   int
	saveErr error
}

func (m *mockRepo) Load(_ context.Context, sess string) ([]domhistory.Item, error) {
	if m.corrupt {
		return nil, fmt.Errorf("%w: truncated", domain.ErrCorruptState)
	}
	return append([]domhistory.Item(nil), m.data[sess]...), nil
}

func (m *mockRepo) Save(_ context.Context, sess string, items []domhistory.Item) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.corrupt = false
	m.data[sess] = append([]domhistory.Item(nil), items...)
	return nil
}

func (m *mockRepo) Clear(_ context.Context, sess string) error {
	delete(m.data, sess)
	return nil
}

func newService(maxItems int) (*Service, *mockRepo) {
	repo := &mockRepo{data: map[string][]domhistory.Item{}}
	svc := New(repo, maxItems, zap.NewNop())
	tick := int64(0)
	svc.now = func() time.Time {
		tick++
		return time.UnixMilli(1_700_000_000_000 + tick)
	}
	return svc, repo
}

func paths(items []domhistory.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Tests ---

func TestAdd_NewestFirst(t *testing.T) {
	svc, _ := newService(0)
	ctx := context.Background()

	first, err := svc.Add(ctx, "s", domhistory.Vertical, "Hospital", "/vertical/hospital")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := uuid.Parse(first.ID); err != nil {
		t.Errorf("id %q is not a uuid: %v", first.ID, err)
	}
	if first.Timestamp == 0 {
		t.Error("timestamp not set")
	}

	if _, err := svc.Add(ctx, "s", domhistory.Project, "Mercy General", "/project/P-1001"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	items, err := svc.List(ctx, "s")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !equal(paths(items), []string{"/project/P-1001", "/vertical/hospital"}) {
		t.Errorf("paths = %v", paths(items))
	}
	if items[0].Timestamp <= items[1].Timestamp {
		t.Error("newest item should carry the later timestamp")
	}
}

func TestAdd_DedupByPath(t *testing.T) {
	svc, _ := newService(0)
	ctx := context.Background()

	_, _ = svc.Add(ctx, "s", domhistory.Vertical, "Hospital", "/a")
	_, _ = svc.Add(ctx, "s", domhistory.Vertical, "Airport", "/b")
	again, _ := svc.Add(ctx, "s", domhistory.Vertical, "Hospital again", "/a")

	items, _ := svc.List(ctx, "s")
	if !equal(paths(items), []string{"/a", "/b"}) {
		t.Fatalf("paths = %v", paths(items))
	}
	if items[0].ID != again.ID || items[0].Title != "Hospital again" {
		t.Errorf("revisited entry should be the new one, got %+v", items[0])
	}
}

func TestAdd_Cap(t *testing.T) {
	svc, _ := newService(3)
	ctx := context.Background()

	for i := range 5 {
		if _, err := svc.Add(ctx, "s", domhistory.Innovation, "t", fmt.Sprintf("/p%d", i)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	items, _ := svc.List(ctx, "s")
	if !equal(paths(items), []string{"/p4", "/p3", "/p2"}) {
		t.Errorf("paths = %v", paths(items))
	}
}

func TestAdd_DefaultCap(t *testing.T) {
	svc, _ := newService(0)
	ctx := context.Background()

	for i := range DefaultMaxItems + 5 {
		_, _ = svc.Add(ctx, "s", domhistory.AI, "q", fmt.Sprintf("/q%d", i))
	}
	items, _ := svc.List(ctx, "s")
	if len(items) != DefaultMaxItems {
		t.Errorf("len = %d, want %d", len(items), DefaultMaxItems)
	}
}

func TestAdd_Invalid(t *testing.T) {
	svc, repo := newService(0)
	ctx := context.Background()

	tests := []struct {
		name    string
		sess    string
		typ     domhistory.Type
		title   string
		path    string
		wantErr error
	}{
		{"unknown type", "s", "bookmark", "t", "/p", domain.ErrInvalidHistoryItem},
		{"empty path", "s", domhistory.AI, "t", "", domain.ErrInvalidHistoryItem},
		{"empty title", "s", domhistory.AI, "", "/p", domain.ErrInvalidHistoryItem},
		{"bad session", "a/b", domhistory.AI, "t", "/p", domain.ErrInvalidSession},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Add(ctx, tc.sess, tc.typ, tc.title, tc.path); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
	if repo.saves != 0 {
		t.Errorf("invalid items must not be saved, saves = %d", repo.saves)
	}
}

func TestCorruptHistoryIsReplaced(t *testing.T) {
	svc, repo := newService(0)
	repo.corrupt = true

	items, err := svc.List(context.Background(), "s")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 || repo.corrupt {
		t.Errorf("corrupt history should read as empty and be overwritten")
	}
}

func TestClear(t *testing.T) {
	svc, _ := newService(0)
	ctx := context.Background()

	_, _ = svc.Add(ctx, "s", domhistory.AI, "q", "/q")
	if err := svc.Clear(ctx, "s"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	items, _ := svc.List(ctx, "s")
	if len(items) != 0 {
		t.Errorf("items after clear = %v", items)
	}
}

func TestAdd_SaveError(t *testing.T) {
	svc, repo := newService(0)
	repo.saveErr = errors.New("down")

	if _, err := svc.Add(context.Background(), "s", domhistory.AI, "q", "/q"); !errors.Is(err, repo.saveErr) {
		t.Errorf("expected save error, got %v", err)
	}
}
