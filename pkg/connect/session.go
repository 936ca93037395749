package connect

import (
	"context"
	"io"
	"time"

	domhistory "github.com/divergeconnect/connect/internal/domain/history"
	historyuc "github.com/divergeconnect/connect/internal/usecase/history"
	selectionuc "github.com/divergeconnect/connect/internal/usecase/selection"
)

// SelectionService manages one session's shortlist.
type SelectionService struct {
	session string
	svc     *selectionuc.Service
	obs     *observer
}

// Selection returns the shortlist of session. The session id is validated on
// every call: 1 to 64 letters, digits, '-' or '_'.
func (c *Client) Selection(session string) *SelectionService {
	return &SelectionService{session: session, svc: c.selection, obs: c.obs}
}

// IDs returns the selected solution ids in selection order.
func (s *SelectionService) IDs(ctx context.Context) (ids []string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("selection_ids", start, err) }()
	return s.svc.IDs(ctx, s.session)
}

// Solutions returns the selected solutions in selection order.
func (s *SelectionService) Solutions(ctx context.Context) (sols []Solution, err error) {
	start := time.Now()
	defer func() { s.obs.observe("selection_get", start, err) }()

	got, err := s.svc.Get(ctx, s.session)
	if err != nil {
		return nil, err
	}
	return solutionsFromDomain(got), nil
}

// Toggle selects id, or deselects it when already selected.
// Returns ErrSelectionFull when the shortlist is at its limit.
func (s *SelectionService) Toggle(ctx context.Context, id string) (selected bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("selection_toggle", start, err) }()
	return s.svc.Toggle(ctx, s.session, id)
}

// Clear empties the shortlist.
func (s *SelectionService) Clear(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("selection_clear", start, err) }()
	return s.svc.Clear(ctx, s.session)
}

// Merge adds ids after the stored ones, dropping unknown and duplicate ids.
func (s *SelectionService) Merge(ctx context.Context, ids []string) (merged []string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("selection_merge", start, err) }()
	return s.svc.Merge(ctx, s.session, ids)
}

// MergeLink merges the ids of a shared "solutions" query value such as "a,b".
func (s *SelectionService) MergeLink(ctx context.Context, solutions string) ([]string, error) {
	return s.Merge(ctx, selectionuc.ParseShareLink(solutions))
}

// Grouped returns the shortlist grouped by division.
func (s *SelectionService) Grouped(ctx context.Context) (groups []Group, err error) {
	start := time.Now()
	defer func() { s.obs.observe("selection_grouped", start, err) }()

	got, err := s.svc.Grouped(ctx, s.session)
	if err != nil {
		return nil, err
	}
	return groupsFromDomain(got), nil
}

// ShareLink builds <baseURL>/checkout?solutions=... for the shortlist.
func (s *SelectionService) ShareLink(ctx context.Context, baseURL string) (link string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("selection_share", start, err) }()
	return s.svc.ShareLink(ctx, s.session, baseURL)
}

// ExportCSV writes the shortlist as CSV.
func (s *SelectionService) ExportCSV(ctx context.Context, w io.Writer) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("selection_export", start, err) }()
	return s.svc.ExportCSV(ctx, s.session, w)
}

// SelectionChange is a shortlist update.
type SelectionChange struct {
	Session string
	IDs     []string
}

// WatchSelections streams shortlist changes of every session until ctx is done.
// Changes are dropped while the receiver is not keeping up.
func (c *Client) WatchSelections(ctx context.Context) <-chan SelectionChange {
	in := c.selection.Subscribe(ctx)
	out := make(chan SelectionChange, selectionuc.SubscriberBuffer)
	go func() {
		defer close(out)
		for change := range in {
			select {
			case out <- SelectionChange{Session: change.Session, IDs: change.IDs}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// HistoryService manages one session's search history.
type HistoryService struct {
	session string
	svc     *historyuc.Service
	obs     *observer
}

// History returns the search history of session.
func (c *Client) History(session string) *HistoryService {
	return &HistoryService{session: session, svc: c.history, obs: c.obs}
}

// Add records a visit, newest first. An earlier entry with the same path is replaced.
func (h *HistoryService) Add(ctx context.Context, typ HistoryType, title, path string) (item HistoryItem, err error) {
	start := time.Now()
	defer func() { h.obs.observe("history_add", start, err) }()

	it, err := h.svc.Add(ctx, h.session, domhistory.Type(typ), title, path)
	if err != nil {
		return HistoryItem{}, err
	}
	return historyFromDomain([]domhistory.Item{it})[0], nil
}

// List returns the history, newest first.
func (h *HistoryService) List(ctx context.Context) (items []HistoryItem, err error) {
	start := time.Now()
	defer func() { h.obs.observe("history_list", start, err) }()

	got, err := h.svc.List(ctx, h.session)
	if err != nil {
		return nil, err
	}
	return historyFromDomain(got), nil
}

// Clear removes the history.
func (h *HistoryService) Clear(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { h.obs.observe("history_clear", start, err) }()
	return h.svc.Clear(ctx, h.session)
}
