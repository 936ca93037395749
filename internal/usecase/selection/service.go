package selection

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/domain/session"
	"github.com/divergeconnect/connect/internal/domain/solution"
	"github.com/divergeconnect/connect/internal/ranking"
)

// DefaultMaxItems caps a shortlist when no limit is configured.
const DefaultMaxItems = 100

// SubscriberBuffer is the per-subscriber change buffer.
const SubscriberBuffer = 16

// CSVHeader is the first row of an exported shortlist.
var CSVHeader = []string{"Name", "Division", "Cost", "Rating", "Projects", "Contact", "Email", "Phone"}

// Service manages per-session shortlists of catalog solutions.
// Updates are read-modify-write per session; concurrent writers race and the last one wins.
type Service struct {
	repo     Repository
	catalog  Catalog
	maxItems int
	notifier *notifier
	logger   *zap.Logger
}

// New creates a selection service. maxItems <= 0 uses DefaultMaxItems.
func New(repo Repository, catalog Catalog, maxItems int, logger *zap.Logger) *Service {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		catalog:  catalog,
		maxItems: maxItems,
		notifier: newNotifier(SubscriberBuffer),
		logger:   logger,
	}
}

// IDs returns the selected solution ids in selection order.
func (s *Service) IDs(ctx context.Context, sess string) ([]string, error) {
	if err := session.Validate(sess); err != nil {
		return nil, err
	}
	return s.load(ctx, sess)
}

// Get returns the selected solutions in selection order.
func (s *Service) Get(ctx context.Context, sess string) ([]solution.Solution, error) {
	ids, err := s.IDs(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s.catalog.Lookup(ids), nil
}

// IsSelected reports whether id is on the shortlist.
func (s *Service) IsSelected(ctx context.Context, sess, id string) (bool, error) {
	ids, err := s.IDs(ctx, sess)
	if err != nil {
		return false, err
	}
	return indexOf(ids, id) >= 0, nil
}

// Toggle adds id to the shortlist or removes it when already present.
// It returns whether id is selected afterwards.
func (s *Service) Toggle(ctx context.Context, sess, id string) (bool, error) {
	if err := session.Validate(sess); err != nil {
		return false, err
	}
	if !s.catalog.Has(id) {
		return false, fmt.Errorf("toggle %q: %w", id, domain.ErrSolutionNotFound)
	}

	ids, err := s.load(ctx, sess)
	if err != nil {
		return false, err
	}

	selected := true
	if i := indexOf(ids, id); i >= 0 {
		ids = append(ids[:i:i], ids[i+1:]...)
		selected = false
	} else {
		if len(ids) >= s.maxItems {
			return false, fmt.Errorf("toggle %q: %w (max %d)", id, domain.ErrSelectionFull, s.maxItems)
		}
		ids = append(ids, id)
	}

	if err := s.save(ctx, sess, ids); err != nil {
		return false, err
	}
	return selected, nil
}

// Clear empties the shortlist.
func (s *Service) Clear(ctx context.Context, sess string) error {
	if err := session.Validate(sess); err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, sess); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	s.publish(sess, nil)
	return nil
}

// Merge unions the stored shortlist with ids from a shared link: stored ids
// first, then new ids in link order. Unknown and duplicate ids are dropped and
// the result is truncated to the configured maximum.
func (s *Service) Merge(ctx context.Context, sess string, linkIDs []string) ([]string, error) {
	if err := session.Validate(sess); err != nil {
		return nil, err
	}
	stored, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}

	merged := make([]string, 0, len(stored)+len(linkIDs))
	seen := make(map[string]struct{}, cap(merged))
	for _, list := range [][]string{stored, linkIDs} {
		for _, id := range list {
			id = strings.TrimSpace(id)
			if _, dup := seen[id]; dup || !s.catalog.Has(id) {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	if len(merged) > s.maxItems {
		s.logger.Warn("Merged selection truncated",
			zap.String("session", sess),
			zap.Int("merged", len(merged)),
			zap.Int("max", s.maxItems),
		)
		merged = merged[:s.maxItems]
	}

	if equalIDs(stored, merged) {
		return merged, nil
	}
	if err := s.save(ctx, sess, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Grouped returns the shortlist bucketed by division.
func (s *Service) Grouped(ctx context.Context, sess string) ([]ranking.Group, error) {
	sols, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	return ranking.GroupByDivision(sols, s.catalog.Divisions()), nil
}

// ShareLink builds <baseURL>/checkout?solutions=id1,id2 for the shortlist.
func (s *Service) ShareLink(ctx context.Context, sess, baseURL string) (string, error) {
	ids, err := s.IDs(ctx, sess)
	if err != nil {
		return "", err
	}
	return BuildShareLink(baseURL, ids)
}

// BuildShareLink builds the checkout link for ids. Ids are query-escaped and
// joined with literal commas.
func BuildShareLink(baseURL string, ids []string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: base url %q", domain.ErrInvalidRequest, baseURL)
	}
	escaped := make([]string, len(ids))
	for i, id := range ids {
		escaped[i] = url.QueryEscape(id)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/checkout"
	u.RawPath = ""
	u.RawQuery = "solutions=" + strings.Join(escaped, ",")
	u.Fragment, u.RawFragment = "", ""
	return u.String(), nil
}

// ParseShareLink extracts solution ids from a ?solutions=a,b value.
func ParseShareLink(raw string) []string {
	var out []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// ExportCSV writes the shortlist as CSV to w.
func (s *Service) ExportCSV(ctx context.Context, sess string, w io.Writer) error {
	sols, err := s.Get(ctx, sess)
	if err != nil {
		return err
	}
	return WriteCSV(w, sols)
}

// WriteCSV writes solutions as CSV rows under CSVHeader.
func WriteCSV(w io.Writer, sols []solution.Solution) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range sols {
		sol := &sols[i]
		c := sol.Contact()
		row := []string{
			sol.Name(),
			"Div " + sol.PrimaryDivision(),
			sol.AverageCost(),
			strconv.FormatFloat(sol.Rating(), 'f', -1, 64),
			strconv.Itoa(sol.ProjectsUsed()),
			c.Name,
			c.Email,
			c.Phone,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", sol.ID(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Subscribe streams shortlist changes of every session until ctx is done,
// then closes the channel. Slow subscribers miss changes.
func (s *Service) Subscribe(ctx context.Context) <-chan Change {
	return s.notifier.subscribe(ctx)
}

// load reads the stored ids, replacing corrupt state with an empty list and
// skipping ids no longer in the catalog.
func (s *Service) load(ctx context.Context, sess string) ([]string, error) {
	ids, err := s.repo.Load(ctx, sess)
	if errors.Is(err, domain.ErrCorruptState) {
		s.logger.Warn("Corrupt selection replaced with empty list",
			zap.String("session", sess),
			zap.Error(err),
		)
		if err := s.repo.Save(ctx, sess, nil); err != nil {
			s.logger.Warn("Failed to overwrite corrupt selection", zap.String("session", sess), zap.Error(err))
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}

	known := ids[:0:0]
	for _, id := range ids {
		if s.catalog.Has(id) {
			known = append(known, id)
		}
	}
	return known, nil
}

func (s *Service) save(ctx context.Context, sess string, ids []string) error {
	if err := s.repo.Save(ctx, sess, ids); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	s.publish(sess, ids)
	return nil
}

func (s *Service) publish(sess string, ids []string) {
	if dropped := s.notifier.publish(Change{Session: sess, IDs: ids}); dropped > 0 {
		s.logger.Debug("Selection change dropped for slow subscribers",
			zap.String("session", sess),
			zap.Int("dropped", dropped),
		)
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func equalIDs(a, b []string) bool {
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
