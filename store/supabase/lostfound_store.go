// Package supabase keeps the lost-and-found board in a hosted Supabase table,
// reached through PostgREST behind a circuit breaker.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusconnect/campus-backend/internal/validation"
	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/sony/gobreaker/v2"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

var _ store.LostFoundStore = (*LostFoundStore)(nil)

// itemRow mirrors the snake_case columns of the lost_found table.
type itemRow struct {
	ID              string     `json:"id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Location        string     `json:"location"`
	Date            string     `json:"date"`
	Type            string     `json:"type"`
	ReporterID      string     `json:"reporter_id"`
	ReporterName    string     `json:"reporter_name"`
	ReporterContact string     `json:"reporter_contact"`
	ImageURL        string     `json:"image_url,omitempty"`
	Resolved        bool       `json:"resolved"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

func rowFromItem(i *types.LostFoundItem) itemRow {
	return itemRow{
		ID:              i.ID,
		Title:           i.Title,
		Description:     i.Description,
		Category:        string(i.Category),
		Location:        i.Location,
		Date:            i.Date,
		Type:            string(i.Type),
		ReporterID:      i.ReporterID,
		ReporterName:    i.ReporterName,
		ReporterContact: i.ReporterContact,
		ImageURL:        i.ImageURL,
		Resolved:        i.Resolved,
	}
}

func (r itemRow) item(now time.Time) types.LostFoundItem {
	i := types.LostFoundItem{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Category:        types.LostFoundCategory(r.Category),
		Location:        r.Location,
		Date:            r.Date,
		Type:            types.LostFoundType(r.Type),
		ReporterID:      r.ReporterID,
		ReporterName:    r.ReporterName,
		ReporterContact: r.ReporterContact,
		ImageURL:        r.ImageURL,
		Resolved:        r.Resolved,
	}
	if r.CreatedAt != nil {
		i.CreatedAt = *r.CreatedAt
	}
	i.Normalize(now)
	return i
}

// BreakerSettings tunes the circuit breaker guarding the hosted table.
type BreakerSettings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// LostFoundStore implements store.LostFoundStore on a Supabase table.
type LostFoundStore struct {
	client *supa.Client
	table  string
	cb     *gobreaker.CircuitBreaker[[]itemRow]
	log    *zap.Logger
}

// NewLostFoundStore wraps a Supabase client. table is usually "lost_found".
func NewLostFoundStore(client *supa.Client, table string, bs BreakerSettings) *LostFoundStore {
	if bs.ConsecutiveFailures == 0 {
		bs.ConsecutiveFailures = 5
	}
	if bs.OpenTimeout <= 0 {
		bs.OpenTimeout = 30 * time.Second
	}
	log := logger.Named("LostFoundStore")

	cb := gobreaker.NewCircuitBreaker[[]itemRow](gobreaker.Settings{
		Name:        "supabase-" + table,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     bs.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &LostFoundStore{client: client, table: table, cb: cb, log: log}
}

// BreakerState reports the breaker state for health checks.
func (s *LostFoundStore) BreakerState() string {
	return s.cb.State().String()
}

// execute runs fn through the breaker. fn is a PostgREST call; the ctx is
// checked up front since postgrest-go does not take one.
func (s *LostFoundStore) execute(ctx context.Context, op string, fn func() ([]itemRow, error)) ([]itemRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w", op, store.ErrUnavailable)
		}
		s.log.Error("Supabase request failed", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// ListOpen returns unresolved items, newest first.
func (s *LostFoundStore) ListOpen(ctx context.Context) ([]types.LostFoundItem, error) {
	rows, err := s.execute(ctx, "list lost and found", func() ([]itemRow, error) {
		var out []itemRow
		_, err := s.client.From(s.table).
			Select("*", "", false).
			Eq("resolved", "false").
			Order("created_at", &postgrest.OrderOpts{Ascending: false}).
			ExecuteTo(&out)
		return out, err
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]types.LostFoundItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.item(now))
	}
	return items, nil
}

func (s *LostFoundStore) GetByID(ctx context.Context, id string) (*types.LostFoundItem, error) {
	rows, err := s.execute(ctx, "get lost and found item", func() ([]itemRow, error) {
		var out []itemRow
		_, err := s.client.From(s.table).
			Select("*", "", false).
			Eq("id", id).
			ExecuteTo(&out)
		return out, err
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("lost and found item %s not found: %w", id, store.ErrNotFound)
	}
	item := rows[0].item(time.Now())
	return &item, nil
}

// Create inserts an unresolved item and returns the stored row, including
// the id and created_at assigned by the table.
func (s *LostFoundStore) Create(ctx context.Context, item *types.LostFoundItem) (*types.LostFoundItem, error) {
	item.Resolved = false
	if err := validation.Struct("lost and found item", item); err != nil {
		return nil, err
	}

	row := rowFromItem(item)
	rows, err := s.execute(ctx, "create lost and found item", func() ([]itemRow, error) {
		var out []itemRow
		_, err := s.client.From(s.table).
			Insert(row, false, "", "representation", "").
			ExecuteTo(&out)
		return out, err
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("create lost and found item: empty response")
	}
	created := rows[0].item(time.Now())
	return &created, nil
}

// MarkResolved hides an item from the board.
func (s *LostFoundStore) MarkResolved(ctx context.Context, id string) error {
	rows, err := s.execute(ctx, "resolve lost and found item", func() ([]itemRow, error) {
		var out []itemRow
		_, err := s.client.From(s.table).
			Update(map[string]interface{}{"resolved": true}, "representation", "").
			Eq("id", id).
			ExecuteTo(&out)
		return out, err
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("lost and found item %s not found: %w", id, store.ErrNotFound)
	}
	return nil
}
