package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusconnect/campus-backend/internal/validation"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Ensure PgClubStore implements store.ClubStore.
var _ store.ClubStore = (*PgClubStore)(nil)

const clubColumns = `id, name, description, member_count, category, image_url, instagram, website, created_at`

// PgClubStore implements store.ClubStore using PostgreSQL.
type PgClubStore struct {
	db DB
}

// NewPgClubStore creates a new PostgreSQL club store.
func NewPgClubStore(db DB) *PgClubStore {
	return &PgClubStore{db: db}
}

func scanClub(row scanner) (*types.Club, error) {
	var c types.Club
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.MemberCount, &c.Category,
		&c.ImageURL, &c.Instagram, &c.Website, &c.CreatedAt); err != nil {
		return nil, err
	}
	stored := c.MemberCount
	c.Normalize(now())
	if c.MemberCount != stored {
		logDrift("club", c.ID, stored, c.MemberCount)
	}
	return &c, nil
}

// List returns every club ordered by name.
func (s *PgClubStore) List(ctx context.Context) ([]types.Club, error) {
	rows, err := s.db.Query(ctx, `SELECT `+clubColumns+` FROM clubs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	defer rows.Close()

	clubs := []types.Club{}
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan club row: %w", err)
		}
		clubs = append(clubs, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating club rows: %w", err)
	}
	return clubs, nil
}

// GetByID retrieves a club by its ID.
func (s *PgClubStore) GetByID(ctx context.Context, id string) (*types.Club, error) {
	c, err := scanClub(s.db.QueryRow(ctx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("club with id %s not found: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return c, nil
}

// Create inserts a club. An empty ID is generated.
func (s *PgClubStore) Create(ctx context.Context, club *types.Club) (string, error) {
	if club.ID == "" {
		club.ID = uuid.NewString()
	}
	club.Normalize(now())
	if err := validation.Struct("club", club); err != nil {
		return "", err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO clubs (id, name, description, member_count, category, image_url, instagram, website, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		club.ID, club.Name, club.Description, club.MemberCount, club.Category,
		club.ImageURL, club.Instagram, club.Website, club.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return "", fmt.Errorf("club %s already exists: %w", club.ID, store.ErrConflict)
		}
		return "", fmt.Errorf("failed to create club: %w", err)
	}
	return club.ID, nil
}

// Count returns the number of clubs.
func (s *PgClubStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM clubs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count clubs: %w", err)
	}
	return n, nil
}

// AddMember inserts the membership and bumps member_count in one transaction.
func (s *PgClubStore) AddMember(ctx context.Context, m *types.ClubMember) (int, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.Normalize(now())
	if err := validation.Struct("membership", m); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM club_members WHERE club_id = $1 AND user_id = $2)`,
		m.ClubID, m.UserID).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check membership: %w", err)
	}
	if exists {
		return 0, fmt.Errorf("user %s is already a member of club %s: %w", m.UserID, m.ClubID, store.ErrConflict)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO club_members (id, club_id, user_id, user_name, joined_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ClubID, m.UserID, m.UserName, m.JoinedAt)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return 0, fmt.Errorf("user %s is already a member of club %s: %w", m.UserID, m.ClubID, store.ErrConflict)
		case pgForeignKeyViolation:
			return 0, fmt.Errorf("club with id %s not found: %w", m.ClubID, store.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to insert membership: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx,
		`UPDATE clubs SET member_count = member_count + 1 WHERE id = $1 RETURNING member_count`,
		m.ClubID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("club with id %s not found: %w", m.ClubID, store.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to increment member count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit join: %w", err)
	}
	return count, nil
}

// RemoveMember deletes all memberships of the pair and decrements member_count
// by the number of rows removed, never below zero.
func (s *PgClubStore) RemoveMember(ctx context.Context, clubID, userID string) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM club_members WHERE club_id = $1 AND user_id = $2`, clubID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete membership: %w", err)
	}
	removed := tag.RowsAffected()
	if removed == 0 {
		return 0, fmt.Errorf("user %s is not a member of club %s: %w", userID, clubID, store.ErrNotFound)
	}

	var count int
	err = tx.QueryRow(ctx,
		`UPDATE clubs SET member_count = GREATEST(member_count - $2, 0) WHERE id = $1 RETURNING member_count`,
		clubID, removed).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("club with id %s not found: %w", clubID, store.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to decrement member count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit leave: %w", err)
	}
	return count, nil
}

// ListMembers returns the roster of a club, earliest joiner first.
func (s *PgClubStore) ListMembers(ctx context.Context, clubID string) ([]types.ClubMember, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, club_id, user_id, user_name, joined_at
		FROM club_members
		WHERE club_id = $1
		ORDER BY joined_at`, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list club members: %w", err)
	}
	defer rows.Close()

	members := []types.ClubMember{}
	for rows.Next() {
		var m types.ClubMember
		if err := rows.Scan(&m.ID, &m.ClubID, &m.UserID, &m.UserName, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan club member row: %w", err)
		}
		m.Normalize(now())
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating club member rows: %w", err)
	}
	return members, nil
}

// ListJoinedClubIDs returns the ids of the clubs userID belongs to.
func (s *PgClubStore) ListJoinedClubIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT club_id FROM club_members WHERE user_id = $1 ORDER BY joined_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list joined clubs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan joined club id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating joined club rows: %w", err)
	}
	return ids, nil
}

// RemoveAllMemberships drops userID from every club and decrements the
// affected counters in the same transaction.
func (s *PgClubStore) RemoveAllMemberships(ctx context.Context, userID string) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	rows, err := tx.Query(ctx, `DELETE FROM club_members WHERE user_id = $1 RETURNING club_id`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete memberships: %w", err)
	}
	clubIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan removed membership: %w", err)
		}
		clubIDs = append(clubIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating removed memberships: %w", err)
	}

	if len(clubIDs) > 0 {
		_, err = tx.Exec(ctx,
			`UPDATE clubs SET member_count = GREATEST(member_count - 1, 0) WHERE id = ANY($1)`,
			clubIDs)
		if err != nil {
			return 0, fmt.Errorf("failed to decrement member counts: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit membership removal: %w", err)
	}
	return int64(len(clubIDs)), nil
}

// ReconcileMemberCounts rewrites member_count wherever it disagrees with the roster.
func (s *PgClubStore) ReconcileMemberCounts(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE clubs c
		SET member_count = sub.actual
		FROM (
			SELECT cl.id, COUNT(m.id)::int AS actual
			FROM clubs cl
			LEFT JOIN club_members m ON m.club_id = cl.id
			GROUP BY cl.id
		) sub
		WHERE c.id = sub.id AND c.member_count <> sub.actual`)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile member counts: %w", err)
	}
	return tag.RowsAffected(), nil
}
