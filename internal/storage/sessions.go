package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
)

// Storage persists sessions.
type Storage interface {
	SaveSession(ctx context.Context, s *session.Session) error
	GetSession(ctx context.Context, id string) (*session.Session, error)
	FindSession(ctx context.Context, ref string) (*session.Session, error)
	ListSessions(ctx context.Context) ([]SessionInfo, error)
	DeleteSession(ctx context.Context, id string) error
	Migrate(ctx context.Context) error
	Close() error
}

// SessionInfo is a listing row.
type SessionInfo struct {
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Kind      string    `db:"kind" json:"kind"`
	Mode      string    `db:"mode" json:"mode"`
	Groups    int       `db:"group_count" json:"groups"`
	Entries   int       `db:"entry_count" json:"entries"`
}

type sessionRow struct {
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	PriorScore      sql.NullFloat64 `db:"prior_score"`
	PriorWeight     sql.NullFloat64 `db:"prior_weight"`
	ID              string          `db:"id"`
	Name            string          `db:"name"`
	Kind            string          `db:"kind"`
	Mode            string          `db:"mode"`
	GroupPrefix     string          `db:"group_prefix"`
	EntriesPerGroup int             `db:"entries_per_group"`
	DefaultWeight   float64         `db:"default_weight"`
}

type groupRow struct {
	ID        string `db:"id"`
	SessionID string `db:"session_id"`
	Name      string `db:"name"`
	Position  int    `db:"position"`
}

type entryRow struct {
	ID       string  `db:"id"`
	GroupID  string  `db:"group_id"`
	Label    string  `db:"label"`
	Token    string  `db:"token"`
	Weight   float64 `db:"weight"`
	Score    float64 `db:"score"`
	Position int     `db:"position"`
}

// SaveSession inserts or replaces a session with all of its groups and entries.
func (s *SQLiteStorage) SaveSession(ctx context.Context, sess *session.Session) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(sess); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	row := sessionRow{
		ID:              sess.ID,
		Name:            sess.Name,
		Kind:            sess.Kind,
		Mode:            string(sess.Mode),
		GroupPrefix:     sess.Layout.GroupPrefix,
		EntriesPerGroup: sess.Layout.EntriesPerGroup,
		DefaultWeight:   sess.Layout.DefaultWeight,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if sess.Prior != nil {
		row.PriorScore = sql.NullFloat64{Float64: sess.Prior.Score, Valid: true}
		row.PriorWeight = sql.NullFloat64{Float64: sess.Prior.Weight, Valid: true}
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO sessions (id, name, kind, mode, prior_score, prior_weight,
			group_prefix, entries_per_group, default_weight, created_at, updated_at)
		VALUES (:id, :name, :kind, :mode, :prior_score, :prior_weight,
			:group_prefix, :entries_per_group, :default_weight, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			mode = excluded.mode,
			prior_score = excluded.prior_score,
			prior_weight = excluded.prior_weight,
			group_prefix = excluded.group_prefix,
			entries_per_group = excluded.entries_per_group,
			default_weight = excluded.default_weight,
			updated_at = excluded.updated_at`, row)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM session_groups WHERE session_id = ?`, sess.ID); err != nil {
		return fmt.Errorf("failed to clear groups: %w", err)
	}

	for gi, g := range sess.Groups {
		_, err = tx.NamedExecContext(ctx,
			`INSERT INTO session_groups (id, session_id, name, position) VALUES (:id, :session_id, :name, :position)`,
			groupRow{ID: g.ID, SessionID: sess.ID, Name: g.Name, Position: gi})
		if err != nil {
			return fmt.Errorf("failed to save group %q: %w", g.Name, err)
		}

		for ei, e := range g.Entries {
			_, err = tx.NamedExecContext(ctx, `
				INSERT INTO session_entries (id, group_id, label, token, weight, score, position)
				VALUES (:id, :group_id, :label, :token, :weight, :score, :position)`,
				entryRow{
					ID: e.ID, GroupID: g.ID, Label: e.Label, Token: e.Token,
					Weight: e.Weight, Score: e.Score, Position: ei,
				})
			if err != nil {
				return fmt.Errorf("failed to save entry %q: %w", e.Label, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// GetSession loads a session by ID. Scores are re-derived after loading.
func (s *SQLiteStorage) GetSession(ctx context.Context, id string) (*session.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var row sessionRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, kind, mode, prior_score, prior_weight, group_prefix,
			entries_per_group, default_weight, created_at, updated_at
		FROM sessions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return s.assemble(ctx, row)
}

// FindSession resolves a session by ID, then by name, then by a unique ID prefix.
// Names match case-insensitively; an exact match wins over a case-folded one.
func (s *SQLiteStorage) FindSession(ctx context.Context, ref string) (*session.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ref, "ref"); err != nil {
		return nil, err
	}

	sess, err := s.GetSession(ctx, ref)
	if err == nil || !errors.Is(err, common.ErrNotFound) {
		return sess, err
	}

	var ids []string
	err = s.db.SelectContext(ctx, &ids,
		`SELECT id FROM sessions WHERE name = ? COLLATE NOCASE
		 ORDER BY name = ? DESC, updated_at DESC LIMIT 1`, ref, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if len(ids) == 0 {
		err = s.db.SelectContext(ctx, &ids,
			`SELECT id FROM sessions WHERE id LIKE ? ESCAPE '\' LIMIT 2`, escapeLike(ref)+"%")
		if err != nil {
			return nil, fmt.Errorf("failed to find session: %w", err)
		}
	}
	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("session %q: %w", ref, common.ErrNotFound)
	case 1:
		return s.GetSession(ctx, ids[0])
	default:
		return nil, fmt.Errorf("session prefix %q is ambiguous: %w", ref, common.ErrDuplicateEntry)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *SQLiteStorage) assemble(ctx context.Context, row sessionRow) (*session.Session, error) {
	var groups []groupRow
	err := s.db.SelectContext(ctx, &groups,
		`SELECT id, session_id, name, position FROM session_groups WHERE session_id = ? ORDER BY position`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}

	var entries []entryRow
	err = s.db.SelectContext(ctx, &entries, `
		SELECT e.id, e.group_id, e.label, e.token, e.weight, e.score, e.position
		FROM session_entries e
		JOIN session_groups g ON g.id = e.group_id
		WHERE g.session_id = ?
		ORDER BY g.position, e.position`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	byGroup := make(map[string][]model.Entry, len(groups))
	for _, e := range entries {
		byGroup[e.GroupID] = append(byGroup[e.GroupID], model.Entry{
			ID: e.ID, Label: e.Label, Token: e.Token, Weight: e.Weight, Score: e.Score,
		})
	}

	sess := &session.Session{
		ID:   row.ID,
		Name: row.Name,
		Kind: row.Kind,
		Mode: model.GradingMode(row.Mode),
		Layout: session.Layout{
			GroupPrefix:     row.GroupPrefix,
			EntriesPerGroup: row.EntriesPerGroup,
			DefaultWeight:   row.DefaultWeight,
		},
	}
	if row.PriorWeight.Valid {
		sess.Prior = &model.Prior{Score: row.PriorScore.Float64, Weight: row.PriorWeight.Float64}
	}
	for _, g := range groups {
		sess.Groups = append(sess.Groups, model.Group{ID: g.ID, Name: g.Name, Entries: byGroup[g.ID]})
	}
	sess.Recalculate()
	return sess, nil
}

// ListSessions returns every stored session, most recently updated first.
func (s *SQLiteStorage) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var infos []SessionInfo
	err := s.db.SelectContext(ctx, &infos, `
		SELECT s.id, s.name, s.kind, s.mode, s.updated_at,
			(SELECT COUNT(*) FROM session_groups g WHERE g.session_id = s.id) AS group_count,
			(SELECT COUNT(*) FROM session_entries e
				JOIN session_groups g ON g.id = e.group_id
				WHERE g.session_id = s.id) AS entry_count
		FROM sessions s
		ORDER BY s.updated_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return infos, nil
}

// DeleteSession removes a session and, through cascading keys, its groups and
// entries.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, common.ErrNotFound)
	}
	return nil
}

var _ Storage = (*SQLiteStorage)(nil)

// Stats reports how many rows each table holds.
func (s *SQLiteStorage) Stats(ctx context.Context) (map[string]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	stats := make(map[string]int, 3)
	for _, table := range []string{"sessions", "session_groups", "session_entries"} {
		var n int
		if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = n
	}
	return stats, nil
}
