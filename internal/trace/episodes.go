package trace

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run groups the episodes of one learning session.
type Run struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Params    string    `json:"params"` // JSON of the model parameters
	CreatedAt time.Time `json:"created_at"`
}

// Episode records one pattern presentation and its outcome.
type Episode struct {
	Seq           int64     `json:"seq"`
	ID            string    `json:"id"`
	RunID         string    `json:"run_id"`
	Modality      string    `json:"modality"`
	Pattern       string    `json:"pattern"`
	PresentedAt   int       `json:"presented_at"`
	Status        string    `json:"status"`
	RecognisedRef *int      `json:"recognised_ref,omitempty"`
	LearnedRef    *int      `json:"learned_ref,omitempty"`
	CognitionTime int       `json:"cognition_time"`
	CreatedAt     time.Time `json:"created_at"`
}

// StartRun creates a run. params is marshalled to JSON for later inspection.
func (s *Store) StartRun(ctx context.Context, label string, params any) (*Run, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal run params: %w", err)
	}
	run := &Run{
		ID:        "run_" + uuid.New().String(),
		Label:     label,
		Params:    string(paramsJSON),
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, label, params, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Label, run.Params, run.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	return run, nil
}

// Runs lists the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, params, created_at
		FROM runs
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Label, &r.Params, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Record appends an episode to its run, filling in ID and CreatedAt when
// they are unset.
func (s *Store) Record(ctx context.Context, e *Episode) error {
	if e.RunID == "" {
		return fmt.Errorf("record episode: missing run id")
	}
	if e.ID == "" {
		e.ID = "ep_" + uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO learning_episodes (id, run_id, modality, pattern, presented_at, status,
		                               recognised_ref, learned_ref, cognition_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RunID, e.Modality, e.Pattern, e.PresentedAt, e.Status,
		nullableRef(e.RecognisedRef), nullableRef(e.LearnedRef), e.CognitionTime,
		e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record episode: %w", err)
	}
	if seq, err := res.LastInsertId(); err == nil {
		e.Seq = seq
	}
	return nil
}

// Recent returns up to n of the run's latest episodes, newest first.
func (s *Store) Recent(ctx context.Context, runID string, n int) ([]Episode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, run_id, modality, pattern, presented_at, status,
		       recognised_ref, learned_ref, cognition_time, created_at
		FROM learning_episodes
		WHERE run_id = ?
		ORDER BY seq DESC
		LIMIT ?`, runID, n)
	if err != nil {
		return nil, fmt.Errorf("recent episodes: %w", err)
	}
	defer rows.Close()

	return scanEpisodes(rows)
}

// StatusCounts tallies the run's episodes by outcome status.
func (s *Store) StatusCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM learning_episodes
		WHERE run_id = ?
		GROUP BY status`, runID)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanEpisodes(rows *sql.Rows) ([]Episode, error) {
	var episodes []Episode
	for rows.Next() {
		var e Episode
		var recognised, learned sql.NullInt64
		var created string
		err := rows.Scan(&e.Seq, &e.ID, &e.RunID, &e.Modality, &e.Pattern, &e.PresentedAt,
			&e.Status, &recognised, &learned, &e.CognitionTime, &created)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		e.RecognisedRef = refFromNull(recognised)
		e.LearnedRef = refFromNull(learned)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		episodes = append(episodes, e)
	}
	return episodes, rows.Err()
}

func nullableRef(ref *int) sql.NullInt64 {
	if ref == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*ref), Valid: true}
}

func refFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	ref := int(v.Int64)
	return &ref
}
