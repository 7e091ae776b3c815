package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/recruitsense/li-sourcer/internal/sourcing"
)

// Record is one persisted candidate row. Rows are append-only: a record is
// created once per run and never updated or deleted by the tool.
type Record struct {
	ID        int64              `json:"id"`
	JobID     string             `json:"job_id"`
	Name      string             `json:"name"`
	URL       string             `json:"url"`
	Headline  string             `json:"headline"`
	Snippet   string             `json:"snippet"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
	Outreach  string             `json:"outreach,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// No unique index on url: two runs with identical input must produce
	// two independent record sets.
	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS candidates (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  job_id TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL,
  headline TEXT NOT NULL DEFAULT '',
  snippet TEXT NOT NULL DEFAULT '',
  score REAL NOT NULL DEFAULT 0,
  breakdown TEXT NOT NULL DEFAULT '{}',
  outreach_message TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_candidates_job_id
ON candidates(job_id);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// InsertCandidates appends one row per candidate for the given job ID and
// returns the number of inserted rows.
func InsertCandidates(ctx context.Context, db *sql.DB, jobID string, candidates *sourcing.Candidates) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO candidates (job_id, name, url, headline, snippet, score, breakdown, outreach_message, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	now := time.Now().UTC().Format(time.RFC3339)

	for _, candidate := range candidates.Items {
		breakdown := "{}"
		score := 0.0
		outreach := ""
		if candidate.AI != nil {
			score = candidate.AI.Score
			outreach = candidate.AI.Message
			if data, err := json.Marshal(candidate.AI.Breakdown); err == nil && candidate.AI.Breakdown != nil {
				breakdown = string(data)
			}
		}

		if _, err := stmt.ExecContext(ctx,
			jobID,
			candidate.Name,
			candidate.URL,
			candidate.Headline,
			candidate.Snippet,
			score,
			breakdown,
			outreach,
			now,
		); err != nil {
			return inserted, err
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return inserted, nil
}

// ListByJob returns the stored records for one run, highest score first.
func ListByJob(ctx context.Context, db *sql.DB, jobID string) ([]Record, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, job_id, name, url, headline, snippet, score, breakdown, outreach_message, created_at
FROM candidates
WHERE job_id = ?
ORDER BY score DESC, id ASC;
`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var breakdownJSON string
		var createdAt string
		if err := rows.Scan(
			&r.ID,
			&r.JobID,
			&r.Name,
			&r.URL,
			&r.Headline,
			&r.Snippet,
			&r.Score,
			&breakdownJSON,
			&r.Outreach,
			&createdAt,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(breakdownJSON), &r.Breakdown)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
