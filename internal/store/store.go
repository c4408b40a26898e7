// Package store provides a SQLite-backed history of computed tax plans.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/finplan/regime-calculator/pkg/dateutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout sorts lexically, unlike RFC3339Nano which trims trailing zeros.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when a user has no stored plan.
var ErrNotFound = errors.New("plan snapshot not found")

// Snapshot is one stored plan result.
type Snapshot struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	FinancialYear string             `json:"financial_year"`
	CheaperRegime domain.Regime      `json:"cheaper_regime"`
	TotalTax      decimal.Decimal    `json:"total_tax"`
	Summary       domain.PlanSummary `json:"summary"`
	CreatedAt     time.Time          `json:"created_at"`
}

// PlanStore keeps every saved plan per user; the newest one is the user's current plan.
type PlanStore struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// Open opens or creates the plan database at the given path.
func Open(dbPath string) (*PlanStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &PlanStore{db: db, now: time.Now, newID: uuid.NewString}, nil
}

// Close closes the plan database.
func (s *PlanStore) Close() error {
	return s.db.Close()
}

// Save stores summary as the user's latest plan. financialYear accepts any
// form dateutil.ParseFinancialYear does; empty means the current year.
func (s *PlanStore) Save(ctx context.Context, userID, financialYear string, summary domain.PlanSummary) (Snapshot, error) {
	if userID == "" {
		return Snapshot{}, fmt.Errorf("user id is required")
	}

	now := s.now().UTC()
	label := dateutil.FinancialYearLabel(now)
	if financialYear != "" {
		start, err := dateutil.ParseFinancialYear(financialYear)
		if err != nil {
			return Snapshot{}, err
		}
		label = "FY " + dateutil.FormatFinancialYear(start)
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encoding plan: %w", err)
	}

	snap := Snapshot{
		ID:            s.newID(),
		UserID:        userID,
		FinancialYear: label,
		CheaperRegime: summary.Comparison.Cheaper,
		TotalTax:      summary.Comparison.Best().TotalTax,
		Summary:       summary,
		CreatedAt:     now,
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO plan_snapshots
		(id, user_id, financial_year, plan_name, cheaper_regime, total_tax, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.UserID, snap.FinancialYear, summary.Name, string(snap.CheaperRegime),
		snap.TotalTax.String(), string(payload), now.Format(timeLayout),
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("saving plan: %w", err)
	}
	return snap, nil
}

// Latest returns the most recently saved plan of the user.
func (s *PlanStore) Latest(ctx context.Context, userID string) (Snapshot, error) {
	snaps, err := s.History(ctx, userID, 1)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snaps) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return snaps[0], nil
}

// History returns up to limit plans of the user, newest first. A limit of
// zero or less returns every plan.
func (s *PlanStore) History(ctx context.Context, userID string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, user_id, financial_year, cheaper_regime, total_tax, payload, created_at
		FROM plan_snapshots
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var regime, totalTax, payload, createdAt string
		if err := rows.Scan(&snap.ID, &snap.UserID, &snap.FinancialYear, &regime, &totalTax, &payload, &createdAt); err != nil {
			return nil, err
		}
		snap.CheaperRegime = domain.Regime(regime)
		if snap.TotalTax, err = decimal.NewFromString(totalTax); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
		}
		if err := json.Unmarshal([]byte(payload), &snap.Summary); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
		}
		if snap.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("snapshot %s: invalid created_at: %w", snap.ID, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Delete removes every stored plan of the user.
func (s *PlanStore) Delete(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM plan_snapshots WHERE user_id = ?", userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
