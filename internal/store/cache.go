// Package store provides a SQLite-backed store of named what-if scenarios.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wealthpath/wealthpath/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when no scenario matches an ID or name.
var ErrNotFound = errors.New("scenario not found")

// Scenario is a named set of projection inputs.
type Scenario struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Summary   model.CashFlowSummary   `json:"summary"`
	Profile   model.UserProfile       `json:"profile"`
	Lever     model.OptimizationLever `json:"lever"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// Store provides SQLite-backed scenario storage.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the scenario database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the store database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScenario inserts a scenario, or replaces the inputs of the existing
// scenario with the same name. The stored scenario is returned with its ID.
func (s *Store) SaveScenario(sc Scenario) (Scenario, error) {
	if sc.Name == "" {
		return Scenario{}, errors.New("scenario name is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Scenario{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC().Truncate(time.Second)

	var existingID, createdStr string
	err = tx.QueryRow("SELECT scenario_id, created_at FROM scenarios WHERE name = ?", sc.Name).
		Scan(&existingID, &createdStr)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		sc.ID = uuid.NewString()
		sc.CreatedAt = now
	case err != nil:
		return Scenario{}, err
	default:
		sc.ID = existingID
		sc.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	}
	sc.UpdatedAt = now

	_, err = tx.Exec(`INSERT INTO scenarios
		(scenario_id, name, burn_rate, current_savings, goal, reduction_percent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(scenario_id) DO UPDATE SET
			burn_rate = excluded.burn_rate,
			current_savings = excluded.current_savings,
			goal = excluded.goal,
			reduction_percent = excluded.reduction_percent,
			updated_at = excluded.updated_at`,
		sc.ID, sc.Name, sc.Summary.BurnRate, sc.Profile.CurrentSavings, sc.Profile.Goal,
		sc.Lever.ReductionPercent, sc.CreatedAt.Format(time.RFC3339), sc.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Scenario{}, err
	}

	// Delete old category rows for this scenario
	if _, err := tx.Exec("DELETE FROM scenario_categories WHERE scenario_id = ?", sc.ID); err != nil {
		return Scenario{}, err
	}

	for i, c := range sc.Summary.Categories {
		_, err = tx.Exec(`INSERT INTO scenario_categories (scenario_id, position, name, amount)
			VALUES (?, ?, ?, ?)`, sc.ID, i, c.Name, c.Amount)
		if err != nil {
			return Scenario{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// GetScenario looks a scenario up by ID, then by name.
func (s *Store) GetScenario(idOrName string) (Scenario, error) {
	row := s.db.QueryRow(`SELECT
		scenario_id, name, burn_rate, current_savings, goal, reduction_percent, created_at, updated_at
		FROM scenarios WHERE scenario_id = ? OR name = ?
		ORDER BY scenario_id = ? DESC LIMIT 1`, idOrName, idOrName, idOrName)

	sc, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Scenario{}, fmt.Errorf("%q: %w", idOrName, ErrNotFound)
	}
	if err != nil {
		return Scenario{}, err
	}

	cats, err := s.loadCategories(sc.ID)
	if err != nil {
		return Scenario{}, err
	}
	sc.Summary.Categories = cats[sc.ID]
	return sc, nil
}

// ListScenarios returns every stored scenario ordered by name.
func (s *Store) ListScenarios() ([]Scenario, error) {
	rows, err := s.db.Query(`SELECT
		scenario_id, name, burn_rate, current_savings, goal, reduction_percent, created_at, updated_at
		FROM scenarios ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var scenarios []Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Batch-load categories
	cats, err := s.loadCategories("")
	if err != nil {
		return nil, err
	}
	for i := range scenarios {
		scenarios[i].Summary.Categories = cats[scenarios[i].ID]
	}
	return scenarios, nil
}

// DeleteScenario removes a scenario by ID or name.
func (s *Store) DeleteScenario(idOrName string) error {
	res, err := s.db.Exec("DELETE FROM scenarios WHERE scenario_id = ? OR name = ?", idOrName, idOrName)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", idOrName, ErrNotFound)
	}
	return nil
}

// ScenarioCount returns the number of stored scenarios.
func (s *Store) ScenarioCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM scenarios").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(r rowScanner) (Scenario, error) {
	var sc Scenario
	var createdStr, updatedStr string
	err := r.Scan(&sc.ID, &sc.Name, &sc.Summary.BurnRate, &sc.Profile.CurrentSavings, &sc.Profile.Goal,
		&sc.Lever.ReductionPercent, &createdStr, &updatedStr)
	if err != nil {
		return Scenario{}, err
	}
	sc.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	sc.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return sc, nil
}

// loadCategories returns categories keyed by scenario ID in stored order.
// An empty id loads every scenario's categories.
func (s *Store) loadCategories(id string) (map[string][]model.CategorySpend, error) {
	query := "SELECT scenario_id, name, amount FROM scenario_categories"
	var args []any
	if id != "" {
		query += " WHERE scenario_id = ?"
		args = append(args, id)
	}
	query += " ORDER BY scenario_id, position"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]model.CategorySpend)
	for rows.Next() {
		var sid string
		var c model.CategorySpend
		if err := rows.Scan(&sid, &c.Name, &c.Amount); err != nil {
			return nil, err
		}
		out[sid] = append(out[sid], c)
	}
	return out, rows.Err()
}
