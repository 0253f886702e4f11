package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"rackscope/internal/rack"
)

// Save stores a new analysis. An empty ID is replaced with a fresh UUID and a
// zero CreatedAt with the current time; summary counts are recomputed from the
// document.
func (s *Store) Save(ctx context.Context, a *Analysis) error {
	ctx = ensureContext(ctx)
	if a == nil || a.Document == nil {
		return errors.New("save analysis: document is required")
	}
	a.ContentSHA256 = strings.ToLower(strings.TrimSpace(a.ContentSHA256))
	if a.ContentSHA256 == "" {
		return errors.New("save analysis: content hash is required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.refreshSummary()

	payload, err := json.Marshal(a.Document)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	_, err = s.execWithRetry(ctx,
		`INSERT INTO analyses (`+analysisColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.RackName,
		nullableString(a.SourcePath),
		a.ContentSHA256,
		a.Category.String(),
		a.ChainCount,
		a.DeviceCount,
		a.MacroCount,
		a.WarningCount,
		a.ErrorCount,
		a.CreatedAt.UTC().Format(timeLayout),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// Get loads an analysis and its document by ID.
func (s *Store) Get(ctx context.Context, id string) (*Analysis, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id = ?`, strings.TrimSpace(id))
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return a, nil
}

// FindByHash returns the most recent analysis of content with the given
// SHA-256 digest that was stored under rackName. The same bytes under another
// file name are a different rack.
func (s *Store) FindByHash(ctx context.Context, contentSHA256, rackName string) (*Analysis, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE content_sha256 = ? AND rack_name = ? ORDER BY created_at DESC LIMIT 1`,
		strings.ToLower(strings.TrimSpace(contentSHA256)),
		rackName,
	)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find analysis by hash: %w", err)
	}
	return a, nil
}

// List returns analysis summaries, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Analysis, error) {
	ctx = ensureContext(ctx)

	var (
		clauses []string
		args    []any
	)
	if filter.Category.Known() {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category.String())
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		clauses = append(clauses, "rack_name LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(name)+"%")
	}

	query := `SELECT ` + summaryColumns + ` FROM analyses`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []*Analysis
	for rows.Next() {
		a, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an analysis by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM analyses WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Stats aggregates counts across the whole library.
func (s *Store) Stats(ctx context.Context) (Summary, error) {
	ctx = ensureContext(ctx)
	summary := Summary{ByCategory: make(map[rack.Category]int)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(1), COALESCE(SUM(device_count), 0), COALESCE(SUM(CASE WHEN error_count > 0 THEN 1 ELSE 0 END), 0)
		 FROM analyses GROUP BY category`)
	if err != nil {
		return summary, fmt.Errorf("library stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			raw        string
			count      int
			devices    int
			withErrors int
			category   rack.Category
		)
		if err := rows.Scan(&raw, &count, &devices, &withErrors); err != nil {
			return summary, err
		}
		if err := category.UnmarshalText([]byte(raw)); err != nil {
			category = rack.CategoryUnknown
		}
		summary.ByCategory[category] += count
		summary.Total += count
		summary.Devices += devices
		summary.WithErrors += withErrors
	}
	return summary, rows.Err()
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
