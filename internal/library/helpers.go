package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rackscope/internal/rack"
)

const summaryColumns = "id, rack_name, source_path, content_sha256, category, chain_count, device_count, macro_count, warning_count, error_count, created_at"

const analysisColumns = summaryColumns + ", document_json"

// timeLayout keeps a fixed fraction width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type rowScanner interface{ Scan(dest ...any) error }

func scanSummary(scanner rowScanner) (*Analysis, error) {
	a, _, err := scanRow(scanner, false)
	return a, err
}

func scanAnalysis(scanner rowScanner) (*Analysis, error) {
	a, raw, err := scanRow(scanner, true)
	if err != nil {
		return nil, err
	}
	var doc rack.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode stored document %s: %w", a.ID, err)
	}
	a.Document = &doc
	return a, nil
}

func scanRow(scanner rowScanner, withDocument bool) (*Analysis, string, error) {
	var (
		a          Analysis
		sourcePath sql.NullString
		category   string
		createdRaw string
		document   string
	)
	dest := []any{
		&a.ID,
		&a.RackName,
		&sourcePath,
		&a.ContentSHA256,
		&category,
		&a.ChainCount,
		&a.DeviceCount,
		&a.MacroCount,
		&a.WarningCount,
		&a.ErrorCount,
		&createdRaw,
	}
	if withDocument {
		dest = append(dest, &document)
	}
	if err := scanner.Scan(dest...); err != nil {
		return nil, "", err
	}
	a.SourcePath = sourcePath.String
	if err := a.Category.UnmarshalText([]byte(category)); err != nil {
		a.Category = rack.CategoryUnknown
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		a.CreatedAt = created
	}
	return &a, document, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
