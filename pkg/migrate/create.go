package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const sqlTemplate = `-- +goose Up
-- +goose StatementBegin
SELECT 'up SQL query';
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
SELECT 'down SQL query';
-- +goose StatementEnd
`

// CreateSQLMigration writes a timestamped SQL migration skeleton into dir.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	if slug == "" {
		return "", fmt.Errorf("name is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating migrations dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.sql", time.Now().UTC().Format("20060102150405"), slug)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(sqlTemplate), 0o644); err != nil {
		return "", fmt.Errorf("writing migration skeleton: %w", err)
	}
	return path, nil
}
