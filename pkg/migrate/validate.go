package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateDir checks that every SQL file in dir carries goose Up/Down markers.
func ValidateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}

	var problems []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		content := string(raw)
		if !strings.Contains(content, "-- +goose Up") {
			problems = append(problems, entry.Name()+": missing '-- +goose Up'")
		}
		if !strings.Contains(content, "-- +goose Down") {
			problems = append(problems, entry.Name()+": missing '-- +goose Down'")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid migrations:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
