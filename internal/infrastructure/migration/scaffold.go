package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Files names the up/down SQL pair produced for a new migration.
type Files struct {
	Version  string
	UpFile   string
	DownFile string
}

// Create writes an empty up/down SQL pair under dir. The version prefix is
// the current timestamp, so lexical order matches creation order.
func Create(dir, name, description string) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations dir: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	base := version + "_" + slugify(name)

	f := &Files{
		Version:  version,
		UpFile:   filepath.Join(dir, base+".up.sql"),
		DownFile: filepath.Join(dir, base+".down.sql"),
	}

	header := func(direction string) []byte {
		var b strings.Builder
		fmt.Fprintf(&b, "-- %s (%s)\n", name, direction)
		fmt.Fprintf(&b, "-- created %s\n", now.Format(time.RFC3339))
		if description != "" {
			fmt.Fprintf(&b, "-- %s\n", description)
		}
		b.WriteString("\n")
		return []byte(b.String())
	}

	if err := os.WriteFile(f.UpFile, header("up"), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", f.UpFile, err)
	}
	if err := os.WriteFile(f.DownFile, header("down"), 0o644); err != nil {
		_ = os.Remove(f.UpFile)
		return nil, fmt.Errorf("write %s: %w", f.DownFile, err)
	}
	return f, nil
}

// List returns the base names of the up migrations under dir, sorted by
// version. A missing directory is treated as having no migrations.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(e.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names, nil
}

// slugify lowercases a migration name and collapses runs of separators into
// single underscores.
func slugify(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pending = true
		}
	}
	return b.String()
}
