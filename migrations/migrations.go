package migrations

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationFiles embed.FS

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite"

	// appliedAtLayout is understood by both Postgres and go-sqlite3.
	appliedAtLayout = "2006-01-02 15:04:05"
)

// Migration is one versioned schema change.
type Migration struct {
	Version int64
	Name    string
	path    string
}

// VersionStatus reports whether a known migration has been applied.
type VersionStatus struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

type templateData struct {
	AppliedAt string
}

// List returns the migrations for a dialect in ascending version order.
func List(dialect string) ([]Migration, error) {
	entries, err := migrationFiles.ReadDir(dialect)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	seen := make(map[int64]string, len(entries))
	out := make([]Migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m, err := parseFilename(e.Name())
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[m.Version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", m.Version, prev, e.Name())
		}
		seen[m.Version] = e.Name()
		m.path = path.Join(dialect, e.Name())
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func parseFilename(name string) (Migration, error) {
	base := strings.TrimSuffix(name, ".sql")
	prefix, rest, _ := strings.Cut(base, "_")
	version, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || version <= 0 {
		return Migration{}, fmt.Errorf("migration %s: filename must start with a numeric version", name)
	}
	return Migration{Version: version, Name: rest}, nil
}

// render executes the migration file as a template. AppliedAt lets dialects
// without expression defaults freeze the run time into the schema.
func (m Migration) render(appliedAt time.Time) (string, error) {
	raw, err := migrationFiles.ReadFile(m.path)
	if err != nil {
		return "", fmt.Errorf("read migration %d: %w", m.Version, err)
	}
	tmpl, err := template.New(m.path).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse migration %d: %w", m.Version, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, templateData{AppliedAt: appliedAt.UTC().Format(appliedAtLayout)}); err != nil {
		return "", fmt.Errorf("render migration %d: %w", m.Version, err)
	}
	return strings.TrimSpace(b.String()), nil
}

func statusFor(known []Migration, applied map[int64]time.Time) []VersionStatus {
	out := make([]VersionStatus, 0, len(known))
	for _, m := range known {
		s := VersionStatus{Version: m.Version, Name: m.Name}
		if at, ok := applied[m.Version]; ok {
			at := at
			s.Applied = true
			s.AppliedAt = &at
		}
		out = append(out, s)
	}
	return out
}
