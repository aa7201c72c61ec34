// Package state records generation runs in SQLite so that each run can be
// compared with the previous one.
package state

import (
	"context"
	"time"
)

// Run is one recorded generation.
type Run struct {
	ID         string
	StartedAt  time.Time
	BatchDate  string
	Dialect    string
	Strategy   string
	ConfigFile string
	OutputDir  string
	Artifacts  []ArtifactRecord

	// ArtifactCount is set by ListRuns, which does not load Artifacts.
	ArtifactCount int
}

// Hashes returns artifact name to content hash.
func (r *Run) Hashes() map[string]string {
	out := make(map[string]string, len(r.Artifacts))
	for _, a := range r.Artifacts {
		out[a.Name] = a.Hash
	}
	return out
}

// ArtifactRecord is the recorded state of one artifact.
type ArtifactRecord struct {
	Name     string
	Kind     string
	Unit     string
	Position int
	Hash     string
}

// Store persists generation runs.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	RecordRun(ctx context.Context, run *Run) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	LatestRun(ctx context.Context) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
}

var _ Store = (*SQLiteStore)(nil)
