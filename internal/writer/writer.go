// Package writer writes planned artifacts to an output directory: one SQL
// file per artifact, numbered in execution order, plus a YAML manifest.
package writer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ninjasql/ninjasql/internal/blueprint"
	"github.com/ninjasql/ninjasql/pkg/scd2"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// generatedFile matches files written by a previous run.
var generatedFile = regexp.MustCompile(`^\d{3,}_.+\.sql$`)

// SafeName turns an artifact name into a portable file name stem.
func SafeName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "_")
	s = strings.Trim(s, "._")
	if s == "" {
		return "artifact"
	}
	return s
}

// FileName returns the file name of the artifact at position i (0-based)
// in execution order.
func FileName(i int, artifact string) string {
	return fmt.Sprintf("%03d_%s.sql", i+1, SafeName(artifact))
}

// Hash returns the content hash recorded for a statement.
func Hash(sql string) string {
	sum := sha256.Sum256([]byte(sql))
	return hex.EncodeToString(sum[:])
}

// Writer writes plans to a directory.
type Writer struct {
	dir     string
	workers int
	logger  *slog.Logger
}

// New creates a writer for dir.
func New(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{dir: dir, workers: runtime.GOMAXPROCS(0), logger: logger}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

type fileTask struct {
	path    string
	content []byte
}

// Write replaces the previous output with the plan's artifacts and manifest.
func (w *Writer) Write(ctx context.Context, plan *blueprint.Plan) (*Manifest, error) {
	m, tasks, err := w.build(plan)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if err := w.clean(); err != nil {
		return nil, err
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, task := range tasks {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			if err := os.WriteFile(task.path, task.content, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", task.path, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	data, err := encodeManifest(m)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(w.dir, ManifestFile), data, 0o600); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	w.logger.Debug("wrote artifacts",
		slog.String("dir", w.dir),
		slog.Int("files", len(tasks)))
	return m, nil
}

// Manifest builds the manifest of a plan without writing anything.
func (w *Writer) Manifest(plan *blueprint.Plan) (*Manifest, error) {
	m, _, err := w.build(plan)
	return m, err
}

func (w *Writer) build(plan *blueprint.Plan) (*Manifest, []fileTask, error) {
	ordered, err := plan.Ordered()
	if err != nil {
		return nil, nil, err
	}
	batches, err := plan.Graph.BatchOrder()
	if err != nil {
		return nil, nil, err
	}

	m := &Manifest{
		Version:  ManifestVersion,
		Dialect:  plan.Dialect,
		Strategy: string(plan.Strategy),
		Batch:    make(map[string]string, 4),
		Order:    make([]string, len(ordered)),
		Batches:  batches,
	}
	for _, role := range scd2.DateRoles() {
		m.Batch[string(role)] = plan.Batch.Value(role).Format("2006-01-02")
	}

	tasks := make([]fileTask, len(ordered))
	for i, a := range ordered {
		name := FileName(i, a.Name)
		m.Order[i] = a.Name

		entry := ManifestArtifact{
			Name:      a.Name,
			File:      name,
			Kind:      string(a.Kind),
			Unit:      a.Unit,
			DependsOn: a.DependsOn,
			Hash:      Hash(a.SQL),
		}
		for _, arg := range a.Args {
			entry.Args = append(entry.Args, FormatArg(arg))
		}
		m.Artifacts = append(m.Artifacts, entry)

		tasks[i] = fileTask{
			path:    filepath.Join(w.dir, name),
			content: []byte(a.SQL + ";\n"),
		}
	}
	return m, tasks, nil
}

// clean removes numbered SQL files left by a previous run.
func (w *Writer) clean() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !generatedFile.MatchString(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, e.Name())); err != nil {
			return fmt.Errorf("remove stale %s: %w", e.Name(), err)
		}
	}
	return nil
}
