package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ninjasql/ninjasql/internal/cli/output"
	"github.com/ninjasql/ninjasql/internal/config"
	"github.com/ninjasql/ninjasql/internal/state"
	"github.com/ninjasql/ninjasql/internal/writer"
	"github.com/ninjasql/ninjasql/pkg/scd2"
)

// watchDebounce coalesces bursts of file events into one regeneration.
const watchDebounce = 300 * time.Millisecond

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var (
		watch   bool
		selects []string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate DDL and SCD2 statements for every source",
		Long: `Infer the columns of every configured source, build the staging and
history blueprints and write one SQL file per artifact plus manifest.yaml
to the output directory.

Each run is recorded in the state database and compared with the previous
one, so changed statements are reported.`,
		Example: `  # Generate everything
  ninjasql generate

  # Only the new_insert statement of one history table and its prerequisites
  ninjasql generate --select scd2_new_insert_PERS_STAGING.PERS_STG_customers

  # Regenerate whenever a source or the config changes
  ninjasql generate --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if watch {
				return runWatch(cmd.Context(), cc, selects)
			}
			res, err := generateOnce(cmd.Context(), cc, selects)
			if err != nil {
				return err
			}
			return renderGenerate(cc.Renderer, res)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate when sources or the config change")
	cmd.Flags().StringSliceVarP(&selects, "select", "s", nil, "Artifacts to generate (with their prerequisites)")
	return cmd
}

// generateResult is the outcome of one generation.
type generateResult struct {
	out      output.GenerateOutput
	previous bool
}

func generateOnce(ctx context.Context, cc *CommandContext, selects []string) (*generateResult, error) {
	_, plan, err := cc.Plan(ctx, selects)
	if err != nil {
		return nil, err
	}

	manifest, err := writer.New(cc.Cfg.OutputDir, cc.Logger).Write(ctx, plan)
	if err != nil {
		return nil, err
	}

	res := &generateResult{out: output.GenerateOutput{
		OutputDir: cc.Cfg.OutputDir,
		Artifacts: len(manifest.Artifacts),
		Batches:   len(manifest.Batches),
	}}

	store, err := cc.OpenStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	current := manifest.Hashes()
	previous := map[string]string{}
	last, err := store.LatestRun(ctx)
	switch {
	case err == nil:
		res.previous = true
		for name, hash := range last.Hashes() {
			// A partial run only compares what it generated.
			if _, ok := current[name]; ok || len(selects) == 0 {
				previous[name] = hash
			}
		}
	case errors.Is(err, state.ErrNoRuns):
	default:
		return nil, err
	}
	diff := state.Compare(previous, current)
	res.out.Diff = &output.DiffOutput{
		Added:     diff.Added,
		Changed:   diff.Changed,
		Removed:   diff.Removed,
		Unchanged: len(diff.Unchanged),
		Affected:  plan.Graph.GetAffectedNodes(append(slices.Clone(diff.Added), diff.Changed...)),
	}

	run := &state.Run{
		BatchDate:  manifest.Batch[string(scd2.RoleBatchDate)],
		Dialect:    manifest.Dialect,
		Strategy:   manifest.Strategy,
		ConfigFile: cc.Cfg.ConfigFileUsed,
		OutputDir:  cc.Cfg.OutputDir,
	}
	for i, a := range manifest.Artifacts {
		run.Artifacts = append(run.Artifacts, state.ArtifactRecord{
			Name:     a.Name,
			Kind:     a.Kind,
			Unit:     a.Unit,
			Position: i,
			Hash:     a.Hash,
		})
	}
	recorded, err := store.RecordRun(ctx, run)
	if err != nil {
		return nil, err
	}
	res.out.RunID = recorded.ID

	cc.Logger.Info("generated artifacts",
		slog.String("run", recorded.ID),
		slog.Int("artifacts", res.out.Artifacts),
		slog.Int("changed", len(diff.Added)+len(diff.Changed)+len(diff.Removed)))
	return res, nil
}

func renderGenerate(r *output.Renderer, res *generateResult) error {
	out := res.out
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Generate"))
		r.Println("")
		r.Println(output.FormatKeyValue("Output", out.OutputDir))
		r.Println(output.FormatKeyValue("Artifacts", out.Artifacts))
		r.Println(output.FormatKeyValue("Batches", out.Batches))
		r.Println(output.FormatKeyValue("Run", out.RunID))
		if res.previous && out.Diff != nil {
			r.Println("")
			r.Println(output.FormatHeader(2, "Changes since previous run"))
			r.Println("")
			r.Println(output.FormatKeyValue("Added", len(out.Diff.Added)))
			r.Println(output.FormatList(out.Diff.Added))
			r.Println(output.FormatKeyValue("Changed", len(out.Diff.Changed)))
			r.Println(output.FormatList(out.Diff.Changed))
			r.Println(output.FormatKeyValue("Removed", len(out.Diff.Removed)))
			r.Println(output.FormatList(out.Diff.Removed))
			r.Println(output.FormatKeyValue("Unchanged", out.Diff.Unchanged))
			r.Println(output.FormatKeyValue("To re-apply", len(out.Diff.Affected)))
			r.Println(output.FormatList(out.Diff.Affected))
		}
	default:
		r.Header(1, "Generate")
		r.Success(fmt.Sprintf("wrote %d artifacts in %d batches to %s", out.Artifacts, out.Batches, out.OutputDir))
		if res.previous && out.Diff != nil {
			for _, name := range out.Diff.Added {
				r.StatusLine(name, "added", "")
			}
			for _, name := range out.Diff.Changed {
				r.StatusLine(name, "changed", "")
			}
			for _, name := range out.Diff.Removed {
				r.StatusLine(name, "removed", "")
			}
			r.Muted(fmt.Sprintf("%d unchanged, %d to re-apply", out.Diff.Unchanged, len(out.Diff.Affected)))
		}
	}
	return nil
}

// runWatch generates once and again after every change to the config file
// or a source file, until ctx is canceled.
func runWatch(ctx context.Context, cc *CommandContext, selects []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	regenerate := func() {
		res, err := generateOnce(ctx, cc, selects)
		if err != nil {
			cc.Renderer.Warning(err.Error())
			return
		}
		_ = renderGenerate(cc.Renderer, res)
	}

	files, err := addWatches(w, cc.Cfg)
	if err != nil {
		return err
	}
	regenerate()
	cc.Logger.Info("watching for changes", slog.Int("files", len(files)))

	trigger := make(chan struct{}, 1)
	var pending interface{ Stop() bool }
	for {
		select {
		case <-ctx.Done():
			if pending != nil {
				pending.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cc.Logger.Debug("file changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if pending != nil {
				pending.Stop()
			}
			pending = cc.Clock.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			cfg, err := cc.Reload()
			if err != nil {
				cc.Renderer.Warning(err.Error())
				continue
			}
			cc.Cfg = cfg
			if files, err = addWatches(w, cfg); err != nil {
				return err
			}
			regenerate()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Warn("watch error", slog.Any("error", err))
		}
	}
}

// addWatches watches the directories holding the config file and the
// sources, and returns the set of files whose events matter. Directories
// are watched so that editors replacing files by rename are seen.
func addWatches(w *fsnotify.Watcher, cfg *config.Config) (map[string]bool, error) {
	files := map[string]bool{}
	if cfg.ConfigFileUsed != "" {
		files[filepath.Clean(cfg.ConfigFileUsed)] = true
	}
	for _, src := range cfg.Sources {
		files[filepath.Clean(src.Path)] = true
	}

	dirs := map[string]bool{}
	for f := range files {
		dirs[filepath.Dir(f)] = true
	}
	sorted := make([]string, 0, len(dirs))
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	watched := map[string]bool{}
	for _, d := range w.WatchList() {
		watched[d] = true
	}
	for _, d := range sorted {
		if watched[d] {
			continue
		}
		if _, err := os.Stat(d); err != nil {
			return nil, fmt.Errorf("cannot watch %s: %w", d, err)
		}
		if err := w.Add(d); err != nil {
			return nil, fmt.Errorf("cannot watch %s: %w", d, err)
		}
	}
	return files, nil
}
