package cli

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/discovery"
	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/report"
	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/schema"
	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/tui"
	"github.com/agentpm-dev/agentpm/internal/application"
	"github.com/agentpm-dev/agentpm/internal/domain"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// dirWatcher tracks the directories registered with fsnotify. Glob bases are
// roots: every directory below them is watched, including ones created later.
type dirWatcher struct {
	fw      *fsnotify.Watcher
	watched map[string]bool
	roots   []string
}

func (w *dirWatcher) add(dir string) {
	dir = filepath.Clean(dir)
	if w.watched[dir] {
		return
	}
	if err := w.fw.Add(dir); err != nil {
		slog.Warn("cannot watch directory", "dir", dir, "error", err)
		return
	}
	w.watched[dir] = true
	slog.Debug("watching", "dir", dir)
}

// addTree watches dir and its subdirectories down to discovery.MaxDepth.
func (w *dirWatcher) addTree(dir string) {
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || !entry.IsDir() {
			return nil
		}
		if path != dir && entry.Name() == ".git" {
			return filepath.SkipDir
		}
		w.add(path)
		if rel, _ := filepath.Rel(dir, path); rel != "." && strings.Count(filepath.ToSlash(rel), "/")+1 >= discovery.MaxDepth {
			return filepath.SkipDir
		}
		return nil
	})
}

// underRoot reports whether path lies below one of the glob roots.
func (w *dirWatcher) underRoot(path string) bool {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// watchArgs registers the directories lint arguments can produce manifests in.
func (w *dirWatcher) watchArgs(paths []string) {
	if len(paths) == 0 {
		w.add(".")
		return
	}
	for _, p := range paths {
		switch {
		case discovery.IsGlob(p):
			base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
			root := filepath.Clean(filepath.FromSlash(base))
			w.roots = append(w.roots, root)
			w.addTree(root)
		case isDir(p):
			w.add(p)
		default:
			w.add(filepath.Dir(p))
		}
	}
}

// watchLint lints once, then again after every relevant change until ctx is done.
// Failed runs are reported but never end the loop.
func watchLint(ctx context.Context, cmd *cobra.Command, svc *application.LintService, opts domain.LintOptions, f domain.Format, configuredSchema string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	w := &dirWatcher{fw: fw, watched: map[string]bool{}}
	schemaFile := localSchemaFile(opts.Schema, configuredSchema)

	run := func() {
		agg, err := svc.Lint(ctx, opts)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		if err := report.Write(cmd.OutOrStdout(), agg, f); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		fmt.Fprintln(cmd.ErrOrStderr(), tui.RenderSummary(agg))

		for _, fr := range agg.Files {
			w.add(filepath.Dir(fr.File))
		}
	}

	w.watchArgs(opts.Paths)
	if schemaFile != "" {
		w.add(filepath.Dir(schemaFile))
	}
	run()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			newDir := event.Op.Has(fsnotify.Create) && isDir(event.Name) && w.underRoot(event.Name)
			if newDir {
				w.addTree(event.Name)
			} else if !relevantChange(event, schemaFile) {
				continue
			}
			slog.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)
		case <-fire:
			fire = nil
			run()
		}
	}
}

// localSchemaFile returns the schema file to watch, or "" when the schema is remote.
func localSchemaFile(override, configured string) string {
	source, ok := schema.Resolve(schema.DefaultChain(override, configured))
	if !ok || schema.IsRemote(source) {
		return ""
	}
	return filepath.Clean(source)
}

func relevantChange(event fsnotify.Event, schemaFile string) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Clean(event.Name)
	if filepath.Base(name) == domain.ManifestFileName {
		return true
	}
	return schemaFile != "" && name == schemaFile
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
