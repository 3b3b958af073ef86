package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/simonhull/heron/internal/filesystem"
	"github.com/simonhull/heron/internal/generator"
	"github.com/simonhull/heron/internal/logger"
	"github.com/simonhull/heron/internal/output"
	"github.com/spf13/cobra"
)

// WatchCmd creates and returns the 'watch' command
func WatchCmd() *cobra.Command {
	var force, skip bool

	cmd := &cobra.Command{
		Use:   "watch [packages...]",
		Short: "Regenerate index providers when Go files change",
		Long: `Generate once, then watch the package directories and regenerate
after .go files change. Bursts of events are coalesced using
watch.debounce from heron.yml. The generated file itself is ignored.
Files heron did not generate are handled as in 'heron generate'.

Stop with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			resolver, err := conflictResolver(cmd, force, skip)
			if err != nil {
				return err
			}

			var dirs []string
			err = output.Spin(cmd.OutOrStdout(), "Scanning packages", func() error {
				found, err := filesystem.ExpandPatterns(args)
				dirs = found
				return err
			})
			if err != nil {
				return err
			}

			w := &watcher{
				dirs:     dirs,
				output:   cfg.Output,
				debounce: cfg.Watch.Debounce,
				logger:   logger.Default(),
				regenerate: func(ctx context.Context) error {
					return runGenerate(ctx, cfg, args, generator.ExecuteOptions{
						Force:    force,
						Writer:   cmd.OutOrStdout(),
						Resolver: resolver,
					})
				},
			}
			return w.run(cmd.Context())
		},
	}

	addPipelineFlags(cmd)
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite files that were not generated by heron")
	cmd.Flags().BoolVar(&skip, "skip", false, "Keep files that were not generated by heron")
	return cmd
}

type watcher struct {
	dirs       []string
	output     string
	debounce   time.Duration
	logger     logger.Logger
	regenerate func(ctx context.Context) error
}

// run generates once and then on every debounced burst of relevant events
// until ctx is done.
func (w *watcher) run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w.trigger(ctx)
	output.Info(fmt.Sprintf("Watching %d package(s) for changes", len(w.dirs)))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected", logger.F("file", event.Name), logger.F("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logger.F("error", err))

		case <-fire:
			fire = nil
			w.trigger(ctx)
		}
	}
}

func (w *watcher) trigger(ctx context.Context) {
	if err := w.regenerate(ctx); err != nil {
		output.Error(err.Error())
	}
}

// relevant reports whether event touches a non-test Go source file other
// than the generated output.
func (w *watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)
	switch {
	case !strings.HasSuffix(name, ".go"),
		strings.HasSuffix(name, "_test.go"),
		strings.HasPrefix(name, "."),
		name == w.output:
		return false
	}
	return true
}
