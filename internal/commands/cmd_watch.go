package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hay-kot/adcraft/internal/core"
	"github.com/hay-kot/adcraft/internal/watcher"
	"github.com/hay-kot/adcraft/pkgs/cll"
	"github.com/hay-kot/adcraft/pkgs/printer"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type WatchCmd struct {
	coreFlags *core.Flags
	flags     struct {
		Debounce time.Duration
		Initial  bool
	}

	// started is called once the watcher is subscribed, used by tests.
	started func(w *watcher.Watcher)
}

func NewWatchCmd(coreFlags *core.Flags) *WatchCmd {
	return &WatchCmd{
		coreFlags: coreFlags,
		started:   func(*watcher.Watcher) {},
	}
}

func (wc *WatchCmd) Register(app *cli.Command) *cli.Command {
	cmd := &cli.Command{
		Name:  "watch",
		Usage: "Watch a directory for changes and build banners",
		Description: `Watches src/ and rebuilds every banner variant when a file changes.
Paths with a dot-prefixed segment are ignored.

Changes are collected until no new change arrives for the debounce
interval. Builds never overlap: changes made while a build runs start
one more build after it finishes. banner-project.json is re-read before
every build.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:        "debounce",
				Usage:       "quiet period to wait for before rebuilding",
				Value:       watcher.DefaultDebounce,
				Destination: &wc.flags.Debounce,
			},
			&cli.BoolFlag{
				Name:        "initial",
				Usage:       "build once before waiting for changes",
				Destination: &wc.flags.Initial,
			},
		},
		Action: wc.watch,
	}

	return cll.Mount(app, cmd)
}

func (wc *WatchCmd) watch(ctx context.Context, c *cli.Command) error {
	// Config errors abort before anything is subscribed.
	cfg, err := core.SetupEnv(wc.coreFlags)
	if err != nil {
		return err
	}

	if err := printer.StreamOutput(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if wc.flags.Initial {
		wc.rebuild(ctx, nil)
	}

	debounce := wc.flags.Debounce
	if debounce <= 0 {
		debounce = watcher.DefaultDebounce
	}

	w := watcher.New(cfg.Layout().Source, wc.rebuild, watcher.WithDebounce(debounce))

	go func() {
		select {
		case <-w.Ready():
			printer.Ctx(ctx).Text(MessageWatching)
			wc.started(w)
		case <-ctx.Done():
		}
	}()

	return w.Run(ctx)
}

// rebuild reloads the config and builds every variant. Failures are logged so
// the watcher keeps running.
func (wc *WatchCmd) rebuild(ctx context.Context, changed []string) {
	for _, path := range changed {
		log.Info().Str("path", path).Msg("file changed")
	}

	cfg, err := core.SetupEnv(wc.coreFlags)
	if err != nil {
		log.Error().Err(err).Msg("failed to load config, skipping build")
		return
	}

	report, err := newBuilder(cfg, wc.coreFlags, os.Stderr).Build(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("build interrupted")
		return
	}

	printReport(ctx, report)
}
