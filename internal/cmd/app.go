package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/lightgit/internal/config"
	"github.com/Iron-Ham/lightgit/internal/editor"
	"github.com/Iron-Ham/lightgit/internal/event"
	"github.com/Iron-Ham/lightgit/internal/lifetime"
	"github.com/Iron-Ham/lightgit/internal/logging"
	"github.com/Iron-Ham/lightgit/internal/statusbar"
	"github.com/Iron-Ham/lightgit/internal/tracker"
	"github.com/Iron-Ham/lightgit/internal/vcs"
)

// app wires an editing session to a tracker and a status bar widget.
// Everything it creates is released by Close.
type app struct {
	scope   *lifetime.Scope
	logger  *logging.Logger
	bus     *event.Bus
	session *editor.Session
	tracker *tracker.Tracker
	widget  *statusbar.Widget
}

// appOptions adjusts the widget for a particular command.
type appOptions struct {
	unknownText string
}

func newApp(opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	scope := lifetime.NewScope("lightgit")
	busLog := logger.WithComponent("bus")
	bus := event.NewBus(event.WithLogger(busLog))
	traceID := bus.SubscribeAll(func(e event.Event) {
		busLog.Debug("event published", "event_type", e.EventType())
	})
	scope.OnDispose(func() { bus.Unsubscribe(traceID) })
	session := editor.NewSession(bus)

	locator := vcs.NewGitLocator(vcs.WithLogger(logger.WithComponent("vcs")))
	tr := tracker.New(session, locator, vcs.ExecutableReader(config.ExecutablePath), scope,
		tracker.WithLogger(logger),
		tracker.WithBus(bus),
		tracker.WithClearOnSelect(cfg.Tracker.ClearOnSelect),
		tracker.WithLookupTimeout(cfg.Tracker.LookupTimeout()),
	)

	unknownText := cfg.StatusBar.UnknownText
	if unknownText == "" {
		unknownText = opts.unknownText
	}
	widget := statusbar.New(tr, scope,
		statusbar.WithPrefix(cfg.StatusBar.Prefix),
		statusbar.WithUnknownText(unknownText),
		statusbar.WithMaxWidth(cfg.StatusBar.MaxWidth),
	)

	logger.Info("session started",
		"config_file", viper.ConfigFileUsed(),
		"clear_on_select", cfg.Tracker.ClearOnSelect,
	)

	return &app{
		scope:   scope,
		logger:  logger,
		bus:     bus,
		session: session,
		tracker: tr,
		widget:  widget,
	}, nil
}

// Close disposes the session scope and flushes the log.
func (a *app) Close() {
	a.scope.Dispose()
	a.logger.Info("session ended")
	_ = a.logger.Close()
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	debug := viper.GetBool("debug")
	if !cfg.Logging.Enabled && !debug {
		return logging.NopLogger(), nil
	}

	level := cfg.Logging.Level
	if debug {
		level = logging.LevelDebug
	}

	logger, err := logging.NewLogger(cfg.Logging.ResolveDir(), level)
	if err != nil {
		return nil, fmt.Errorf("failed to start logging: %w", err)
	}
	return logger, nil
}
