package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"weatherdesk/internal/config"
	"weatherdesk/internal/fetchers"
	"weatherdesk/internal/logger"
	"weatherdesk/internal/presenter"
	"weatherdesk/internal/settings"
	"weatherdesk/internal/state"
	"weatherdesk/internal/weather"
)

func main() {
	// An optional .env next to the binary may seed the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Failed to load .env file", logger.Fields{"reason": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	app, err := newApp(cfg, os.Stdout)
	if err != nil {
		logger.Fatal("Failed to start", err)
	}

	app.start(ctx)
	app.repl(ctx, os.Stdin)

	logger.Info("Stopped")
}

// app is the application session: one state model shared by the weather
// client, which writes it, and the console, which reads it.
type app struct {
	model   *state.Model
	client  *weather.Client
	console *presenter.Console
	cfg     *config.Config
	log     *logger.Logger
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	dir := cfg.ConfigDir
	if dir == "" {
		var err error
		if dir, err = settings.DefaultDir(config.AppName); err != nil {
			return nil, err
		}
	}
	store, err := settings.Open(dir)
	if err != nil {
		return nil, err
	}

	model := state.NewModel()
	fetcher := fetchers.NewOpenWeatherFetcher(fetchers.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.HTTPTimeout,
		RateLimit: rate.Limit(cfg.RateLimitRPS),
		Burst:     cfg.RateLimitBurst,
	})

	return &app{
		model:   model,
		client:  weather.NewClient(fetcher, store, model),
		console: presenter.NewConsole(model, out, cfg.ForecastChartPath),
		cfg:     cfg,
		log:     logger.Component("main"),
	}, nil
}

// start attaches the console, loads settings and fetches the last city
func (a *app) start(ctx context.Context) *weather.Cycle {
	go a.console.Run(ctx, a.model.Subscribe())

	s := a.client.LoadSettings(a.cfg.DefaultCity)
	a.log.Info("Starting weather client", logger.Fields{
		"version":   config.GetVersion(),
		"baseURL":   a.cfg.BaseURL,
		"hasApiKey": s.HasAPIKey(),
		"lastCity":  s.LastCity,
	})
	return a.client.Fetch(s.LastCity)
}

// repl reads commands until ":quit" or ctx is done. Closed input does not
// stop the client; it keeps rendering until a signal arrives.
//
//	:key <value>   save the OpenWeatherMap API key
//	:quit          exit (also "quit" and "exit")
//	<city>         fetch weather for city
//
// Commands carry a colon so that a city such as "Key Largo" is never taken
// for one.
func (a *app) repl(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				a.log.Info("Input closed, running until interrupted")
				lines = nil
				continue
			}
			if !a.handle(line) {
				return
			}
		}
	}
}

const keyCommand = ":key"

// handle runs one command and reports whether to keep reading
func (a *app) handle(line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return true
	case line == ":quit" || line == "quit" || line == "exit":
		return false
	case line == keyCommand || strings.HasPrefix(line, keyCommand+" "):
		if !a.client.SaveAPIKey(strings.TrimPrefix(line, keyCommand)) {
			a.log.Warn("Empty API key ignored")
		}
		return true
	case strings.HasPrefix(line, ":"):
		a.log.Warn("Unknown command", logger.Fields{"command": line})
		return true
	default:
		a.client.Fetch(line)
		return true
	}
}
