package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gouse-dev/gouse/pkg/hooks"
	"github.com/gouse-dev/gouse/pkg/reactive"
	"github.com/gouse-dev/gouse/pkg/schedule"
	"github.com/gouse-dev/gouse/pkg/storage"
	"github.com/gouse-dev/gouse/pkg/stream"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo server",
		Long: `Run a server demonstrating the hooks: a debounced search box,
throttled mouse tracking, window-size reporting and a persisted color
mode, all fed over a websocket event gateway. Prometheus metrics are
exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logLevel)
			return runServe(addr, logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// demoState is what /api/state reports: the live values of every hook
// the demo wires up.
type demoState struct {
	Mouse     stream.MouseEvent  `json:"mouse"`
	Window    stream.ResizeEvent `json:"window"`
	Visible   bool               `json:"visible"`
	ColorMode string             `json:"color_mode"`
	Clipboard string             `json:"clipboard"`
	Searches  int                `json:"searches"`
}

func runServe(addr string, logger *slog.Logger) error {
	// Metrics registry with runtime collectors plus the scheduler
	// counters.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := schedule.NewMetrics(schedule.WithRegistry(reg))

	store := storage.NewNotifier(storage.NewMemoryStore())
	gateway := stream.NewGateway(
		stream.WithLogger(logger),
		stream.WithTracing("gouse"),
		stream.WithCheckOrigin(func(*http.Request) bool { return true }),
	)

	scope := reactive.NewScope(nil)

	var (
		search   *schedule.Debounced[string, int]
		searches atomic.Int64
		mouse    *reactive.Signal[stream.MouseEvent]
		window   *reactive.Signal[stream.ResizeEvent]
		visible  *reactive.Signal[bool]
		mode     *hooks.DarkMode
		clip     *hooks.Clipboard
	)

	reactive.WithScope(scope, func() {
		// Debounced search: bursts of keystrokes collapse into one
		// indexed query.
		search = hooks.UseDebounceFn(300*time.Millisecond, func(q string) int {
			n := int(searches.Add(1))
			logger.Info("search executed", "query", q, "total", n)
			return n
		}, schedule.Instrument(metrics, "search"))

		// Throttled mouse logging: the signal below still sees every
		// event, the log line is rate-limited.
		logMove := hooks.UseThrottleFn(time.Second, func(ev stream.MouseEvent) struct{} {
			logger.Debug("mouse", "x", ev.X, "y", ev.Y)
			return struct{}{}
		}, schedule.Instrument(metrics, "mouse_log"))
		hooks.UseEventStream[stream.MouseEvent](gateway.Mouse, func(ev stream.MouseEvent) {
			logMove.Run(ev)
		})

		mouse = hooks.UseMouse(gateway.Mouse)
		window = hooks.UseWindowSize(gateway.Resize)
		visible = hooks.UseVisibility(gateway.Visibility)
		mode = hooks.UseDarkMode(store)
		clip = hooks.UseClipboard(gateway.Clipboard, gateway.WriteClipboard)

		reactive.NewEffect(func() reactive.Cleanup {
			logger.Info("color mode changed", "mode", mode.Mode())
			return nil
		})
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/", demoPage)
	r.Handle("/ws", gateway)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/api/search", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		search.Run(q)
		writeJSON(w, map[string]any{
			"query":   q,
			"results": searchIndex(q),
		})
	})

	r.Get("/api/state", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, demoState{
			Mouse:     mouse.Peek(),
			Window:    window.Peek(),
			Visible:   visible.Peek(),
			ColorMode: string(mode.Mode()),
			Clipboard: clip.Text.Peek(),
			Searches:  int(searches.Load()),
		})
	})

	r.Post("/api/colormode", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Mode string `json:"mode"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		if err := mode.Set(hooks.ColorModeValue(body.Mode)); err != nil {
			logger.Error("color mode save failed", "error", err)
			http.Error(w, "save failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	gateway.Close()
	scope.Dispose()
	return store.Close()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

var demoEntries = []string{
	"debounce", "throttle", "signal", "effect", "memo", "scope",
	"storage", "fetch", "interval", "timeout", "clipboard", "counter",
}

func searchIndex(q string) []string {
	if q == "" {
		return nil
	}
	q = strings.ToLower(q)
	var out []string
	for _, e := range demoEntries {
		if strings.Contains(e, q) {
			out = append(out, e)
		}
	}
	return out
}
