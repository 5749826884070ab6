package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/samvad-hq/billi-gallery/internal/config"
	"github.com/samvad-hq/billi-gallery/internal/logger"
	"github.com/samvad-hq/billi-gallery/internal/session"
	"github.com/samvad-hq/billi-gallery/internal/ui"
	"github.com/samvad-hq/billi-gallery/internal/web"
	"github.com/samvad-hq/billi-gallery/pkg/catapi"
	"github.com/samvad-hq/billi-gallery/pkg/publishers"
)

const (
	loadWorkers     = 16
	shutdownTimeout = 10 * time.Second
)

// Gallery is the web runtime: the HTTP front, the per-session pages, the
// shared load pool and the activity publishers.
type Gallery struct {
	cfg      *config.Config
	fanout   *publishers.Fanout
	pool     pond.Pool
	sessions *session.Store[*ui.Page]
	server   *http.Server
	log      logger.Logger
}

// NewGallery builds the runtime from config.
func NewGallery(ctx context.Context, cfg *config.Config, log logger.Logger) (*Gallery, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	api, err := NewCatAPIClient(cfg)
	if err != nil {
		return nil, err
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	pool := pond.NewPool(loadWorkers, pond.WithContext(ctx))
	sessions := session.NewStore[*ui.Page](session.Options{
		IdleTTL:       cfg.SessionTTL,
		SweepInterval: cfg.SessionSweep,
	})
	log.InfoObj("sessions initialized", "session_config", map[string]any{
		"idle_ttl_seconds":       int(cfg.SessionTTL.Seconds()),
		"sweep_interval_seconds": int(cfg.SessionSweep.Seconds()),
	})

	handler := web.NewRouter(web.Options{
		API:            api,
		Events:         fanout,
		Pool:           pool,
		Log:            log,
		Sessions:       sessions,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	return &Gallery{
		cfg:      cfg,
		fanout:   fanout,
		pool:     pool,
		sessions: sessions,
		server: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}, nil
}

// NewCatAPIClient builds the remote client from config.
func NewCatAPIClient(cfg *config.Config) (*catapi.Client, error) {
	client, err := catapi.NewClient(catapi.Config{
		BaseURL:     cfg.CatAPIBaseURL,
		APIKey:      cfg.CatAPIKey,
		RandomLimit: cfg.RandomLimit,
		UploadLimit: cfg.UploadLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("init cat api client: %w", err)
	}
	return client, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		log.InfoObj("activity publishing disabled", "publishers_file", cfg.PublishersFile)
		return publishers.NewFanout(nil), nil
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Handler exposes the HTTP handler.
func (g *Gallery) Handler() http.Handler { return g.server.Handler }

// Run serves HTTP until ctx is cancelled, sweeping idle sessions on the
// configured cadence, then shuts down gracefully.
func (g *Gallery) Run(ctx context.Context) error {
	if g == nil || g.server == nil {
		return fmt.Errorf("gallery is not initialized")
	}
	defer g.close()

	ln, err := net.Listen("tcp", g.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", g.server.Addr, err)
	}
	return g.serve(ctx, ln)
}

func (g *Gallery) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- g.server.Serve(ln)
	}()
	g.log.InfoObj("gallery listening", "gallery_state", map[string]any{
		"addr":             ln.Addr().String(),
		"publishers_count": g.fanout.Size(),
	})

	sweep := g.cfg.SessionSweep
	if sweep <= 0 {
		sweep = session.DefaultSweepInterval
	}
	ticker := time.NewTicker(sweep)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve http: %w", err)
		case <-ticker.C:
			if removed := g.sessions.Sweep(); removed > 0 {
				g.log.DebugObj("idle sessions swept", "session_sweep", map[string]any{
					"removed": removed,
					"live":    g.sessions.Len(),
				})
			}
		case <-ctx.Done():
			g.log.InfoObj("gallery shutting down", "reason", ctx.Err())
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := g.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown http: %w", err)
			}
			return nil
		}
	}
}

// close stops the load pool and releases publisher clients, logging any errors encountered.
func (g *Gallery) close() {
	g.pool.StopAndWait()
	if err := g.fanout.Close(); err != nil {
		g.log.ErrorObj("publishers close failed", "error", err)
	}
}
