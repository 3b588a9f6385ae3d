package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tbourn/go-booster-bot/internal/chat/discord"
	"github.com/tbourn/go-booster-bot/internal/config"
	"github.com/tbourn/go-booster-bot/internal/eventlog"
	httpapi "github.com/tbourn/go-booster-bot/internal/http"
	"github.com/tbourn/go-booster-bot/internal/observability"
	"github.com/tbourn/go-booster-bot/internal/recovery"
	"github.com/tbourn/go-booster-bot/internal/registry"
	"github.com/tbourn/go-booster-bot/internal/repo"
	"github.com/tbourn/go-booster-bot/internal/services"
	"github.com/tbourn/go-booster-bot/internal/sysutil"
)

// deps is what both commands build before doing any work.
type deps struct {
	cfg     config.Config
	logger  zerolog.Logger
	session *discordgo.Session
	client  *discord.Client
	selfID  string
	log     *eventlog.Log
	db      *gorm.DB
}

func (d *deps) close() {
	if d.db == nil {
		return
	}
	if sqlDB, err := d.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// bootstrap loads configuration, opens a REST-only Discord session and the
// configured event-log store. The gateway is not connected yet.
func bootstrap(w io.Writer) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	d := &deps{
		cfg:    cfg,
		logger: sysutil.SetupLogger(w, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName),
	}

	d.session, err = discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	me, err := d.session.User("@me")
	if err != nil {
		return nil, fmt.Errorf("resolve bot user: %w", err)
	}
	d.selfID = me.ID
	d.client = discord.NewClient(d.session, cfg.EventLog.HistoryPageSize)

	var store eventlog.Store
	switch cfg.EventLog.Backend {
	case config.BackendSQLite:
		d.db, err = repo.OpenEventLog(cfg.EventLog.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open event log %s: %w", cfg.EventLog.DBPath, err)
		}
		store = repo.NewLogStore(d.db, d.selfID)
	default:
		store = eventlog.NewChannelStore(d.client, cfg.Discord.LogChannelID, d.selfID)
	}
	d.log = eventlog.New(store, cfg.EventLog.RecoveryWindow)

	d.logger.Info().
		Str("version", version).
		Str("bot_user", me.Username).
		Str("log_backend", cfg.EventLog.Backend).
		Int("recovery_window", d.log.Window()).
		Msg("bootstrap complete")
	return d, nil
}

// runBot replays the log, connects the gateway and serves the status API
// until SIGINT/SIGTERM.
func runBot(parent context.Context) error {
	d, err := bootstrap(os.Stdout)
	if err != nil {
		return err
	}
	defer d.close()
	cfg, logger := d.cfg, d.logger

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version,
		attribute.String("booster.log_backend", cfg.EventLog.Backend))
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
		shutdownOTel = func(context.Context) error { return nil }
	}

	// Registries must be rebuilt before any event is accepted.
	state, stats := recovery.New(d.log, logger).Recover(ctx)

	coord := &services.Coordinator{
		Client:           d.client,
		Log:              d.log,
		State:            state,
		BoosterChannelID: cfg.Discord.BoosterChannelID,
		TicketCategoryID: cfg.Discord.TicketCategoryID,
		SelfID:           d.selfID,
		Logger:           logger,
	}
	gw := &discord.Gateway{Client: d.client, Handler: coord, Logger: logger}
	detach := gw.Attach(ctx, d.session)

	if err := d.session.Open(); err != nil {
		detach()
		return fmt.Errorf("open gateway: %w", err)
	}
	logger.Info().Msg("gateway connected")

	g, gctx := errgroup.WithContext(ctx)

	var srv *http.Server
	if cfg.StatusEnabled {
		status := &services.StatusService{State: state, Recovery: stats, DB: d.db}
		srv = &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           httpapi.NewRouter(status, cfg),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
		}
		g.Go(func() error {
			logger.Info().Str("addr", srv.Addr).Msg("status API listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if srv != nil {
			if err := srv.Shutdown(sctx); err != nil {
				errs = append(errs, fmt.Errorf("status server shutdown: %w", err))
			}
		}
		detach()
		gw.Wait()
		if err := d.session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("gateway close: %w", err))
		}
		if err := shutdownOTel(sctx); err != nil {
			errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// replayReport is printed by the replay command.
type replayReport struct {
	Stats    recovery.Stats     `json:"stats"`
	Snapshot *registry.Snapshot `json:"snapshot,omitempty"`
	Log      *repo.LogStats     `json:"log,omitempty"`
}

// runReplay folds the event log offline and prints the result as JSON.
// Logs go to stderr so stdout stays machine-readable.
func runReplay(ctx context.Context, w io.Writer, statsOnly bool) error {
	d, err := bootstrap(os.Stderr)
	if err != nil {
		return err
	}
	defer d.close()

	state, stats := recovery.New(d.log, d.logger).Recover(ctx)
	if stats.ColdStart {
		return errors.New("event log unreadable; see logs")
	}

	report := replayReport{Stats: stats}
	if !statsOnly {
		snap := state.Snapshot()
		report.Snapshot = &snap
	}
	if d.db != nil {
		if ls, err := repo.EventLogStats(ctx, d.db); err == nil {
			report.Log = &ls
		} else {
			d.logger.Warn().Err(err).Msg("log stats unavailable")
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
