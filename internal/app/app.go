package app

import (
	"context"
	"fmt"
	"net/http"

	"rosechat/internal/sweep"
	"rosechat/pkg/api"
	"rosechat/pkg/banner"
	"rosechat/pkg/chat"
	"rosechat/pkg/config"
	"rosechat/pkg/hub"
	"rosechat/pkg/store"
	"rosechat/pkg/ws"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	room     *chat.Room
	hub      *hub.Hub
	profiles *store.Store
	srv      *http.Server
}

// New wires the stores, room and gateway. It does not start the HTTP
// server or the sweep scheduler; call Run to start those and block until
// shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	if err := validateConfig(eff); err != nil {
		return nil, err
	}
	cfg := eff.Config

	dbPath := eff.DBPath
	if dbPath == "" {
		dbPath = "./.profiles"
	}
	profiles, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store at %s: %w", dbPath, err)
	}

	h := hub.New(cfg.Room.SendBuffer)
	room := chat.NewRoom(h, chat.Options{
		HistoryLimit: cfg.Room.HistoryLimit,
		MessageTTL:   cfg.Room.MessageTTL.Std(),
		RoseInterval: cfg.Room.RoseInterval.Std(),
	})

	a := &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		room:      room,
		hub:       h,
		profiles:  profiles,
	}
	return a, nil
}

// Room exposes the live room, primarily for tests and tooling.
func (a *App) Room() *chat.Room { return a.room }

// Run starts the sweep scheduler and the HTTP server, and blocks until
// ctx is cancelled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	cancelSweep, err := sweep.Start(ctx, a.room, a.eff.Config.Sweep)
	if err != nil {
		_ = a.profiles.Close()
		return err
	}
	defer cancelSweep()

	a.printBanner()

	gw := ws.NewGateway(a.room, a.hub, a.profiles, ws.Options{
		AllowedOrigins: a.eff.Config.Gateway.AllowedOrigins,
		MaxPayload:     int64(a.eff.Config.Gateway.MaxPayload),
		RPS:            a.eff.Config.Gateway.RateLimit.RPS,
		Burst:          a.eff.Config.Gateway.RateLimit.Burst,
	})
	router := api.Router(a.room, a.profiles, gw)

	errCh := a.startHTTP(ctx, router)

	select {
	case <-ctx.Done():
		a.stopHTTP()
		_ = a.profiles.Close()
		return nil
	case err := <-errCh:
		_ = a.profiles.Close()
		return err
	}
}

// printBanner prints the startup banner and build info.
func (a *App) printBanner() {
	verStr := a.version
	if a.commit != "" && a.commit != "none" {
		verStr += " (" + a.commit + ")"
	}
	if a.buildDate != "" && a.buildDate != "unknown" {
		verStr += " @ " + a.buildDate
	}
	banner.PrintWithEff(a.eff, verStr)
}
