package app

import (
	"context"
	"net/http"
	"time"

	"rosechat/pkg/logger"
)

// startHTTP starts the HTTP (or HTTPS) listener and returns a channel
// that yields a fatal serve error.
func (a *App) startHTTP(ctx context.Context, handler http.Handler) <-chan error {
	addr := a.eff.Addr
	if addr == "" {
		addr = ":8080"
	}
	a.srv = &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		cert := a.eff.Config.Server.TLS.CertFile
		key := a.eff.Config.Server.TLS.KeyFile
		var err error
		if cert != "" && key != "" {
			logger.Info("http_listening", "addr", addr, "tls", true)
			err = a.srv.ListenAndServeTLS(cert, key)
		} else {
			logger.Info("http_listening", "addr", addr, "tls", false)
			err = a.srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// stopHTTP drains in-flight requests with a short grace period.
func (a *App) stopHTTP() {
	if a.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(ctx); err != nil {
		logger.Warn("http_shutdown_error", "error", err)
	}
}
