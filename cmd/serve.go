package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/desertthunder/lyrix/internal/server"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/desertthunder/lyrix/internal/web"
	"github.com/urfave/cli/v3"
)

// webClient is the web server's backend client: no cookie jar, and no timeout beyond the browser request's context.
func webClient() *http.Client {
	return &http.Client{}
}

// Serve runs the web front-end until interrupted.
//
// The web server relays each browser's cookie per request, so it gets its own client without the CLI's saved session.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	logger := shared.WithLogger(r.logger, "component", "web")
	api := services.NewAPIService(r.config.API.BaseURL, webClient())

	app, err := web.NewApp(web.AppOpts{API: api, Config: r.config, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to build web app: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ready func()
	if cmd.Bool("open") {
		ready = func() {
			url := "http://" + browsableAddr(addr) + web.HomePath
			if err := shared.OpenBrowser(url); err != nil {
				logger.Warn("failed to open browser", "url", url, "error", err)
			}
		}
	}

	logger.Info("backend", "url", r.config.API.BaseURL)
	return server.Run(ctx, addr, app, logger, ready)
}

// browsableAddr swaps a wildcard listen host for localhost.
func browsableAddr(addr string) string {
	switch {
	case strings.HasPrefix(addr, ":"):
		return "localhost" + addr
	case strings.HasPrefix(addr, "0.0.0.0:"):
		return "localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return addr
}
