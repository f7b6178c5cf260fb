package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"os"

	"github.com/desertthunder/lyrix/internal/repositories"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/urfave/cli/v3"
)

// configEnv names the variable that points at an alternate config file.
const configEnv = shared.EnvPrefix + "CONFIG"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	configPath := os.Getenv(configEnv)
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		logger.Fatal("invalid environment", "error", err)
	}
	if err := config.Validate(); err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	var jar http.CookieJar
	var cookies sessionStore
	if db, err := shared.OpenMigrated(config.Database); err == nil {
		defer db.Close()
		pj, err := repositories.NewPersistentJar(repositories.NewCookieRepository(db), logger)
		if err != nil {
			logger.Fatal("failed to load saved session", "error", err)
		}
		jar, cookies = pj, pj
	} else {
		logger.Warn("session database unavailable, sign-in will not persist", "path", config.Database.Path, "error", err)
		jar, _ = cookiejar.New(nil)
	}

	apiService := services.NewAPIService(config.API.BaseURL, &http.Client{Jar: jar})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        apiService,
		Session:    cookies,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "lyrix",
		Usage:    "Search songs, explain their lyrics and keep playlists of them",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
