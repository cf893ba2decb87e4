// Package bootstrap wires configuration, logging, upstream clients, and the
// HTTP server together and runs the service.
package bootstrap

import (
	"flag"
	"fmt"

	"github.com/jonesrussell/review-relay/internal/api"
	"github.com/jonesrussell/review-relay/internal/config"
	"github.com/jonesrussell/review-relay/internal/github"
	"github.com/jonesrussell/review-relay/internal/httpx"
	"github.com/jonesrussell/review-relay/internal/logger"
	"github.com/jonesrussell/review-relay/internal/server"
	"github.com/jonesrussell/review-relay/internal/twitter"
)

const serviceName = "review-relay"

// Version is set at build time via ldflags.
var Version = "dev"

// Start runs the full startup sequence and blocks until shutdown.
func Start() error {
	configPath := flag.String("config", "", "path to optional YAML config overlay")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting service",
		logger.String("service", serviceName),
		logger.String("version", Version),
		logger.Bool("github_configured", cfg.GitHub.Configured()),
		logger.Bool("twitter_configured", cfg.Twitter.Configured()),
	)
	if !cfg.GitHub.Configured() {
		log.Warn("GitHub credentials incomplete, issue endpoints will degrade",
			logger.String("missing", cfg.GitHub.Missing()),
		)
	}
	if !cfg.Twitter.Configured() {
		log.Warn("Twitter credentials absent, posting endpoint will degrade")
	}

	httpClient := httpx.NewDefaultClient()
	githubClient := github.NewClient(cfg.GitHub, httpClient, log)
	twitterClient := twitter.NewClient(cfg.Twitter, httpClient, log)

	handler := api.New(cfg, githubClient, twitterClient, log)

	srv := server.New(&server.Config{
		Port:           cfg.Server.Port,
		Debug:          cfg.Debug,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		ServiceName:    serviceName,
		ServiceVersion: Version,
	}, log, handler.Routes)

	return srv.Run()
}
