package main

import (
	"log/slog"

	"verigate/internal/platform/config"
	"verigate/internal/verification/credentials"
	"verigate/internal/verification/providers"
	"verigate/internal/verification/providers/aicte"
	"verigate/internal/verification/providers/cbse"
	"verigate/internal/verification/providers/icse"
	"verigate/internal/verification/providers/ncte"
	"verigate/internal/verification/providers/stateboard"
	"verigate/internal/verification/resilience"
	"verigate/pkg/attrs"
)

// buildRegistry registers every provider that has credentials configured.
func buildRegistry(cfg config.Providers, store *credentials.Store, exec *resilience.Executor, logger *slog.Logger) *providers.Registry {
	registry := providers.NewRegistry()
	register := func(p providers.Provider) {
		if err := registry.Register(p); err != nil {
			logger.Error("provider registration failed", attrs.ProviderID, p.ID(), attrs.Error, err)
		}
	}

	if cfg.AICTE.Configured() {
		register(aicte.New(aicte.Config{BaseURL: cfg.AICTE.BaseURL, APIKey: cfg.AICTE.APIKey, SecretKey: cfg.AICTE.SecretKey}, store, exec, logger))
	}
	if cfg.NCTE.Configured() {
		register(ncte.New(ncte.Config{BaseURL: cfg.NCTE.BaseURL, APIKey: cfg.NCTE.APIKey, SecretKey: cfg.NCTE.SecretKey}, store, exec, logger))
	}
	if cfg.CBSE.Configured() {
		register(cbse.New(cbse.Config{BaseURL: cfg.CBSE.BaseURL, APIKey: cfg.CBSE.APIKey}, store, exec, logger))
	}
	if cfg.ICSE.Configured() {
		register(icse.New(icse.Config{BaseURL: cfg.ICSE.BaseURL, APIKey: cfg.ICSE.APIKey}, store, exec, logger))
	}
	for _, board := range stateboard.Boards() {
		creds, ok := cfg.Boards[board.Code]
		if !ok || !creds.Configured() {
			continue
		}
		register(stateboard.New(board, stateboard.Config{BaseURL: creds.BaseURL, APIKey: creds.APIKey}, store, exec, logger))
	}

	if registry.Len() == 0 {
		logger.Warn("no provider credentials configured; every verification will report UnsupportedProviderError")
	}
	return registry
}
