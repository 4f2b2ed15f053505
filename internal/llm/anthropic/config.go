package anthropic

import (
	"log/slog"
	"net/http"
	"time"
)

// Config for the Anthropic adapter.
type Config struct {
	BaseURL string        // default https://api.anthropic.com
	Version string        // anthropic-version header, default 2023-06-01
	Timeout time.Duration // http client timeout
}

type Adapter struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Version == "" {
		cfg.Version = "2023-06-01"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}
