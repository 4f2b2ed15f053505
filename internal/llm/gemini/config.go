package gemini

import (
	"log/slog"
	"net/http"
	"time"
)

// Config for the Google Gemini adapter.
type Config struct {
	BaseURL string        // default https://generativelanguage.googleapis.com/v1beta
	Timeout time.Duration // http client timeout
}

type Adapter struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
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
