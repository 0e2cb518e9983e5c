package client

import (
	"net/http"
	"strings"
	"time"

	"signalfeed/config"
)

// SignalClient talks to the signal feed HTTP API
type SignalClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new signal feed client. An empty baseURL falls back to
// SIGNALFEED_URL, then to the local default port.
func NewClient(baseURL string) *SignalClient {
	if baseURL == "" {
		baseURL = config.GetEnvOrDefault("SIGNALFEED_URL", "http://localhost:"+config.DefaultPort)
	}
	return &SignalClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}
