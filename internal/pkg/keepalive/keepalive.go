/*
Package keepalive periodically pings the deployment's own public URL.

Free hosting tiers idle out processes that receive no traffic; a cheap GET
every interval keeps the instance warm. The pinger is entirely independent of
session logic and is a no-op when no URL is configured.
*/
package keepalive

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"codesync/internal/pkg/logx"
)

// DefaultInterval is how often the pinger fires when no interval is configured.
const DefaultInterval = 30 * time.Second

// Pinger issues a periodic GET to a fixed URL.
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   zerolog.Logger
}

// NewPinger constructs a Pinger for the given target URL. A zero interval
// falls back to DefaultInterval.
func NewPinger(url string, interval time.Duration) *Pinger {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Pinger{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logx.Logger().With().Str("component", "keepalive").Logger(),
	}
}

// Run blocks, pinging the target every interval until ctx is cancelled.
// It returns immediately when the Pinger has no URL configured.
func (p *Pinger) Run(ctx context.Context) {
	if p.url == "" {
		p.logger.Debug().Msg("No keepalive URL configured. Pinger disabled.")
		return
	}

	p.logger.Info().Str("url", p.url).Dur("interval", p.interval).Msg("Keepalive pinger started.")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Keepalive pinger stopped.")
			return
		case <-ticker.C:
			p.ping(ctx)
		}
	}
}

// ping issues a single GET and logs the outcome. Failures are logged and
// otherwise ignored; the next tick tries again.
func (p *Pinger) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to build keepalive request.")
		return
	}

	res, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Keepalive ping failed.")
		return
	}
	res.Body.Close()

	p.logger.Debug().Int("status", res.StatusCode).Msg("Keepalive ping completed.")
}
