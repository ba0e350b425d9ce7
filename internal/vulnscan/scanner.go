package vulnscan

import (
	"context"
	"log/slog"
	"time"

	"toolgate/internal/observability"
)

// Scanner runs NVD lookups and degrades to the canned analysis on failure.
type Scanner struct {
	client *Client
	logger *slog.Logger
}

// NewScanner returns a Scanner using the given NVD client.
func NewScanner(client *Client, logger *slog.Logger) *Scanner {
	return &Scanner{client: client, logger: logger}
}

// Assess fetches CVE data for a tool and scores it. An NVD failure is not an
// error for the caller; the degraded example analysis is returned instead.
func (s *Scanner) Assess(ctx context.Context, toolName string) *Analysis {
	now := time.Now().UTC()

	resp, err := s.client.Search(ctx, toolName)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "NVD lookup failed, returning degraded analysis",
				slog.String("tool", toolName),
				slog.String("error", err.Error()),
			)
		}
		observability.VulnerabilityLookupsTotal.WithLabelValues("fallback").Inc()
		return FallbackAnalysis(toolName, now)
	}

	observability.VulnerabilityLookupsTotal.WithLabelValues("nvd").Inc()
	return Analyze(toolName, resp, now)
}
