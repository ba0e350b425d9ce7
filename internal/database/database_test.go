package database

import (
	"context"
	"testing"
	"time"

	"toolgate/internal/middleware"
	"toolgate/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestQueryOperation(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"SELECT * FROM users WHERE id = 1", "select"},
		{"INSERT INTO tool_requests (tool_name) VALUES ('nmap')", "insert"},
		{"UPDATE users SET role = 'admin' WHERE id = 2", "update"},
		{"delete from alerts where id = 3", "delete"},
		{"", "unknown"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, queryOperation(tc.sql), "sql: %q", tc.sql)
	}
}

func TestQueryTable(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"SELECT * FROM users WHERE id = 1", "users"},
		{`SELECT count(*) FROM "tool_requests"`, "tool_requests"},
		{"INSERT INTO usage_reports (id) VALUES (1)", "usage_reports"},
		{"UPDATE policies SET title = 'x'", "policies"},
		{"BEGIN", "unknown"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, queryTable(tc.sql), "sql: %q", tc.sql)
	}
}

func TestTraceRecordsLatencyWhenSilent(t *testing.T) {
	gormLogger := &CustomGormLogger{
		logger: middleware.Logger,
		Config: logger.Config{LogLevel: logger.Silent},
	}

	before := testutil.CollectAndCount(observability.DatabaseQueryLatency)
	gormLogger.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM trace_samples WHERE id = 1", 1
	}, nil)
	after := testutil.CollectAndCount(observability.DatabaseQueryLatency)

	assert.Greater(t, after, before, "expected a latency sample even at silent log level")
}
