package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"toolgate/internal/config"
	"toolgate/internal/database"
	"toolgate/internal/models"
	"toolgate/internal/vulnscan"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupVulnTest is setupServerTest with the vulnerability feed pointed
// at a local stub.
func setupVulnTest(t *testing.T, nvdURL string) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:  "handler-test-secret",
		Port:       "8440",
		NVDBaseURL: nvdURL,
	}
	s, err := NewServerWithDeps(cfg, db, nil)
	if err != nil {
		t.Fatalf("NewServerWithDeps: %v", err)
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app, db
}

func TestSearchVulnerabilities(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("keywordSearch") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"resultsPerPage": 1,
			"totalResults": 1,
			"vulnerabilities": [{
				"cve": {
					"id": "CVE-2024-0001",
					"published": "2024-03-01T00:00:00.000",
					"lastModified": "2024-03-05T00:00:00.000",
					"descriptions": [{"lang": "en", "value": "Nmap service detection crash on malformed banner"}],
					"metrics": {"cvssMetricV31": [{"cvssData": {"baseScore": 9.8, "baseSeverity": "CRITICAL"}}]}
				}
			}]
		}`)
	}))
	defer feed.Close()

	s, app, db := setupVulnTest(t, feed.URL)
	_, adminToken := createAccount(t, s, db, models.RoleAdmin, "hunter@example.com")
	_, userToken := createAccount(t, s, db, models.RoleUser, "curious@example.com")

	resp := doRequest(t, app, http.MethodGet, "/api/admin/vulnerabilities/search?tool=nmap", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", resp.StatusCode)
	}
	var analysis vulnscan.Analysis
	decodeBody(t, resp, &analysis)
	if analysis.Degraded {
		t.Fatal("expected a live analysis, got degraded")
	}
	if analysis.Recommendation != vulnscan.RecommendationNotRecommended {
		t.Fatalf("critical CVE should block the tool, got %q", analysis.Recommendation)
	}
	if len(analysis.Relevant) != 1 {
		t.Fatalf("expected 1 relevant CVE, got %d", len(analysis.Relevant))
	}

	resp = doRequest(t, app, http.MethodGet, "/api/admin/vulnerabilities/search", adminToken, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing tool param: expected 400, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/admin/vulnerabilities/search?tool=nmap", userToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestSearchVulnerabilitiesDegradesWhenFeedIsDown(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer feed.Close()

	s, app, db := setupVulnTest(t, feed.URL)
	_, adminToken := createAccount(t, s, db, models.RoleAdmin, "patient@example.com")

	// Upstream failure still answers 200, flagged as degraded.
	resp := doRequest(t, app, http.MethodGet, "/api/admin/vulnerabilities/search?tool=nmap", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var analysis vulnscan.Analysis
	decodeBody(t, resp, &analysis)
	if !analysis.Degraded {
		t.Fatal("expected degraded analysis")
	}
	if analysis.ToolName != "nmap" {
		t.Fatalf("expected tool name preserved, got %q", analysis.ToolName)
	}
}
