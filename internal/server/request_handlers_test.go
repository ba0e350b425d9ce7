package server

import (
	"net/http"
	"testing"

	"toolgate/internal/models"
)

func TestRequestLifecycle(t *testing.T) {
	s, app, db := setupServerTest(t)
	user, userToken := createAccount(t, s, db, models.RoleUser, "requester@example.com")
	_, adminToken := createAccount(t, s, db, models.RoleAdmin, "approver@example.com")

	resp := doRequest(t, app, http.MethodPost, "/api/requests", userToken, map[string]any{
		"tool_name":     "nmap",
		"purpose":       "External perimeter scan for Q3 audit",
		"environment":   "virtual",
		"duration":      "1-week",
		"justification": "Audit scope requires port enumeration",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create request: expected 201, got %d", resp.StatusCode)
	}
	var created models.ToolRequest
	decodeBody(t, resp, &created)
	if created.Status != models.RequestStatusPending {
		t.Fatalf("expected pending, got %q", created.Status)
	}
	if created.UserID != user.ID || created.UserEmail != user.Email {
		t.Fatal("requester identity should come from the token, not the body")
	}

	resp = doRequest(t, app, http.MethodGet, "/api/requests/me", userToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list my requests: expected 200, got %d", resp.StatusCode)
	}
	var mine []models.ToolRequest
	decodeBody(t, resp, &mine)
	if len(mine) != 1 {
		t.Fatalf("expected 1 request, got %d", len(mine))
	}

	// Admin listing with a status filter.
	resp = doRequest(t, app, http.MethodGet, "/api/admin/requests?status=pending", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d", resp.StatusCode)
	}
	var pending []models.ToolRequest
	decodeBody(t, resp, &pending)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(pending))
	}

	// Rejection without a meaningful comment is refused.
	resp = doRequest(t, app, http.MethodPost, "/api/admin/requests/1/decision", adminToken, map[string]any{
		"response":      "rejected",
		"admin_comment": "  ",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty rejection comment: expected 400, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	// Approval without an environment is refused.
	resp = doRequest(t, app, http.MethodPost, "/api/admin/requests/1/decision", adminToken, map[string]any{
		"response": "approved",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("approve without environment: expected 400, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/api/admin/requests/1/decision", adminToken, map[string]any{
		"response":              "approved",
		"approved_environment":  "virtual",
		"security_instructions": "Run only inside the lab VLAN",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d", resp.StatusCode)
	}
	var approved models.ToolRequest
	decodeBody(t, resp, &approved)
	if approved.Status != models.RequestStatusApproved {
		t.Fatalf("expected approved, got %q", approved.Status)
	}
	if approved.ApprovedAt == nil {
		t.Fatal("expected approved_at to be stamped")
	}
	if approved.ReportSubmitted == nil || *approved.ReportSubmitted {
		t.Fatal("approval should arm the report-submitted flag as false")
	}

	// A decision is final.
	resp = doRequest(t, app, http.MethodPost, "/api/admin/requests/1/decision", adminToken, map[string]any{
		"response":      "rejected",
		"admin_comment": "changed my mind",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("re-decide: expected 400, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestCreateRequestValidation(t *testing.T) {
	s, app, db := setupServerTest(t)
	_, token := createAccount(t, s, db, models.RoleUser, "sloppy@example.com")

	resp := doRequest(t, app, http.MethodPost, "/api/requests", token, map[string]any{
		"tool_name":     "wireshark",
		"purpose":       "Packet capture",
		"environment":   "virtual",
		"duration":      "whenever",
		"justification": "Troubleshooting",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad duration: expected 400, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestDecideRequestRejectsNonAdmin(t *testing.T) {
	s, app, db := setupServerTest(t)
	_, token := createAccount(t, s, db, models.RoleUser, "peon@example.com")

	resp := doRequest(t, app, http.MethodPost, "/api/admin/requests/1/decision", token, map[string]any{
		"response": "approved",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}
