package server

import (
	"net/http"
	"testing"

	"toolgate/internal/models"
)

func TestPolicyCRUD(t *testing.T) {
	s, app, db := setupServerTest(t)
	_, userToken := createAccount(t, s, db, models.RoleUser, "reader@example.com")
	_, adminToken := createAccount(t, s, db, models.RoleAdmin, "author@example.com")

	resp := doRequest(t, app, http.MethodPost, "/api/admin/policies", adminToken, map[string]any{
		"title":       "Acceptable Use",
		"description": "Rules for security tooling",
		"content":     "Tools may only be used against in-scope assets.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	var created models.Policy
	decodeBody(t, resp, &created)

	resp = doRequest(t, app, http.MethodPost, "/api/admin/policies", adminToken, map[string]any{
		"title": "Incomplete",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("incomplete create: expected 400, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	// Users can read but not write.
	resp = doRequest(t, app, http.MethodGet, "/api/policies", userToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	var policies []models.Policy
	decodeBody(t, resp, &policies)
	if len(policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(policies))
	}

	resp = doRequest(t, app, http.MethodGet, "/api/policies/1", userToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/api/admin/policies", userToken, map[string]any{
		"title": "Nope", "description": "x", "content": "y",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user create: expected 403, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodPut, "/api/admin/policies/1", adminToken, map[string]any{
		"content": "Tools may only be used against in-scope assets. Violations are reported.",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	var updated models.Policy
	decodeBody(t, resp, &updated)
	if updated.Title != "Acceptable Use" {
		t.Fatalf("expected title to survive partial update, got %q", updated.Title)
	}

	resp = doRequest(t, app, http.MethodDelete, "/api/admin/policies/1", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/policies/1", userToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}
