//go:build integration

package integration

import (
	"context"
	"net/http"
	"strconv"
	"testing"
)

func withHeaders(t *testing.T, method, path string, headers map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, baseURL+path, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func TestRequestID(t *testing.T) {
	t.Run("generated when absent", func(t *testing.T) {
		resp := doNoAuth(t, http.MethodGet, "/livez")
		defer resp.Body.Close()

		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatal("X-Request-ID header not present")
		}
	})

	t.Run("incoming id survives the proxy hop", func(t *testing.T) {
		resp := withHeaders(t, http.MethodGet, "/livez", map[string]string{
			"X-Request-ID": "dashboard-tab-42",
		})
		defer resp.Body.Close()

		if got := resp.Header.Get("X-Request-ID"); got != "dashboard-tab-42" {
			t.Errorf("X-Request-ID: got %q, want dashboard-tab-42", got)
		}
	})

	t.Run("malformed id is replaced", func(t *testing.T) {
		resp := withHeaders(t, http.MethodGet, "/livez", map[string]string{
			"X-Request-ID": "bad\x01id",
		})
		defer resp.Body.Close()

		got := resp.Header.Get("X-Request-ID")
		if got == "" || got == "bad\x01id" {
			t.Errorf("malformed id should be replaced with a fresh one, got %q", got)
		}
	})
}

func TestCORS_PreflightAllowsDashboardVerbs(t *testing.T) {
	// The notes autosave endpoint is the only PATCH route; a dashboard
	// origin must be able to preflight it.
	resp := withHeaders(t, http.MethodOptions, "/api/customers/any/notes", map[string]string{
		"Origin":                        "http://dashboard.example.com",
		"Access-Control-Request-Method": http.MethodPatch,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("Access-Control-Allow-Origin header not present")
	}
	if resp.Header.Get("Access-Control-Allow-Methods") == "" {
		t.Error("Access-Control-Allow-Methods header not present")
	}
}

func TestCORS_SimpleRequestCarriesOrigin(t *testing.T) {
	resp := withHeaders(t, http.MethodGet, "/api/products", map[string]string{
		"Origin":    "http://dashboard.example.com",
		"X-Api-Key": apiKey,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("Access-Control-Allow-Origin header not present")
	}
}

func TestRateLimit_BudgetDecreases(t *testing.T) {
	first := doGet(t, "/api/products")
	first.Body.Close()

	second := doGet(t, "/api/products")
	defer second.Body.Close()

	limit, err := strconv.Atoi(second.Header.Get("X-RateLimit-Limit"))
	if err != nil {
		t.Fatalf("parse X-RateLimit-Limit: %v", err)
	}

	r1, err := strconv.Atoi(first.Header.Get("X-RateLimit-Remaining"))
	if err != nil {
		t.Fatalf("parse X-RateLimit-Remaining: %v", err)
	}
	r2, err := strconv.Atoi(second.Header.Get("X-RateLimit-Remaining"))
	if err != nil {
		t.Fatalf("parse X-RateLimit-Remaining: %v", err)
	}

	if r1 >= limit {
		t.Errorf("remaining %d should be below the limit %d after a request", r1, limit)
	}
	if r2 >= r1 {
		t.Errorf("remaining should decrease across requests: %d then %d", r1, r2)
	}
}
