package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestCreateWalletCmd(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"w-1","currency":"EUR"}`))
	}))
	defer srv.Close()

	baseURL = srv.URL

	cmd := createWalletCmd()
	cmd.SetArgs([]string{"--user", "user-1", "--currency", "EUR"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if gotPath != "/api/v1/wallets/" {
		t.Fatalf("unexpected request path %q", gotPath)
	}

	if gotBody["user_id"] != "user-1" || gotBody["currency"] != "EUR" {
		t.Fatalf("unexpected request body: %v", gotBody)
	}

	if !strings.Contains(out, `"id": "w-1"`) {
		t.Fatalf("expected wallet in output, got %q", out)
	}
}

func TestDepositCmdErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"conflict","message":"insufficient funds"}`))
	}))
	defer srv.Close()

	baseURL = srv.URL

	cmd := withdrawCmd()
	cmd.SetArgs([]string{"--wallet", "w-1", "--amount", "10"})

	var execErr error
	out := captureOutput(t, func() {
		execErr = cmd.Execute()
	})

	if execErr == nil {
		t.Fatalf("expected error for conflict status")
	}

	if !strings.Contains(out, "insufficient funds") {
		t.Fatalf("expected error body in output, got %q", out)
	}
}

func TestAuditCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/wallets/w-1/audit" {
			t.Errorf("unexpected request path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"wallet_id":"w-1","consistent":true}`))
	}))
	defer srv.Close()

	baseURL = srv.URL

	cmd := auditCmd()
	cmd.SetArgs([]string{"w-1"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(out, `"consistent": true`) {
		t.Fatalf("expected audit result in output, got %q", out)
	}
}
