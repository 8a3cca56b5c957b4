package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func execute(t *testing.T, env map[string]string, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func(k string) string { return env[k] })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, nil, "", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "newsgw-cli dev") {
		t.Errorf("output = %q", out)
	}
}

func TestHashPassword(t *testing.T) {
	for _, tc := range []struct {
		name  string
		stdin string
		args  []string
	}{
		{"argument", "", []string{"hash-password", "s3cret"}},
		{"stdin", "s3cret\n", []string{"hash-password"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, nil, tc.stdin, tc.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			hash := strings.TrimSpace(out)
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
				t.Errorf("hash %q does not match password: %v", hash, err)
			}
		})
	}

	if _, err := execute(t, nil, "", "hash-password"); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestValidate(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
upstream:
  url: https://newsapi.org/v2/top-headlines?apiKey=secret
cache:
  backend: memory
  capacity: 100
  ttl: 5m
`)

	out, err := execute(t, map[string]string{"NEWSAPI_KEY": "k"}, "", "validate", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	for _, want := range []string{"Config is valid", "memory, capacity=100, ttl=5m0s", "newsapi (built-in)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret") {
		t.Errorf("api key leaked in output:\n%s", out)
	}

	// Without the environment the key is missing.
	if _, err := execute(t, map[string]string{"NEWSAPI_KEY": "k"}, "", "validate", "--no-env", path); err == nil {
		t.Error("expected validation error with --no-env")
	}
}

func TestValidate_Errors(t *testing.T) {
	if _, err := execute(t, nil, "", "validate"); err == nil {
		t.Error("expected error without argument")
	}
	bad := writeTempFile(t, "config.json", `{"cache": {"backend": "disk"}}`)
	if _, err := execute(t, nil, "", "validate", bad); err == nil {
		t.Error("expected schema error")
	}
}

func TestProbe(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":2,"articles":[{"title":"First"},{"title":"Second"}]}`))
	}))
	defer srv.Close()

	env := map[string]string{"NEWSAPI_URL": srv.URL, "NEWSAPI_KEY": "k"}
	out, err := execute(t, env, "", "probe", "--count", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "2 article(s)") || !strings.Contains(out, "2. Second") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(gotQuery, "pageSize=2") || !strings.Contains(gotQuery, "country=us") {
		t.Errorf("upstream query = %q", gotQuery)
	}
}

func TestProbe_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	}))
	defer srv.Close()

	env := map[string]string{"NEWSAPI_URL": srv.URL, "NEWSAPI_KEY": "bad"}
	if _, err := execute(t, env, "", "probe"); err == nil {
		t.Error("expected error for rejected key")
	}
	if _, err := execute(t, map[string]string{"NEWSAPI_URL": srv.URL}, "", "probe"); err == nil {
		t.Error("expected error without api key")
	}
	if _, err := execute(t, env, "", "probe", "--count", "0"); err == nil {
		t.Error("expected error for zero count")
	}
}
