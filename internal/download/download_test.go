package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://hypecc.store/Inertia.exe", "Inertia.exe"},
		{"https://example.com/files/setup.msi?x=1", "setup.msi"},
		{"https://example.com/", DefaultFileName},
		{"https://example.com", DefaultFileName},
		{"::bad", DefaultFileName},
		{"https://example.com/..", DefaultFileName},
		{"https://example.com/files/..", DefaultFileName},
		{"https://example.com/..%5Csetup.exe", DefaultFileName},
	}
	for _, tt := range tests {
		if got := FileName(tt.url); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestFetchWritesFile(t *testing.T) {
	payload := strings.Repeat("MZ", 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Inertia.exe" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	var last int64
	c := &Client{HTTP: srv.Client(), Progress: func(written, total int64) { last = written }}
	dir := t.TempDir()

	got, err := c.Fetch(context.Background(), srv.URL+"/Inertia.exe", dir)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != filepath.Join(dir, "Inertia.exe") {
		t.Errorf("Unexpected path %s", got)
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != payload {
		t.Errorf("Downloaded %d bytes, want %d", len(data), len(payload))
	}
	if last != int64(len(payload)) {
		t.Errorf("Progress ended at %d, want %d", last, len(payload))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the final file, found %d entries", len(entries))
	}
}

// TestFetchStaysInDir verifies a dot-dot URL path is saved under the default name
func TestFetchStaysInDir(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("MZ"))
	}))
	defer srv.Close()

	parent := t.TempDir()
	dir := filepath.Join(parent, "downloads")
	c := &Client{HTTP: srv.Client()}

	got, err := c.Fetch(context.Background(), srv.URL+"/..", dir)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != filepath.Join(dir, DefaultFileName) {
		t.Errorf("Saved to %s, want %s", got, filepath.Join(dir, DefaultFileName))
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("Download directory replaced: %v", err)
	}
}

// TestFetchErrorStatus verifies nothing is left behind on HTTP errors
func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := &Client{HTTP: srv.Client()}
	if _, err := c.Fetch(context.Background(), srv.URL+"/Inertia.exe", dir); err == nil {
		t.Fatal("Expected an error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected an empty directory, found %d entries", len(entries))
	}
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Client{HTTP: srv.Client()}
	if _, err := c.Fetch(ctx, srv.URL+"/a.bin", t.TempDir()); err == nil {
		t.Error("Expected cancellation error")
	}
}
