// Package download fetches the installer advertised by the about window.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultFileName is used when the URL path has no usable file name.
const DefaultFileName = "Inertia.exe"

// StartDelay is how long the about window waits after showing the
// "download starting" notice before fetching.
const StartDelay = 500 * time.Millisecond

// Progress reports bytes written so far and the expected total, which is
// -1 when the server sent no length.
type Progress func(written, total int64)

// Client downloads files over HTTP.
type Client struct {
	HTTP     *http.Client
	Progress Progress
}

// FileName returns the name rawURL should be saved under.
func FileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DefaultFileName
	}
	name := path.Base(u.Path)
	switch {
	case name == "", name == ".", name == "..", name == "/":
		return DefaultFileName
	case strings.ContainsAny(name, `/\`):
		// a backslash would be a separator on Windows
		return DefaultFileName
	}
	return name
}

// Fetch saves rawURL into dir and returns the written file's path. The file
// only appears under its final name once it is complete.
func (c *Client) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("requesting %s: unexpected status %s", rawURL, resp.Status)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	var body io.Reader = resp.Body
	if c.Progress != nil {
		body = &progressReader{r: resp.Body, total: resp.ContentLength, fn: c.Progress}
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	dest := filepath.Join(dir, FileName(rawURL))
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("saving %s: %w", dest, err)
	}
	return dest, nil
}

// DefaultDir returns the user's downloads directory, or the home directory
// when it does not exist.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, "Downloads")
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return dir, nil
	}
	return home, nil
}

type progressReader struct {
	r       io.Reader
	written int64
	total   int64
	fn      Progress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.written += int64(n)
		p.fn(p.written, p.total)
	}
	return n, err
}
