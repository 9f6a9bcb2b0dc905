// Package download saves a single photo to the local disk with an ordered
// fallback policy: a direct copy when the URL already points at a local file,
// a network fetch saved under the same name, and finally handing the URL to
// the system browser when the fetch fails.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/csheth/photoscout/internal/manifest"
)

const fetchHTTPTimeout = 90 * time.Second

var whitespaceRun = regexp.MustCompile(`\s+`)

// FetchError marks a failed network fetch of a photo. It is recovered inside
// the subsystem by degrading to a browser open and is only ever logged, never
// shown to the user.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Downloader saves photos into Dir. Each results card owns its own instance;
// instances share no state, so concurrent downloads never block each other.
type Downloader struct {
	Dir    string
	Client *http.Client
	// OpenInBrowser is the terminal fallback; tests swap it out.
	OpenInBrowser func(url string) error
}

// New returns a Downloader writing into dir.
func New(dir string) *Downloader {
	return &Downloader{
		Dir:           dir,
		Client:        &http.Client{Timeout: fetchHTTPTimeout},
		OpenInBrowser: openBrowser,
	}
}

// Outcome reports which step of the fallback chain satisfied the download.
type Outcome struct {
	Filename        string
	Path            string
	DirectSaved     bool
	Fetched         bool
	OpenedInBrowser bool
}

// Download runs the best-effort policy for one entry. Every step is an
// attempt, not a verified success: local URLs are copied in place, http(s)
// URLs are fetched, and a failed fetch degrades to opening the URL
// externally.
func (d *Downloader) Download(ctx context.Context, entry manifest.Entry) (Outcome, error) {
	name := Filename(entry)
	out := Outcome{Filename: name}

	if local, ok := localPath(entry.URL); ok {
		if err := d.copyLocal(local, name); err != nil {
			log.Printf("[download] direct save of %s failed: %v", entry.URL, err)
		} else {
			out.DirectSaved = true
			out.Path = filepath.Join(d.Dir, name)
		}
	}

	if !fetchable(entry.URL) {
		if out.DirectSaved {
			return out, nil
		}
		return d.degrade(out, entry.URL, &FetchError{URL: entry.URL, Err: errors.New("not an http(s) url")})
	}

	if err := d.fetchAndSave(ctx, entry.URL, name); err != nil {
		log.Printf("[download] %v", err)
		return d.degrade(out, entry.URL, err)
	}
	out.Fetched = true
	out.Path = filepath.Join(d.Dir, name)
	return out, nil
}

func (d *Downloader) degrade(out Outcome, rawURL string, cause error) (Outcome, error) {
	if err := d.OpenInBrowser(rawURL); err != nil {
		log.Printf("[download] browser fallback for %s failed: %v", rawURL, err)
		return out, cause
	}
	out.OpenedInBrowser = true
	return out, nil
}

func (d *Downloader) fetchAndSave(ctx context.Context, rawURL, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &FetchError{URL: rawURL, Err: err}
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &FetchError{URL: rawURL, Err: fmt.Errorf("%s (%s)", resp.Status, string(body))}
	}
	if err := d.save(resp.Body, name); err != nil {
		return &FetchError{URL: rawURL, Err: err}
	}
	return nil
}

func (d *Downloader) copyLocal(source, name string) error {
	file, err := os.Open(source)
	if err != nil {
		return err
	}
	defer file.Close()
	return d.save(file, name)
}

// save streams into a partial file and renames it into place so a failed
// download never leaves a truncated photo under the final name.
func (d *Downloader) save(body io.Reader, name string) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return err
	}
	final := filepath.Join(d.Dir, name)
	partial := final + ".part"

	file, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(partial)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(partial)
		return err
	}
	return os.Rename(partial, final)
}

// Filename derives the save name for an entry: the URL's last path segment
// stripped of any query string, else the caption with whitespace replaced by
// underscores, else a generic name. The caption and generic fallbacks always
// carry an extension.
func Filename(entry manifest.Entry) string {
	if name := segmentFromURL(entry.URL); name != "" {
		return name
	}
	if caption := strings.TrimSpace(entry.Caption); caption != "" {
		return ensureExtension(whitespaceRun.ReplaceAllString(caption, "_"))
	}
	return ensureExtension("photo")
}

func segmentFromURL(raw string) string {
	candidate := raw
	if parsed, err := url.Parse(raw); err == nil {
		candidate = parsed.Path
	} else if idx := strings.IndexByte(candidate, '?'); idx >= 0 {
		candidate = candidate[:idx]
	}
	segment := path.Base(candidate)
	if segment == "." || segment == "/" || segment == "" {
		return ""
	}
	return segment
}

func ensureExtension(name string) string {
	if path.Ext(name) == "" {
		return name + ".jpg"
	}
	return name
}

func fetchable(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https")
}

// localPath maps file:// URLs and plain filesystem paths onto the direct
// save attempt. Remote URLs return false and skip straight to the fetch.
func localPath(raw string) (string, bool) {
	if strings.HasPrefix(raw, "file://") {
		if parsed, err := url.Parse(raw); err == nil && parsed.Path != "" {
			return parsed.Path, true
		}
		return strings.TrimPrefix(raw, "file://"), true
	}
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme == "" && raw != "" {
		return raw, true
	}
	return "", false
}
