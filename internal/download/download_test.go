package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/csheth/photoscout/internal/manifest"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		name  string
		entry manifest.Entry
		want  string
	}{
		{"url segment", manifest.Entry{URL: "https://host/path/photo.jpg"}, "photo.jpg"},
		{"query string stripped", manifest.Entry{URL: "https://host/path/photo.jpg?x=1"}, "photo.jpg"},
		{"caption fallback", manifest.Entry{URL: "https://host/", Caption: "Smith Family"}, "Smith_Family.jpg"},
		{"caption keeps extension", manifest.Entry{URL: "https://host/", Caption: "reunion.png"}, "reunion.png"},
		{"generic fallback", manifest.Entry{URL: "https://host/"}, "photo.jpg"},
		{"plain path", manifest.Entry{URL: "album/pic.jpeg"}, "pic.jpeg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Filename(tc.entry); got != tc.want {
				t.Fatalf("Filename = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDownloadFetchesAndSaves(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	d := New(dir)
	d.OpenInBrowser = func(string) error {
		t.Fatal("browser fallback should not run on a successful fetch")
		return nil
	}

	out, err := d.Download(context.Background(), manifest.Entry{URL: server.URL + "/album/photo.jpg"})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !out.Fetched || out.OpenedInBrowser {
		t.Fatalf("unexpected outcome: %#v", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "photo.jpg"))
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("saved bytes = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "photo.jpg.part")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("partial file left behind: %v", err)
	}
}

func TestDownloadFallsBackToBrowserOnFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	var opened string
	d := New(t.TempDir())
	d.OpenInBrowser = func(url string) error {
		opened = url
		return nil
	}

	photoURL := server.URL + "/photo.jpg"
	out, err := d.Download(context.Background(), manifest.Entry{URL: photoURL})
	if err != nil {
		t.Fatalf("degraded download should not error: %v", err)
	}
	if !out.OpenedInBrowser {
		t.Fatalf("expected browser fallback, got %#v", out)
	}
	if opened != photoURL {
		t.Fatalf("opened %q, want %q", opened, photoURL)
	}
}

func TestDownloadReturnsFetchErrorWhenBrowserAlsoFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	d := New(t.TempDir())
	d.OpenInBrowser = func(string) error { return errors.New("no opener") }

	_, err := d.Download(context.Background(), manifest.Entry{URL: server.URL + "/p.jpg"})
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
}

func TestDownloadDirectSaveForLocalPath(t *testing.T) {
	source := filepath.Join(t.TempDir(), "original.jpg")
	if err := os.WriteFile(source, []byte("local-bytes"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	dir := t.TempDir()
	d := New(dir)
	d.OpenInBrowser = func(string) error {
		t.Fatal("browser fallback should not run after a direct save")
		return nil
	}

	out, err := d.Download(context.Background(), manifest.Entry{URL: source})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !out.DirectSaved {
		t.Fatalf("expected direct save, got %#v", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "original.jpg"))
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if string(data) != "local-bytes" {
		t.Fatalf("saved bytes = %q", data)
	}
}

func TestDownloadLocalMissingFileFallsBackToBrowser(t *testing.T) {
	var opened string
	d := New(t.TempDir())
	d.OpenInBrowser = func(url string) error {
		opened = url
		return nil
	}

	out, err := d.Download(context.Background(), manifest.Entry{URL: "does/not/exist.jpg"})
	if err != nil {
		t.Fatalf("degraded download should not error: %v", err)
	}
	if !out.OpenedInBrowser || opened != "does/not/exist.jpg" {
		t.Fatalf("expected browser fallback for unreadable local path: %#v (opened %q)", out, opened)
	}
}

func TestDownloadersAreIndependent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	}))
	defer server.Close()

	dirA, dirB := t.TempDir(), t.TempDir()
	first, second := New(dirA), New(dirB)

	done := make(chan error, 2)
	go func() {
		_, err := first.Download(context.Background(), manifest.Entry{URL: server.URL + "/a.jpg"})
		done <- err
	}()
	go func() {
		_, err := second.Download(context.Background(), manifest.Entry{URL: server.URL + "/b.jpg"})
		done <- err
	}()
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent download: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(dirA, "a.jpg")); err != nil {
		t.Fatalf("first download missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dirB, "b.jpg")); err != nil {
		t.Fatalf("second download missing: %v", err)
	}
}
