package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/photoscout/internal/download"
	"github.com/csheth/photoscout/internal/manifest"
	"github.com/csheth/photoscout/internal/photosearch"
)

func loadManifestJob(source string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 60*time.Second)
		defer cancel()
		entries, err := manifest.Load(ctx, source)
		if err != nil {
			return manifestResultMsg{err: err}, err
		}
		return manifestResultMsg{entries: entries}, nil
	}
}

// downloadPhotoJob runs one card's download. No timeout: a download runs to
// completion or failure, and only program exit cancels it.
func downloadPhotoJob(d *download.Downloader, entry manifest.Entry, gen, index int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		outcome, err := d.Download(parent, entry)
		return downloadResultMsg{gen: gen, index: index, entry: entry, outcome: outcome, err: err}, err
	}
}

func resultsCaption(result photosearch.Result) string {
	plural := "s"
	if len(result.Matches) == 1 {
		plural = ""
	}
	// Literal quotes around the raw query; %q would escape any quote
	// characters the user typed.
	return fmt.Sprintf("%d result%s for \"%s\"", len(result.Matches), plural, result.Query)
}
