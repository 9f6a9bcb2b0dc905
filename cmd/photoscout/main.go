package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/photoscout/internal/tui"
)

func main() {
	manifestSource := flag.String("manifest", filepath.Join(".", "photos.json"), "manifest URL or path to the photo manifest JSON file")
	downloadDir := flag.String("download-dir", defaultDownloadDir(), "directory where downloaded photos are saved")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			ManifestSource: *manifestSource,
			DownloadDir:    *downloadDir,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads", "photoscout")
}
