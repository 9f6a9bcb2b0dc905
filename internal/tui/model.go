package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/photoscout/internal/download"
	"github.com/csheth/photoscout/internal/manifest"
	"github.com/csheth/photoscout/internal/photosearch"
)

// Config wires runtime options into the TUI program.
type Config struct {
	ManifestSource string
	DownloadDir    string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search captions and family names…"
	searchInput.Focus()
	searchInput.CharLimit = 120
	searchInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:        config,
		searchInput:   searchInput,
		spinner:       spin,
		viewport:      vp,
		jobs:          newJobBus(),
		loading:       true,
		hidden:        true,
		cards:         map[int]*cardState{},
		cardLines:     map[int]int{},
		panelLine:     -1,
		recentJobs:    map[jobKind]jobRecord{},
		viewportDirty: true,
		infoMessage:   "Loading the photo manifest…",
	}
	m.newDownloader = func() *download.Downloader {
		return download.New(config.DownloadDir)
	}
	return m
}

// cardState is the per-card download control: disabled with a progress label
// while its job runs, restored when the job's result message arrives. Cards
// never share state, so concurrent downloads stay independent.
type cardState struct {
	Running bool
	Note    string
}

type model struct {
	config Config
	jobs   *jobBus

	searchInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model

	newDownloader func() *download.Downloader

	// manifest working set, immutable once loaded
	loading     bool
	entries     []manifest.Entry
	manifestErr string

	// last-completed search, fully replaced on every submit
	result    photosearch.Result
	searchGen int

	// presentation flags for the results panel
	expanded  bool
	hidden    bool
	noMatches bool
	caption   string

	cursor    int
	cards     map[int]*cardState
	cardLines map[int]int
	panelLine int
	// pendingFocusPanel asks the next refresh to apply the
	// scroll-into-view heuristic for a freshly expanded panel.
	pendingFocusPanel bool

	viewportDirty bool
	lineCount     int

	infoMessage  string
	errorMessage string
	recentJobs   map[jobKind]jobRecord

	width  int
	height int
}

type manifestResultMsg struct {
	entries []manifest.Entry
	err     error
}

type downloadResultMsg struct {
	gen     int
	index   int
	entry   manifest.Entry
	outcome download.Outcome
	err     error
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.jobs.Start(jobKindManifest, loadManifestJob(m.config.ManifestSource)),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading || m.anyDownloadRunning() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.markViewportDirty()
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.viewport.Width = newWidth
		height := msg.Height - chromeHeight
		if height < 5 {
			height = 5
		}
		m.viewport.Height = height
		m.markViewportDirty()
		return m, nil
	case jobSignalMsg:
		m.recentJobs[msg.Record.Kind] = msg.Record
		return m, nil
	case jobResultMsg:
		m.recentJobs[msg.Record.Kind] = msg.Record
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case manifestResultMsg:
		return m.handleManifestResult(msg)
	case downloadResultMsg:
		return m.handleDownloadResult(msg)
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		// Esc quits; it does not collapse the results panel. Once results
		// are shown, only a new search changes the presentation state.
		return m, tea.Quit
	case tea.KeyEnter:
		m.runSearch()
		return m, nil
	case tea.KeyCtrlD:
		return m.startDownload()
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(key)
	return m, cmd
}

// runSearch recomputes the match set from the immutable manifest and fully
// replaces the presentation state. Re-scanning on every submit is deliberate;
// the linear pass is cheap at manifest scale.
func (m *model) runSearch() {
	m.applySearch(photosearch.Search(m.entries, m.searchInput.Value()))
}

// applySearch folds a completed search into the three presentation states.
func (m *model) applySearch(result photosearch.Result) {
	m.result = result
	m.searchGen++
	m.cursor = 0
	m.cards = map[int]*cardState{}
	switch result.State {
	case photosearch.StateResults:
		m.expanded = true
		m.hidden = false
		m.noMatches = false
		m.caption = resultsCaption(result)
		m.pendingFocusPanel = true
	case photosearch.StateNoMatches:
		m.collapsePanel()
		m.noMatches = true
	default:
		m.collapsePanel()
		m.noMatches = false
	}
	m.markViewportDirty()
}

func (m *model) collapsePanel() {
	m.expanded = false
	m.hidden = true
	m.caption = ""
}

func (m *model) handleManifestResult(msg manifestResultMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		// Non-fatal: searches keep working against the empty set.
		m.manifestErr = msg.err.Error()
		m.entries = nil
		m.infoMessage = "Manifest unavailable; searches will find nothing."
		m.markViewportDirty()
		return m, nil
	}
	m.entries = msg.entries
	m.manifestErr = ""
	plural := "s"
	if len(m.entries) == 1 {
		plural = ""
	}
	m.infoMessage = fmt.Sprintf("Loaded %d photo%s. Type a query and press Enter.", len(m.entries), plural)
	m.markViewportDirty()
	return m, nil
}

func (m *model) startDownload() (tea.Model, tea.Cmd) {
	if m.result.State != photosearch.StateResults || len(m.result.Matches) == 0 {
		m.infoMessage = "Search for photos before downloading."
		return m, nil
	}
	idx := m.cursor
	if card := m.cards[idx]; card != nil && card.Running {
		m.infoMessage = "That photo is already downloading."
		return m, nil
	}
	entry := m.result.Matches[idx]
	m.cards[idx] = &cardState{Running: true}
	m.infoMessage = fmt.Sprintf("Downloading %s…", download.Filename(entry))
	m.markViewportDirty()
	return m, tea.Batch(
		m.spinner.Tick,
		m.jobs.Start(jobKindDownload, downloadPhotoJob(m.newDownloader(), entry, m.searchGen, idx)),
	)
}

func (m *model) handleDownloadResult(msg downloadResultMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.searchGen {
		// The card set was replaced by a newer search while the job ran.
		return m, nil
	}
	card := m.cards[msg.index]
	if card == nil {
		return m, nil
	}
	// Restores the control on every exit path; the job bus guarantees this
	// message arrives for success and failure alike.
	card.Running = false
	switch {
	case msg.err != nil:
		// Fetch failures stay in the log only; the label just resets.
		card.Note = ""
		m.infoMessage = ""
	case msg.outcome.OpenedInBrowser:
		card.Note = "opened in browser"
		m.infoMessage = fmt.Sprintf("Opened %s in your browser.", msg.entry.URL)
	default:
		card.Note = "saved " + msg.outcome.Filename
		m.infoMessage = fmt.Sprintf("Saved %s to %s.", msg.outcome.Filename, m.config.DownloadDir)
	}
	m.markViewportDirty()
	return m, nil
}

func (m *model) moveCursor(delta int) {
	if m.result.State != photosearch.StateResults || len(m.result.Matches) == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(m.result.Matches) {
		next = len(m.result.Matches) - 1
	}
	if next == m.cursor {
		return
	}
	m.cursor = next
	m.markViewportDirty()
	m.refreshViewportIfDirty()
	m.scrollCursorIntoView()
}

func (m *model) scrollCursorIntoView() {
	line, ok := m.cardLines[m.cursor]
	if !ok {
		return
	}
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line > m.viewport.YOffset+m.viewport.Height-1:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m *model) anyDownloadRunning() bool {
	for _, card := range m.cards {
		if card.Running {
			return true
		}
	}
	return false
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

// DebugState exposes the last-completed search and the loaded entry count for
// external inspection only; nothing reads it for control flow.
type DebugState struct {
	LastQuery  string
	LastState  photosearch.State
	EntryCount int
}

func (m *model) Debug() DebugState {
	return DebugState{
		LastQuery:  m.result.Query,
		LastState:  m.result.State,
		EntryCount: len(m.entries),
	}
}
