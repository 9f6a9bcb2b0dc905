package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/photoscout/internal/manifest"
)

const heroTagline = "Find and save photos from the shared family album."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	chromeHeight              = 12
)

func (m *model) View() string {
	m.refreshViewportIfDirty()
	parts := []string{
		m.heroView(),
		m.searchPanel(),
		m.statusBarView(),
		m.viewport.View(),
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.loading {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		logoStyle.Render("PhotoScout"),
		taglineStyle.Render(heroTagline),
	)
}

func (m *model) searchPanel() string {
	return joinNonEmpty([]string{
		sectionHeaderStyle.Render("Search"),
		m.searchInput.View(),
		helperStyle.Render("Enter: search  •  ↑/↓: select card  •  Ctrl+D: download photo  •  Esc: quit"),
	})
}

func (m *model) statusBarView() string {
	debug := m.Debug()
	stats := []string{
		fmt.Sprintf("Photos %d", debug.EntryCount),
		fmt.Sprintf("State %s", debug.LastState),
	}
	if debug.LastQuery != "" {
		stats = append(stats, fmt.Sprintf("Query %q", debug.LastQuery))
	}
	for _, kind := range []jobKind{jobKindManifest, jobKindDownload} {
		if record, ok := m.recentJobs[kind]; ok {
			stats = append(stats, fmt.Sprintf("%s %s", kind, jobBadge(record.Status)))
		}
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func jobBadge(status jobStatus) string {
	switch status {
	case jobStatusSucceeded:
		return "✓"
	case jobStatusFailed:
		return "✗"
	default:
		return "…"
	}
}

type panelView struct {
	content   string
	panelLine int
	cardLines map[int]int
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	m.viewportDirty = false
	view := m.buildContent()
	m.panelLine = view.panelLine
	m.cardLines = view.cardLines
	m.lineCount = strings.Count(view.content, "\n") + 1
	m.viewport.SetContent(view.content)
	if m.pendingFocusPanel {
		m.pendingFocusPanel = false
		m.scrollPanelIntoView()
	}
	m.viewport.SetYOffset(m.clampYOffset(m.viewport.YOffset))
}

// scrollPanelIntoView aligns a freshly expanded results panel with the top of
// the viewport, but only when it sits off-screen above the current offset or
// below 60% of the visible height. A panel already comfortably in view is
// left undisturbed.
func (m *model) scrollPanelIntoView() {
	if m.panelLine < 0 {
		return
	}
	visible := m.panelLine - m.viewport.YOffset
	threshold := m.viewport.Height * 3 / 5
	if visible < 0 || visible > threshold {
		m.viewport.SetYOffset(m.clampYOffset(m.panelLine))
	}
}

func (m *model) clampYOffset(offset int) int {
	max := m.lineCount - m.viewport.Height
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (m *model) buildContent() panelView {
	cb := &contentBuilder{}
	cardLines := map[int]int{}
	panelLine := -1

	if m.manifestErr != "" {
		cb.WriteString(errorStyle.Render(wordwrap.String("Manifest unavailable: "+m.manifestErr, m.wrapWidth(0))))
		cb.WriteRune('\n')
		cb.WriteRune('\n')
	}

	switch {
	case m.loading:
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s Loading the photo manifest…", m.spinner.View())))
		cb.WriteRune('\n')
	case m.noMatches:
		cb.WriteString(noticeStyle.Render("No photos match that search."))
		cb.WriteRune('\n')
	case m.expanded && !m.hidden:
		panelLine = cb.Line()
		cb.WriteString(captionStyle.Render(m.caption))
		cb.WriteRune('\n')
		cb.WriteRune('\n')
		m.writeCards(cb, cardLines)
	default:
		cb.WriteString(helperStyle.Render("Type a name or caption above and press Enter to search."))
		cb.WriteRune('\n')
	}

	return panelView{content: cb.String(), panelLine: panelLine, cardLines: cardLines}
}

func (m *model) writeCards(cb *contentBuilder, cardLines map[int]int) {
	wrap := m.wrapWidth(6)
	for idx, entry := range m.result.Matches {
		cardLines[idx] = cb.Line()
		cb.WriteString(m.renderCard(idx, entry, wrap))
		cb.WriteRune('\n')
	}
}

func (m *model) renderCard(idx int, entry manifest.Entry, wrap int) string {
	lines := []string{cardTitleStyle.Render(wordwrap.String(entry.Title(), wrap))}
	if name := strings.TrimSpace(entry.FirstName + " " + entry.LastName); name != "" {
		lines = append(lines, helperStyle.Render(name))
	}
	if entry.FamilyID != "" {
		lines = append(lines, helperStyle.Render("Family "+entry.FamilyID))
	}
	lines = append(lines, urlStyle.Render(entry.URL))
	lines = append(lines, m.downloadControl(idx))

	style := cardStyle
	if idx == m.cursor {
		style = cardSelectedStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

// downloadControl renders the card's action button: "Download" when enabled,
// a disabled progress label while its job runs.
func (m *model) downloadControl(idx int) string {
	card := m.cards[idx]
	if card != nil && card.Running {
		return buttonBusyStyle.Render(fmt.Sprintf("%s Downloading…", m.spinner.View()))
	}
	control := buttonStyle.Render("⤓ Download")
	if card != nil && card.Note != "" {
		control += helperStyle.Render("  " + card.Note)
	}
	return control
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

var (
	logoStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	captionStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	noticeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	urlStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Underline(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	cardStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	cardSelectedStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#8ecae6")).Padding(0, 1)
	cardTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	buttonStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	buttonBusyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
)
