// Package tui is an interactive chunk explorer: it re-runs the engine on
// every parameter change so the effect of strategy, size and overlap on a
// real document is visible immediately.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mosaic "github.com/nevindra/mosaic"
)

const (
	sizeStep    = 64
	overlapStep = 8
	minSize     = 16
)

// Model is the Bubble Tea model for the explorer.
type Model struct {
	title    string
	text     string
	params   mosaic.Params
	chunks   []mosaic.Chunk
	metrics  mosaic.Metrics
	viewport viewport.Model
	cursor   int
	ready    bool
	status   string
}

// New creates an explorer over already-extracted document text.
func New(title, text string, params mosaic.Params) Model {
	m := Model{
		title:    title,
		text:     text,
		params:   params,
		viewport: viewport.New(0, 0),
		status:   "s: strategy  +/-: size  [/]: overlap  left/right: chunk  up/down: scroll  q: quit",
	}
	m.rechunk()
	return m
}

// rechunk re-runs the engine with the current parameters and resets the
// cursor if it fell off the end.
func (m *Model) rechunk() {
	m.chunks, m.metrics = mosaic.ChunkWithMetrics(m.text, m.params)
	if m.cursor >= len(m.chunks) {
		m.cursor = 0
	}
	m.viewport.SetContent(m.renderCurrentChunk())
	m.viewport.GotoTop()
}

// Init initializes the model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for the frame around the chunk box
		_, fh := chunkBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // title + params
		totalFooterLines := 2 // metrics + status
		reserved := totalHeaderLines + totalFooterLines + 1 // 1 spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-fh)
		m.viewport.SetContent(m.renderCurrentChunk())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "s", "tab":
			m.params.Strategy = cycleStrategy(m.params.Strategy, 1)
			m.rechunk()
			return m, nil
		case "S", "shift+tab":
			m.params.Strategy = cycleStrategy(m.params.Strategy, -1)
			m.rechunk()
			return m, nil
		case "+", "=":
			m.params.TargetSize += sizeStep
			m.rechunk()
			return m, nil
		case "-", "_":
			m.params.TargetSize = max(minSize, m.params.TargetSize-sizeStep)
			if m.params.Overlap >= m.params.TargetSize {
				m.params.Overlap = m.params.TargetSize - 1
			}
			m.rechunk()
			return m, nil
		case "]":
			if m.params.Overlap+overlapStep < m.params.TargetSize {
				m.params.Overlap += overlapStep
				m.rechunk()
			}
			return m, nil
		case "[":
			m.params.Overlap = max(0, m.params.Overlap-overlapStep)
			m.rechunk()
			return m, nil
		case "right", "l":
			if len(m.chunks) > 0 {
				m.cursor = (m.cursor + 1) % len(m.chunks)
				m.viewport.SetContent(m.renderCurrentChunk())
				m.viewport.GotoTop()
			}
			return m, nil
		case "left", "h":
			if len(m.chunks) > 0 {
				m.cursor = (m.cursor - 1 + len(m.chunks)) % len(m.chunks)
				m.viewport.SetContent(m.renderCurrentChunk())
				m.viewport.GotoTop()
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the explorer layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("mosaic - " + m.title)
	params := paramStyle.Render(fmt.Sprintf("strategy %s   size %d   overlap %d",
		m.params.Strategy, m.params.TargetSize, m.params.Overlap))
	body := chunkBoxStyle.Render(m.viewport.View())
	metrics := metricsStyle.Render(m.renderMetrics())
	status := statusStyle.Render(m.status)
	return header + "\n" + params + "\n" + body + "\n" + metrics + "\n" + status
}

func (m Model) renderMetrics() string {
	if m.metrics.TotalChunks == 0 {
		return "no chunks"
	}
	return fmt.Sprintf("chunks %d   tokens min %d avg %.1f max %d   quality %.2f",
		m.metrics.TotalChunks, m.metrics.MinTokens, m.metrics.AvgTokens,
		m.metrics.MaxTokens, m.metrics.AvgQuality)
}

func (m Model) renderCurrentChunk() string {
	if len(m.chunks) == 0 {
		return "No chunks. The document may be empty."
	}
	c := m.chunks[m.cursor]
	title := fmt.Sprintf("Chunk %d/%d   %d tokens   %d chars",
		m.cursor+1, len(m.chunks), c.EstimatedTokens, c.CharCount)
	if line := qualityLine(c); line != "" {
		title += "\n" + line
	}
	return title + "\n\n" + c.Text
}

// qualityLine formats whichever quality fields the chunk's strategy filled in.
func qualityLine(c mosaic.Chunk) string {
	var parts []string
	if c.Completeness > 0 {
		parts = append(parts, fmt.Sprintf("completeness %.2f", c.Completeness))
	}
	if c.Coherence > 0 {
		parts = append(parts, fmt.Sprintf("coherence %.2f", c.Coherence))
	}
	if c.SemanticDensity > 0 {
		parts = append(parts, fmt.Sprintf("density %.2f", c.SemanticDensity))
	}
	if c.OverlapTokens > 0 {
		parts = append(parts, fmt.Sprintf("overlap %d tok (%.0f%%)", c.OverlapTokens, c.OverlapPercent))
	}
	if len(c.TopicKeywords) > 0 {
		parts = append(parts, keywordStyle.Render(strings.Join(c.TopicKeywords, ", ")))
	}
	return strings.Join(parts, "   ")
}

func cycleStrategy(s mosaic.Strategy, delta int) mosaic.Strategy {
	all := mosaic.Strategies()
	for i, v := range all {
		if v == s {
			return all[(i+delta+len(all))%len(all)]
		}
	}
	return all[0]
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	paramStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	chunkBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	metricsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keywordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
