package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/gallery"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// Wall styles
var (
	wallTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	wallDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	wallErrStyle   = lipgloss.NewStyle().Foreground(colorRed)
	wallLabelStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

const (
	// unitsPerLine converts item heights to terminal lines.
	unitsPerLine = 40.0

	// minCardLines is the smallest card, borders included.
	minCardLines = 3

	// wallChrome is the number of lines used by the header and footer.
	wallChrome = 4

	// prefetchLines triggers the next page this close to the bottom.
	prefetchLines = 3
)

// =============================================================================
// BrowseModel - Interactive masonry wall
// =============================================================================

// pageMsg reports a finished LoadMore or Refresh.
type pageMsg struct {
	placed    int
	refreshed bool
	err       error
}

// BrowseModel is the bubbletea model for the interactive wall.
type BrowseModel struct {
	ctx     context.Context
	gallery *gallery.Gallery

	Wall    gallery.View
	Loading bool
	Status  string
	Err     error

	Width  int
	Height int
	Offset int

	lines []string
}

// NewBrowseModel creates a model over g. The first page is requested by Init.
func NewBrowseModel(ctx context.Context, g *gallery.Gallery) BrowseModel {
	m := BrowseModel{
		ctx:     ctx,
		gallery: g,
		Width:   80,
		Height:  24,
	}
	m.sync()
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return m.loadMore()
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "down", "j":
			m.Offset = min(m.Offset+1, m.maxOffset())
			return m, m.prefetch()
		case "pgdown", "ctrl+d":
			m.Offset = min(m.Offset+m.pageLines(), m.maxOffset())
			return m, m.prefetch()
		case "pgup", "ctrl+u":
			m.Offset = max(m.Offset-m.pageLines(), 0)
		case "g", "home":
			m.Offset = 0
		case " ", "n":
			return m, m.startLoad(m.loadMore)
		case "r":
			m.Offset = 0
			return m, m.startLoad(m.refresh)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			n, _ := strconv.Atoi(key)
			if err := m.gallery.SetColumns(m.ctx, n); err != nil {
				m.Err = err
			} else {
				m.Err = nil
				m.Status = fmt.Sprintf("%d columns", n)
			}
			m.sync()
			m.Offset = min(m.Offset, m.maxOffset())
		}
	case pageMsg:
		m.Loading = false
		m.Err = nil
		if msg.err != nil && !werrors.Is(msg.err, werrors.ErrCodeInvalidItem) {
			m.Err = msg.err
		} else {
			verb := "loaded"
			if msg.refreshed {
				verb = "refreshed"
			}
			m.Status = fmt.Sprintf("%s %d photos", verb, msg.placed)
			if msg.err != nil {
				m.Status += " (some skipped)"
			}
		}
		m.sync()
		return m, m.prefetch()
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.sync()
		return m, m.prefetch()
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(wallTitleStyle.Render("Waterfall"))
	b.WriteString(wallDimStyle.Render(fmt.Sprintf("  %d photos · %d columns", m.Wall.Layout.Len(), m.Wall.Columns)))
	b.WriteString("\n")

	end := min(m.Offset+m.pageLines(), len(m.lines))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.lines[i])
		b.WriteString("\n")
	}
	for i := end - m.Offset; i < m.pageLines(); i++ {
		b.WriteString("\n")
	}

	switch {
	case m.Err != nil:
		b.WriteString(wallErrStyle.Render("error: " + werrors.UserMessage(m.Err)))
	case m.Loading:
		b.WriteString(wallDimStyle.Render("loading..."))
	case m.Wall.Exhausted:
		b.WriteString(wallDimStyle.Render("end of feed"))
	default:
		b.WriteString(wallDimStyle.Render(m.Status))
	}
	b.WriteString("\n")
	b.WriteString(wallDimStyle.Render("j/k scroll  space more  r refresh  1-9 columns  q quit"))

	return b.String()
}

// =============================================================================
// Commands
// =============================================================================

func (m *BrowseModel) startLoad(cmd func() tea.Cmd) tea.Cmd {
	if m.Loading {
		return nil
	}
	m.Loading = true
	return cmd()
}

func (m BrowseModel) loadMore() tea.Cmd {
	ctx, g := m.ctx, m.gallery
	return func() tea.Msg {
		n, err := g.LoadMore(ctx)
		return pageMsg{placed: n, err: err}
	}
}

func (m BrowseModel) refresh() tea.Cmd {
	ctx, g := m.ctx, m.gallery
	return func() tea.Msg {
		n, err := g.Refresh(ctx)
		return pageMsg{placed: n, refreshed: true, err: err}
	}
}

// prefetch loads the next page once the viewport nears the bottom of the wall.
func (m *BrowseModel) prefetch() tea.Cmd {
	if m.Loading || m.Err != nil || m.Wall.Exhausted {
		return nil
	}
	if m.Offset+m.pageLines()+prefetchLines < len(m.lines) {
		return nil
	}
	return m.startLoad(m.loadMore)
}

// =============================================================================
// Wall Rendering
// =============================================================================

// sync takes a fresh snapshot and re-renders the wall.
func (m *BrowseModel) sync() {
	m.Wall = m.gallery.Snapshot()
	m.lines = renderWall(m.Wall, m.Width)
}

func (m BrowseModel) pageLines() int {
	return max(m.Height-wallChrome, 1)
}

func (m BrowseModel) maxOffset() int {
	return max(len(m.lines)-m.pageLines(), 0)
}

// renderWall draws each column as a stack of bordered cards whose height is
// proportional to the item height, and returns the wall line by line.
func renderWall(v gallery.View, width int) []string {
	n := len(v.Layout.Columns)
	if n == 0 || v.Layout.Len() == 0 {
		return nil
	}
	colWidth := max((width-(n-1))/n, 8)

	cols := make([]string, 0, 2*n-1)
	for i, col := range v.Layout.Columns {
		cards := make([]string, len(col.Items))
		for j, it := range col.Items {
			lines := max(int(math.Round(it.Height/unitsPerLine)), minCardLines)
			label := truncate(it.ID, colWidth-2)
			cards[j] = lipgloss.NewStyle().
				Width(colWidth-2).
				Height(lines-2).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(styles.Tone(it.ID))).
				Render(wallLabelStyle.Render(label) + "\n" + wallDimStyle.Render(strconv.FormatFloat(it.Height, 'f', 0, 64)))
		}
		if i > 0 {
			cols = append(cols, " ")
		}
		cols = append(cols, lipgloss.NewStyle().Width(colWidth).Render(lipgloss.JoinVertical(lipgloss.Left, cards...)))
	}
	return strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, cols...), "\n")
}

// truncate shortens s to at most n runes, marking the cut with "..".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 2 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-2]) + ".."
}
