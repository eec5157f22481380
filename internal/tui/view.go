package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/WindyAle/Welcome-to-my/internal/engine"
	"github.com/WindyAle/Welcome-to-my/internal/layout"
	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/charmbracelet/lipgloss"
)

const (
	panelWidth   = 44
	resultHeight = 12
	maxStars     = 5
)

var (
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFA500")).
			Padding(0, 1)

	emptyCell  = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	doorCell   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C08040"))
	cursorCell = lipgloss.NewStyle().Background(lipgloss.Color("#5F5F87"))
	ghostOK    = lipgloss.NewStyle().Background(lipgloss.Color("#2E5E3E"))
	ghostBad   = lipgloss.NewStyle().Background(lipgloss.Color("#6E2E2E"))
)

func (m model) View() string {
	var s string

	switch m.state {
	case stateLoading:
		s = fmt.Sprintf("\n  %s 첫 손님을 기다리는 중...\n", m.spinner.View())

	case statePlaying:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderGrid(),
			m.renderPanel(),
		)
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.statusLine(),
			"\n"+helpStyle.Render(m.help.View(keys)),
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress q to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) statusLine() string {
	if m.rerolling || m.session.Phase() == engine.PhaseEvaluating {
		return m.spinner.View() + " " + m.status
	}
	return m.status
}

// renderGrid draws the room two terminal columns per cell. Items show their
// glyph on the base cell and their color on the rest of the footprint.
func (m model) renderGrid() string {
	room := m.session.Room
	placed := m.session.Placed()
	door := m.session.Door()
	cat := m.session.Engine().Catalog()

	var ghost models.PlacedItem
	showGhost := m.session.Phase() == engine.PhaseIdle
	ghostFits := false
	if showGhost {
		ghost = models.PlacedItem{Item: cat.At(m.selected), Position: m.cursor, Rotation: m.rotation}
		ghostFits = layout.Check(ghost, placed, room, &door) == nil
	}

	var b strings.Builder
	for y := range room.Height {
		for x := range room.Width {
			p := models.Point{X: x, Y: y}
			text, style := "· ", emptyCell

			switch i := layout.ItemAt(placed, p); {
			case p == door:
				text, style = "▒▒", doorCell
			case i >= 0:
				st := cat.Style(placed[i].Item.Name)
				style = lipgloss.NewStyle().Background(lipgloss.Color(st.Color))
				text = "  "
				if placed[i].Position == p {
					text, style = padGlyph(st.Glyph), style.Bold(true)
				}
			}

			switch {
			case p == m.cursor:
				style = cursorCell
			case showGhost && ghost.Covers(p):
				style = ghostBad
				if ghostFits {
					style = ghostOK
				}
			}
			b.WriteString(style.Render(text))
		}
		if y < room.Height-1 {
			b.WriteByte('\n')
		}
	}
	return lipgloss.NewStyle().Padding(0, 2, 0, 1).Render(b.String())
}

func padGlyph(g string) string {
	if g == "" {
		return "##"
	}
	if lipgloss.Width(g) < 2 {
		return g + " "
	}
	return g
}

func (m model) renderPanel() string {
	c := m.session.Customer()
	cat := m.session.Engine().Catalog()
	item := cat.At(m.selected)
	fp := item.Footprint
	if m.rotation == models.Rotation90 {
		fp = fp.Rotated()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("CUSTOMER") + "\n")
	b.WriteString(textStyle.Render(c.Persona.Name))
	if c.Persona.Job != "" {
		b.WriteString(" (" + c.Persona.Job + ")")
	}
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("REQUEST") + "\n")
	b.WriteString(textStyle.Width(panelWidth).Render(c.Request) + "\n\n")

	b.WriteString(titleStyle.Render("FURNITURE") + "\n")
	fmt.Fprintf(&b, "%s %s  %dx%d  [%d/%d]\n",
		accentStyle.Render("▶"), item.Name, fp.Width, fp.Height, m.selected+1, cat.Len())
	fmt.Fprintf(&b, "placed: %d\n", len(m.session.Placed()))

	content := b.String()
	if m.session.Phase() == engine.PhasePopup {
		content += "\n" + popupStyle.Width(panelWidth).Render(m.viewport.View())
	}
	return panelStyle.Width(panelWidth + 4).Render(content)
}

// renderResult formats an evaluation for the popup viewport.
func renderResult(res models.EvaluationResult, width int) string {
	var b strings.Builder
	b.WriteString(accentStyle.Render(stars(res.Score)))
	fmt.Fprintf(&b, "  %.1f / 5.0\n", res.Score)
	if res.Similarity != nil {
		fmt.Fprintf(&b, "request match %.2f / 5.0\n", *res.Similarity)
	}
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("FEEDBACK") + "\n")
	b.WriteString(textStyle.Width(width).Render(res.Feedback) + "\n\n")
	b.WriteString(titleStyle.Render("ROOM") + "\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(res.Description))
	return b.String()
}

// stars renders score rounded to the nearest whole star, capped at five.
func stars(score float64) string {
	n := int(math.Round(score))
	n = max(0, min(maxStars, n))
	return strings.Repeat("★", n) + strings.Repeat("☆", maxStars-n)
}
