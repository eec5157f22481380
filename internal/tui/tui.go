package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WindyAle/Welcome-to-my/internal/engine"
	"github.com/WindyAle/Welcome-to-my/internal/layout"
	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// pollInterval is how often the UI checks for a finished evaluation.
const pollInterval = 100 * time.Millisecond

type sessionState int

const (
	stateLoading sessionState = iota
	statePlaying
	stateError
)

// StartFunc seeds a session. It runs off the UI goroutine.
type StartFunc func(ctx context.Context) (*engine.Session, error)

type model struct {
	state   sessionState
	ctx     context.Context
	start   StartFunc
	session *engine.Session

	cursor   models.Point
	selected int
	rotation models.Rotation

	// rerolling is set while a new customer is being generated.
	rerolling bool
	// shownEval is the evaluation count the result viewport was filled for.
	shownEval int

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	status   string
	err      error
	width    int
	height   int
}

func NewModel(ctx context.Context, start StartFunc) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return model{
		state:    stateLoading,
		ctx:      ctx,
		start:    start,
		spinner:  sp,
		viewport: viewport.New(panelWidth-4, resultHeight),
		help:     help.New(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startSession())
}

type sessionReadyMsg struct {
	session *engine.Session
}

type customerMsg struct {
	customer models.Customer
	err      error
}

type evalTickMsg struct{}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if m.state == statePlaying {
			return m.handleKey(msg)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case sessionReadyMsg:
		m.session = msg.session
		m.state = statePlaying
		m.cursor = models.Point{X: m.session.Room.Width / 2, Y: m.session.Room.Height / 2}
		m.status = "새 고객이 도착했습니다."
		return m, nil

	case customerMsg:
		m.rerolling = false
		if msg.err != nil {
			m.status = "새 고객을 부르지 못했습니다: " + msg.err.Error()
			return m, nil
		}
		if err := m.session.SwitchCustomer(msg.customer); err != nil {
			m.status = describeErr(err)
			return m, nil
		}
		m.status = "새 고객이 도착했습니다."
		return m, nil

	case evalTickMsg:
		if m.session == nil {
			return m, nil
		}
		if res, ok := m.session.Result(); ok {
			m.showResult(res)
			m.status = "평가가 끝났습니다. c: 배치 초기화, n: 새 고객"
			return m, nil
		}
		return m, pollEvaluation()

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	room := m.session.Room
	items := m.session.Engine().Catalog()

	switch {
	case key.Matches(msg, keys.Up):
		m.cursor.Y = max(0, m.cursor.Y-1)
	case key.Matches(msg, keys.Down):
		m.cursor.Y = min(room.Height-1, m.cursor.Y+1)
	case key.Matches(msg, keys.Left):
		m.cursor.X = max(0, m.cursor.X-1)
	case key.Matches(msg, keys.Right):
		m.cursor.X = min(room.Width-1, m.cursor.X+1)
	case key.Matches(msg, keys.Next):
		m.selected = (m.selected + 1) % items.Len()
	case key.Matches(msg, keys.Prev):
		m.selected = (m.selected - 1 + items.Len()) % items.Len()
	case key.Matches(msg, keys.Rotate):
		m.rotation = m.rotation.Toggle()

	case key.Matches(msg, keys.Place):
		item := items.At(m.selected)
		if err := m.session.Place(item, m.cursor, m.rotation); err != nil {
			m.status = describeErr(err)
		} else {
			m.status = item.Name + " 배치"
		}

	case key.Matches(msg, keys.Remove):
		removed, ok, err := m.session.RemoveAt(m.cursor)
		switch {
		case err != nil:
			m.status = describeErr(err)
		case ok:
			m.status = removed.Item.Name + " 제거"
		default:
			m.status = "여기에는 가구가 없습니다."
		}

	case key.Matches(msg, keys.Evaluate):
		if m.rerolling {
			return m, nil
		}
		if _, ok := m.session.Evaluate(m.ctx); !ok {
			// already evaluating or showing a result
			return m, nil
		}
		m.status = "고객이 방을 둘러보는 중..."
		return m, tea.Batch(pollEvaluation(), m.spinner.Tick)

	case key.Matches(msg, keys.Reset):
		if err := m.session.ResetLayout(); err != nil {
			m.status = describeErr(err)
		} else {
			m.status = "배치를 초기화했습니다."
		}

	case key.Matches(msg, keys.Customer):
		if m.rerolling {
			return m, nil
		}
		if m.session.Phase() == engine.PhaseEvaluating {
			m.status = describeErr(engine.ErrBusy)
			return m, nil
		}
		m.rerolling = true
		m.status = "새 고객을 부르는 중..."
		return m, tea.Batch(m.nextCustomer(), m.spinner.Tick)

	case key.Matches(msg, keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) showResult(res models.EvaluationResult) {
	if n := m.session.Evaluations(); n != m.shownEval {
		m.viewport.SetContent(renderResult(res, panelWidth-4))
		m.viewport.GotoTop()
		m.shownEval = n
	}
}

func describeErr(err error) string {
	switch {
	case errors.Is(err, engine.ErrBusy):
		return "평가 중에는 바꿀 수 없습니다."
	case errors.Is(err, engine.ErrPopupOpen):
		return "평가 결과를 먼저 닫으세요 (c 또는 n)."
	case errors.Is(err, layout.ErrOutOfBounds):
		return "방 밖으로 나갑니다."
	case errors.Is(err, layout.ErrCollision):
		return "다른 가구와 겹칩니다."
	case errors.Is(err, layout.ErrDoorBlocked):
		return "문을 막을 수 없습니다."
	default:
		return fmt.Sprintf("오류: %v", err)
	}
}

func (m model) startSession() tea.Cmd {
	return func() tea.Msg {
		session, err := m.start(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return sessionReadyMsg{session}
	}
}

func (m model) nextCustomer() tea.Cmd {
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		c, err := session.GenerateCustomer(ctx)
		return customerMsg{customer: c, err: err}
	}
}

func pollEvaluation() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return evalTickMsg{}
	})
}

func Run(ctx context.Context, start StartFunc) error {
	p := tea.NewProgram(NewModel(ctx, start), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
