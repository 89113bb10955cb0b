package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitlab/internal/body"
	"github.com/san-kum/orbitlab/internal/engine"
	"github.com/san-kum/orbitlab/internal/save"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the interactive viewer/editor. One frame per tick: advance the
// cursor by wall time, apply any pending edit, sync with the generator.
type Model struct {
	world *engine.World
	store *save.Store

	selected body.ID
	focused  body.ID

	viewHeight float64 // world units spanned vertically by the canvas
	lastTick   time.Time
	status     string

	width  int
	height int
}

func New(world *engine.World, store *save.Store) Model {
	return Model{
		world:      world,
		store:      store,
		viewHeight: 40,
		width:      80,
		height:     24,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			dt := now.Sub(m.lastTick).Seconds()
			if dt > 0.25 {
				dt = 0.25
			}
			m.world.MoveTime(dt)
		}
		m.lastTick = now
		m.world.SyncFuture()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w := m.world
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ":
		w.Playing = !w.Playing

	case "left":
		w.Playing = false
		w.SetCurrent(w.Current - 1)
	case "right":
		w.Playing = false
		w.SetCurrent(w.Current + 1)
	case "shift+left":
		w.Playing = false
		w.SetCurrent(w.Current - 64)
	case "shift+right":
		w.Playing = false
		w.SetCurrent(w.Current + 64)
	case "home":
		w.SetCurrent(0)
	case "end":
		w.SetCurrent(w.Timeline.Len() - 1)

	case "+", "=":
		w.SetSpeed(w.Speed * 2)
	case "-":
		w.SetSpeed(w.Speed / 2)

	case "up":
		m.viewHeight /= 1.25
	case "down":
		m.viewHeight *= 1.25

	case "[":
		w.SetStepSize(w.StepSize / 2)
		m.status = fmt.Sprintf("step size %.6f", w.StepSize)
	case "]":
		w.SetStepSize(w.StepSize * 2)
		m.status = fmt.Sprintf("step size %.6f", w.StepSize)

	case "g":
		w.SetGravity(w.Present().Gravity - 0.1)
		m.status = fmt.Sprintf("gravity %.2f", w.Present().Gravity)
	case "G":
		w.SetGravity(w.Present().Gravity + 0.1)
		m.status = fmt.Sprintf("gravity %.2f", w.Present().Gravity)

	case "a":
		if !w.Playing {
			m.selected = w.AddBodyAt(m.cameraCenter())
			m.status = "body added"
		}
	case "d":
		if m.selected != 0 && !w.Playing {
			w.RemoveBody(m.selected)
			m.selected = 0
			m.status = "body deleted"
		}

	case "tab":
		m.selected = m.nextBody(m.selected)
	case "f":
		if m.focused == m.selected {
			m.focused = 0
		} else {
			m.focused = m.selected
		}

	case "p":
		w.DeletePast()
		m.status = "past deleted"
	case "X":
		w.DeleteFuture()
		m.status = "future deleted"

	case "s":
		if err := m.saveWorld(); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.status = "saved " + w.Name
		}
	}
	return m, nil
}

func (m *Model) saveWorld() error {
	if err := m.store.Init(); err != nil {
		return err
	}
	w := m.world
	return m.store.Save(&save.Save{
		Name:      w.Name,
		Current:   w.Current,
		StepSize:  w.StepSize,
		Speed:     w.Speed,
		Lookahead: w.Lookahead,
		States:    w.Timeline.All(),
	})
}

// nextBody cycles the selection through the present snapshot in id order.
func (m Model) nextBody(after body.ID) body.ID {
	var first, next body.ID
	m.world.Present().Bodies.Each(func(id body.ID, _ *body.Body) {
		if first == 0 {
			first = id
		}
		if next == 0 && id > after {
			next = id
		}
	})
	if next != 0 {
		return next
	}
	return first
}

func (m Model) cameraCenter() body.Vec2 {
	if b := m.world.Present().Bodies.Get(m.focused); b != nil {
		return b.Pos
	}
	return body.Vec2{}
}

func (m Model) View() string {
	w := m.world
	u := w.Present()

	canvasH := m.height - 5
	if canvasH < 4 {
		canvasH = 4
	}
	canvasW := m.width
	if canvasW < 20 {
		canvasW = 20
	}

	grid := make([][]string, canvasH)
	for y := range grid {
		grid[y] = make([]string, canvasW)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	center := m.cameraCenter()
	// Terminal cells are about twice as tall as wide.
	unitsPerRow := m.viewHeight / float64(canvasH)
	unitsPerCol := unitsPerRow / 2

	// The selected and focused bodies are looked up together; the disjoint
	// guarantee means a coinciding selection/focus yields one pointer, not
	// two aliases.
	refs := u.Bodies.Disjoint(m.selected, m.focused)
	selectedBody := refs[0]

	u.Bodies.Each(func(id body.ID, b *body.Body) {
		rel := b.Pos.Sub(center)
		x := canvasW/2 + int(rel.X/unitsPerCol)
		y := canvasH/2 - int(rel.Y/unitsPerRow)
		if x < 0 || x >= canvasW || y < 0 || y >= canvasH {
			return
		}
		glyph := "o"
		if b.Radius >= 2*unitsPerRow {
			glyph = "O"
		} else if b.Radius < unitsPerRow/2 {
			glyph = "."
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color.Hex()))
		if id == m.selected {
			style = style.Reverse(true)
		}
		grid[y][x] = style.Render(glyph)
	})

	var sb strings.Builder
	playState := dim.Render("paused")
	if w.Playing {
		playState = green.Render("playing")
	}
	sb.WriteString(fmt.Sprintf("%s  %s  t=%s / %s  speed=%s  bodies=%s\n",
		cyan.Render(w.Name),
		playState,
		white.Render(fmt.Sprintf("%.2fs", w.Time())),
		dim.Render(fmt.Sprintf("%.2fs", float64(w.Timeline.Len())*w.StepSize)),
		yellow.Render(fmt.Sprintf("%.2gx", w.Speed)),
		white.Render(fmt.Sprintf("%d", u.Bodies.Len())),
	))

	for _, row := range grid {
		sb.WriteString(strings.Join(row, ""))
		sb.WriteString("\n")
	}

	if selectedBody != nil {
		sb.WriteString(fmt.Sprintf("%s pos=(%.2f, %.2f) vel=(%.2f, %.2f) r=%.2f ρ=%.2f m=%.2f\n",
			cyan.Render(selectedBody.Name),
			selectedBody.Pos.X, selectedBody.Pos.Y,
			selectedBody.Vel.X, selectedBody.Vel.Y,
			selectedBody.Radius, selectedBody.Density, selectedBody.Mass()))
	} else if m.selected != 0 {
		sb.WriteString(dim.Render("the selected body does not exist at this time") + "\n")
	} else {
		sb.WriteString("\n")
	}

	if m.status != "" {
		sb.WriteString(yellow.Render(m.status) + "\n")
	} else {
		sb.WriteString("\n")
	}

	sb.WriteString(dim.Render("space play  ←/→ seek  +/- speed  ↑/↓ zoom  tab select  f focus  a add  d delete  [/] step  g/G gravity  p past  X future  s save  q quit"))
	return sb.String()
}
