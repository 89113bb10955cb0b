package export

import (
	"strings"
	"testing"

	"github.com/san-kum/orbitlab/internal/body"
	"github.com/san-kum/orbitlab/internal/universe"
)

func orbitStates(n int) []*universe.Universe {
	u := universe.New(1.0)
	u.Bodies.Push(body.Body{
		Name: "a", Pos: body.Vec2{X: -5}, Vel: body.Vec2{Y: 0.2},
		Radius: 1, Density: 1, Color: body.Vec3{X: 1},
	})
	u.Bodies.Push(body.Body{
		Name: "b", Pos: body.Vec2{X: 5}, Vel: body.Vec2{Y: -0.2},
		Radius: 1, Density: 1, Color: body.Vec3{Z: 1},
	})

	states := []*universe.Universe{u}
	for i := 1; i < n; i++ {
		next := states[i-1].Clone()
		next.Step(0.01)
		states = append(states, next)
	}
	return states
}

func TestTimelineSVG(t *testing.T) {
	svg := TimelineSVG(orbitStates(10), 800, 600)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing xml prologue")
	}
	if !strings.Contains(svg, `width="800" height="600"`) {
		t.Error("dimensions not embedded")
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("got %d paths, want one per body (2)", got)
	}
	if !strings.Contains(svg, `stroke="#ff0000"`) || !strings.Contains(svg, `stroke="#0000ff"`) {
		t.Error("body colors missing from strokes")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg not closed")
	}
}

func TestTimelineSVG_Empty(t *testing.T) {
	if out := TimelineSVG(nil, 100, 100); out != "" {
		t.Errorf("nil states should render nothing, got %q", out)
	}
	if out := TimelineSVG([]*universe.Universe{universe.New(1.0)}, 100, 100); out != "" {
		t.Errorf("bodiless states should render nothing, got %q", out)
	}
}

func TestTimelineSVG_SinglePointBodyOmitted(t *testing.T) {
	// One state per body gives a one-point path, which cannot be drawn.
	svg := TimelineSVG(orbitStates(1), 400, 400)
	if strings.Contains(svg, "<path") {
		t.Error("single-point trajectories should not produce paths")
	}
}
