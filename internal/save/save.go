package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/san-kum/orbitlab/internal/body"
	"github.com/san-kum/orbitlab/internal/universe"
)

// ErrMissingOrigin reports a save whose first stored snapshot is not timeline
// index 0. Such a file cannot seed a timeline and is rejected outright.
var ErrMissingOrigin = errors.New("save: first stored state is not index 0")

// Save is the serializable form of a world. Only snapshots marked Changed are
// written, each tagged with its timeline index; everything between two stored
// snapshots is rebuilt on load by re-stepping at the saved step size.
//
// Body ids are written as decimal keys. They are not stable across a
// round trip: loading mints one fresh id per distinct key and reuses it
// consistently within that load.
type Save struct {
	Name      string
	Current   int
	StepSize  float64
	Speed     float64
	Lookahead int
	States    []*universe.Universe
}

type savedBody struct {
	Name    string     `json:"name"`
	Pos     [2]float64 `json:"pos"`
	Vel     [2]float64 `json:"vel"`
	Radius  float64    `json:"radius"`
	Density float64    `json:"density"`
	Color   [3]float64 `json:"color"`
}

type savedState struct {
	Index   int                  `json:"index"`
	Gravity float64              `json:"gravity"`
	Bodies  map[string]savedBody `json:"bodies"`
}

type savedWorld struct {
	Name      string       `json:"name"`
	Current   int          `json:"current_state"`
	StepSize  float64      `json:"step_size"`
	Speed     float64      `json:"speed"`
	Lookahead int          `json:"lookahead"`
	States    []savedState `json:"states"`
}

func (s *Save) MarshalJSON() ([]byte, error) {
	if len(s.States) == 0 || !s.States[0].Changed {
		panic("save: timeline origin must exist and be marked changed")
	}

	out := savedWorld{
		Name:      s.Name,
		Current:   s.Current,
		StepSize:  s.StepSize,
		Speed:     s.Speed,
		Lookahead: s.Lookahead,
	}
	for i, u := range s.States {
		if !u.Changed {
			continue
		}
		st := savedState{
			Index:   i,
			Gravity: u.Gravity,
			Bodies:  make(map[string]savedBody, u.Bodies.Len()),
		}
		u.Bodies.Each(func(id body.ID, b *body.Body) {
			st.Bodies[strconv.FormatUint(uint64(id), 10)] = savedBody{
				Name:    b.Name,
				Pos:     [2]float64{b.Pos.X, b.Pos.Y},
				Vel:     [2]float64{b.Vel.X, b.Vel.Y},
				Radius:  b.Radius,
				Density: b.Density,
				Color:   [3]float64{b.Color.X, b.Color.Y, b.Color.Z},
			}
		})
		out.States = append(out.States, st)
	}
	return json.Marshal(out)
}

func (s *Save) UnmarshalJSON(data []byte) error {
	var in savedWorld
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.States) == 0 || in.States[0].Index != 0 {
		return ErrMissingOrigin
	}
	if in.StepSize <= 0 {
		return fmt.Errorf("save: non-positive step size %v", in.StepSize)
	}

	// One fresh id per distinct stored key, reused across every state in
	// this load so trajectories stay connected.
	idsByKey := make(map[string]body.ID)
	var states []*universe.Universe

	for k, st := range in.States {
		u := universe.New(st.Gravity)

		keys := make([]string, 0, len(st.Bodies))
		for key := range st.Bodies {
			keys = append(keys, key)
		}
		numeric := make(map[string]uint64, len(keys))
		for _, key := range keys {
			n, err := strconv.ParseUint(key, 10, 64)
			if err != nil {
				return fmt.Errorf("save: body key %q is not numeric: %w", key, err)
			}
			numeric[key] = n
		}
		sort.Slice(keys, func(i, j int) bool { return numeric[keys[i]] < numeric[keys[j]] })

		for _, key := range keys {
			id, ok := idsByKey[key]
			if !ok {
				id = body.NextID()
				idsByKey[key] = id
			}
			sb := st.Bodies[key]
			u.Bodies.Insert(id, body.Body{
				Name:    sb.Name,
				Pos:     body.Vec2{X: sb.Pos[0], Y: sb.Pos[1]},
				Vel:     body.Vec2{X: sb.Vel[0], Y: sb.Vel[1]},
				Radius:  sb.Radius,
				Density: sb.Density,
				Color:   body.Vec3{X: sb.Color[0], Y: sb.Color[1], Z: sb.Color[2]},
			})
		}
		states = append(states, u)

		// Rebuild the derived snapshots strictly between this stored index
		// and the next one, or through the cursor after the last stored one.
		next := in.Current + 1
		if k+1 < len(in.States) {
			next = in.States[k+1].Index
		}
		for i := st.Index + 1; i < next; i++ {
			stepped := states[len(states)-1].Clone()
			stepped.Step(in.StepSize)
			states = append(states, stepped)
		}
	}

	s.Name = in.Name
	s.Current = in.Current
	s.StepSize = in.StepSize
	s.Speed = in.Speed
	s.Lookahead = in.Lookahead
	s.States = states
	return nil
}
