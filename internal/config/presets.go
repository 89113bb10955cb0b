package config

import (
	"math"
	"sort"

	"github.com/san-kum/orbitlab/internal/body"
	"github.com/san-kum/orbitlab/internal/universe"
)

// Presets are ready-made starting universes, keyed by name.
var Presets = map[string]func(cfg *Config) *universe.Universe{
	"empty":     emptyPreset,
	"binary":    binaryPreset,
	"trio":      trioPreset,
	"collision": collisionPreset,
}

func GetPreset(name string, cfg *Config) *universe.Universe {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build(cfg)
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func emptyPreset(cfg *Config) *universe.Universe {
	u := universe.New(cfg.Gravity)
	u.Collisions = cfg.Collisions
	return u
}

// binaryPreset puts two unit-mass discs on a circular mutual orbit. For equal
// masses m separated by d, each needs speed sqrt(G*m/(2d)).
func binaryPreset(cfg *Config) *universe.Universe {
	u := universe.New(cfg.Gravity)
	u.Collisions = cfg.Collisions

	const sep = 10.0
	density := 1.0 / math.Pi // radius 1 => mass 1
	v := math.Sqrt(cfg.Gravity * 1.0 / (2 * sep))

	u.Bodies.Push(body.Body{
		Name: "Alpha", Pos: body.Vec2{X: -sep / 2}, Vel: body.Vec2{Y: -v},
		Radius: 1.0, Density: density, Color: body.Vec3{X: 1, Y: 0.8, Z: 0.3},
	})
	u.Bodies.Push(body.Body{
		Name: "Beta", Pos: body.Vec2{X: sep / 2}, Vel: body.Vec2{Y: v},
		Radius: 1.0, Density: density, Color: body.Vec3{X: 0.3, Y: 0.6, Z: 1},
	})
	return u
}

// trioPreset rings three bodies around the origin with a tangential push.
func trioPreset(cfg *Config) *universe.Universe {
	u := universe.New(cfg.Gravity)
	u.Collisions = cfg.Collisions

	const n = 3
	const ring = 6.0
	density := 1.0 / math.Pi
	names := [n]string{"Ceres", "Pallas", "Vesta"}
	colors := [n]body.Vec3{
		{X: 1, Y: 0.4, Z: 0.4},
		{X: 0.4, Y: 1, Z: 0.4},
		{X: 0.4, Y: 0.4, Z: 1},
	}
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / n
		u.Bodies.Push(body.Body{
			Name:    names[i],
			Pos:     body.Vec2{X: ring * math.Cos(angle), Y: ring * math.Sin(angle)},
			Vel:     body.Vec2{X: -math.Sin(angle), Y: math.Cos(angle)}.Scale(0.25),
			Radius:  0.8,
			Density: density,
			Color:   colors[i],
		})
	}
	return u
}

// collisionPreset aims two heavy discs at each other; collisions are always
// on for this one.
func collisionPreset(cfg *Config) *universe.Universe {
	u := universe.New(cfg.Gravity)
	u.Collisions = true

	u.Bodies.Push(body.Body{
		Name: "Hammer", Pos: body.Vec2{X: -12}, Vel: body.Vec2{X: 4},
		Radius: 1.5, Density: 2.0, Color: body.Vec3{X: 1, Y: 0.5, Z: 0.2},
	})
	u.Bodies.Push(body.Body{
		Name: "Anvil", Pos: body.Vec2{X: 12}, Vel: body.Vec2{X: -4},
		Radius: 2.0, Density: 2.0, Color: body.Vec3{X: 0.6, Y: 0.6, Z: 0.7},
	})
	return u
}
