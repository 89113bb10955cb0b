package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitlab/internal/body"
	"github.com/san-kum/orbitlab/internal/universe"
)

// TimelineSVG renders the trajectory of every body across states as one SVG
// polyline per body, colored with the body's display color. Bodies that
// appear or vanish mid-timeline simply get shorter paths: positions are
// collected per id, which clone-preserved ids make possible.
func TimelineSVG(states []*universe.Universe, width, height int) string {
	if len(states) == 0 {
		return ""
	}

	order := make([]body.ID, 0)
	paths := make(map[body.ID][]body.Vec2)
	colors := make(map[body.ID]body.Vec3)
	for _, u := range states {
		u.Bodies.Each(func(id body.ID, b *body.Body) {
			if _, seen := paths[id]; !seen {
				order = append(order, id)
				colors[id] = b.Color
			}
			paths[id] = append(paths[id], b.Pos)
		})
	}
	if len(order) == 0 {
		return ""
	}

	minX, maxX := paths[order[0]][0].X, paths[order[0]][0].X
	minY, maxY := paths[order[0]][0].Y, paths[order[0]][0].Y
	for _, pts := range paths {
		for _, p := range pts {
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, id := range order {
		pts := paths[id]
		if len(pts) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, colors[id].Hex()))
		for i, p := range pts {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
