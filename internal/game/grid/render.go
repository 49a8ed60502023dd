package grid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/game/geometry"
)

// cellWidth is the fixed display width of one grid column.
const cellWidth = 3

// aoeMarker is drawn in cells inside the highlighted area.
const aoeMarker = "*"

// AssignLabels gives every unlabelled participant its display label: a side
// prefix (P, E, A) plus a per-side counter, assigned in list order. Labels
// already assigned are never changed.
func AssignLabels(participants []*actor.Participant) {
	counts := map[actor.Side]int{}
	for _, p := range participants {
		if p.Label != "" {
			continue
		}
		counts[p.Side]++
		p.Label = fmt.Sprintf("%s%d", p.Side.LabelPrefix(), counts[p.Side])
	}
}

// Render draws g as fixed-width ASCII: lettered columns (A..Z, then AA..),
// 1-based row numbers, each cell centered in its column. Cells show the
// occupying participant's label first, then the AoE marker when the cell lies
// inside highlight, then the terrain symbol. A legend lists every terrain
// type present (plain open ground excluded) and every placed participant.
//
// highlight may be nil.
func Render(g *Grid, participants []*actor.Participant, highlight geometry.Shape) string {
	AssignLabels(participants)

	byName := make(map[string]*actor.Participant, len(participants))
	for _, p := range participants {
		if p.Character != nil {
			byName[p.Character.Name] = p
		}
	}

	rowDigits := len(fmt.Sprint(g.height))
	var b strings.Builder

	// Column header.
	b.WriteString(strings.Repeat(" ", rowDigits+1))
	for x := 0; x < g.width; x++ {
		b.WriteString(center(columnLabel(x), cellWidth))
	}
	b.WriteString("\n")

	terrainsSeen := map[Terrain]bool{}
	var placed []*actor.Participant

	for y := 0; y < g.height; y++ {
		fmt.Fprintf(&b, "%*d ", rowDigits, y+1)
		for x := 0; x < g.width; x++ {
			cell := g.cells[y*g.width+x]
			terrainsSeen[cell.Terrain] = true

			content := cell.Terrain.Symbol()
			switch {
			case cell.Occupant != "":
				if p, ok := byName[cell.Occupant]; ok {
					content = p.Label
					placed = append(placed, p)
				} else {
					content = cell.Occupant
				}
			case highlight != nil && highlight.Contains(geometry.Position{X: x, Y: y}):
				content = aoeMarker
			}
			b.WriteString(center(content, cellWidth))
		}
		b.WriteString("\n")
	}

	b.WriteString(legend(terrainsSeen, placed, highlight != nil))
	return b.String()
}

// legend builds the trailing legend line for the terrains present and the
// participants actually displayed.
func legend(terrains map[Terrain]bool, placed []*actor.Participant, highlighted bool) string {
	var parts []string

	var ts []Terrain
	for t := range terrains {
		if t == TerrainOpen {
			continue
		}
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
	for _, t := range ts {
		parts = append(parts, fmt.Sprintf("%s %s", t.Symbol(), t))
	}
	if highlighted {
		parts = append(parts, aoeMarker+" area of effect")
	}

	seen := map[string]bool{}
	for _, p := range placed {
		if seen[p.Label] {
			continue
		}
		seen[p.Label] = true
		parts = append(parts, fmt.Sprintf("%s %s (%s)", p.Label, p.Character.Name, p.Side))
	}

	if len(parts) == 0 {
		return ""
	}
	return "Legend: " + strings.Join(parts, ", ") + "\n"
}

// columnLabel returns the spreadsheet-style label for column index i:
// A..Z, AA, AB, ...
func columnLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}

// center fits s into exactly width columns: longer strings are truncated so a
// stray occupant id can never skew the columns to its right, shorter ones are
// padded evenly with the extra space on the right.
func center(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
