package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cellClass picks the style a raster cell is drawn with.
type cellClass uint8

const (
	clsNone cellClass = iota
	clsZone
	clsShape
	clsLabel
	clsConn
	clsSelected
	clsLive
	clsCandidate
	clsSnap
)

var cellStyles = map[cellClass]lipgloss.Style{
	clsZone:      lipgloss.NewStyle().Foreground(colorDim),
	clsShape:     lipgloss.NewStyle().Foreground(colorGray),
	clsLabel:     lipgloss.NewStyle().Foreground(colorWhite).Bold(true),
	clsConn:      lipgloss.NewStyle().Foreground(colorCyan),
	clsSelected:  lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
	clsLive:      lipgloss.NewStyle().Foreground(colorYellow),
	clsCandidate: lipgloss.NewStyle().Foreground(colorDim),
	clsSnap:      lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
}

// raster is a character canvas the editor draws the scene onto.
type raster struct {
	w, h  int
	cells []rune
	class []cellClass
}

func newRaster(w, h int) *raster {
	w, h = max(w, 0), max(h, 0)
	r := &raster{w: w, h: h, cells: make([]rune, w*h), class: make([]cellClass, w*h)}
	for i := range r.cells {
		r.cells[i] = ' '
	}
	return r
}

func (r *raster) in(col, row int) bool {
	return col >= 0 && row >= 0 && col < r.w && row < r.h
}

func (r *raster) set(col, row int, ch rune, c cellClass) {
	if !r.in(col, row) {
		return
	}
	r.cells[row*r.w+col] = ch
	r.class[row*r.w+col] = c
}

func (r *raster) at(col, row int) rune {
	if !r.in(col, row) {
		return 0
	}
	return r.cells[row*r.w+col]
}

// box draws a rectangle outline between two corner cells, inclusive.
func (r *raster) box(x0, y0, x1, y1 int, c cellClass) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for x := x0 + 1; x < x1; x++ {
		r.set(x, y0, '─', c)
		r.set(x, y1, '─', c)
	}
	for y := y0 + 1; y < y1; y++ {
		r.set(x0, y, '│', c)
		r.set(x1, y, '│', c)
	}
	r.set(x0, y0, '┌', c)
	r.set(x1, y0, '┐', c)
	r.set(x0, y1, '└', c)
	r.set(x1, y1, '┘', c)
}

// text writes s starting at a cell, clipped to maxLen runes.
func (r *raster) text(col, row int, s string, maxLen int, c cellClass) {
	i := 0
	for _, ch := range s {
		if i >= maxLen {
			return
		}
		r.set(col+i, row, ch, c)
		i++
	}
}

// cell is a raster coordinate.
type cell struct{ col, row int }

// polyline draws an orthogonal path through the given cells with box
// drawing corners, ending in an arrow.
func (r *raster) polyline(pts []cell, c cellClass) {
	pts = elbows(dedupe(pts))
	if len(pts) < 2 {
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		r.run(pts[i], pts[i+1], c)
	}
	for i := 1; i+1 < len(pts); i++ {
		in := direction(pts[i-1], pts[i])
		out := direction(pts[i], pts[i+1])
		if ch, ok := corner(in, out); ok {
			r.set(pts[i].col, pts[i].row, ch, c)
		}
	}
	last := pts[len(pts)-1]
	r.set(last.col, last.row, arrow(direction(pts[len(pts)-2], last)), c)
}

// elbows splits segments that rounding skewed off-axis into a horizontal
// and a vertical run.
func elbows(pts []cell) []cell {
	if len(pts) < 2 {
		return pts
	}
	out := []cell{pts[0]}
	for i := 1; i < len(pts); i++ {
		a, b := out[len(out)-1], pts[i]
		if a.row != b.row && a.col != b.col {
			out = append(out, cell{b.col, a.row})
		}
		out = append(out, b)
	}
	return out
}

// run draws a straight horizontal or vertical stroke.
func (r *raster) run(a, b cell, c cellClass) {
	if a.row == b.row {
		for x := min(a.col, b.col); x <= max(a.col, b.col); x++ {
			r.set(x, a.row, '─', c)
		}
		return
	}
	for y := min(a.row, b.row); y <= max(a.row, b.row); y++ {
		r.set(a.col, y, '│', c)
	}
}

func dedupe(pts []cell) []cell {
	out := make([]cell, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

// direction returns the unit step from a towards b on the dominant axis.
func direction(a, b cell) cell {
	dx, dy := b.col-a.col, b.row-a.row
	if abs(dx) >= abs(dy) {
		return cell{sign(dx), 0}
	}
	return cell{0, sign(dy)}
}

func corner(in, out cell) (rune, bool) {
	switch {
	case in == out:
		return 0, false
	case (in == cell{1, 0} && out == cell{0, 1}), (in == cell{0, -1} && out == cell{-1, 0}):
		return '┐', true
	case (in == cell{1, 0} && out == cell{0, -1}), (in == cell{0, 1} && out == cell{-1, 0}):
		return '┘', true
	case (in == cell{-1, 0} && out == cell{0, 1}), (in == cell{0, -1} && out == cell{1, 0}):
		return '┌', true
	case (in == cell{-1, 0} && out == cell{0, -1}), (in == cell{0, 1} && out == cell{1, 0}):
		return '└', true
	}
	return 0, false
}

func arrow(d cell) rune {
	switch d {
	case cell{0, 1}:
		return '▼'
	case cell{0, -1}:
		return '▲'
	case cell{-1, 0}:
		return '◀'
	}
	return '▶'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// String renders the raster row by row, styling runs of equal class.
func (r *raster) String() string {
	var b strings.Builder
	for row := 0; row < r.h; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for col := 1; col <= r.w; col++ {
			i := row*r.w + col
			if col < r.w && r.class[i] == r.class[i-1] {
				continue
			}
			seg := string(r.cells[row*r.w+start : i])
			if st, ok := cellStyles[r.class[i-1]]; ok {
				seg = st.Render(seg)
			}
			b.WriteString(seg)
			start = col
		}
	}
	return b.String()
}

// plain returns the raster text without styling.
func (r *raster) plain() string {
	var b strings.Builder
	for row := 0; row < r.h; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(r.cells[row*r.w : (row+1)*r.w]))
	}
	return b.String()
}
