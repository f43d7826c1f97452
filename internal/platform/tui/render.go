package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/game"
)

// cellColor identifies the style of one board cell.
type cellColor int

const (
	colorNone cellColor = iota
	colorWall
	colorBall
	colorCoin
	colorLeft
	colorRight
	colorTop
	colorBottom
)

var cellStyles = map[cellColor]lipgloss.Style{
	colorNone:   lipgloss.NewStyle(),
	colorWall:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	colorBall:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	colorCoin:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	colorLeft:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	colorRight:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	colorTop:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	colorBottom: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
}

var sideColors = map[game.Side]cellColor{
	game.SideLeft:   colorLeft,
	game.SideRight:  colorRight,
	game.SideTop:    colorTop,
	game.SideBottom: colorBottom,
}

type boardCell struct {
	r rune
	c cellColor
}

// Board projects the logical field onto a grid of terminal cells. Physics
// run in field units; only rendering knows about terminal geometry.
type Board struct {
	field config.FieldConfig
	phys  *game.Physics
	w, h  int
	cells []boardCell
}

// NewBoard creates a board renderer for the given field and terminal size.
func NewBoard(field config.FieldConfig, phys *game.Physics, w, h int) *Board {
	b := &Board{field: field, phys: phys}
	b.Resize(w, h)
	return b
}

// Resize adjusts the board to a new terminal size. Minimum sizes keep the
// projection from degenerating on tiny terminals.
func (b *Board) Resize(w, h int) {
	if w < 20 {
		w = 20
	}
	if h < 10 {
		h = 10
	}
	b.w = w
	b.h = h
	b.cells = make([]boardCell, w*h)
}

func (b *Board) set(x, y int, r rune, c cellColor) {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return
	}
	b.cells[y*b.w+x] = boardCell{r: r, c: c}
}

// project maps a field coordinate to a cell coordinate.
func (b *Board) project(fx, fy float64) (int, int) {
	x := int(fx / b.field.Width * float64(b.w))
	y := int(fy / b.field.Height * float64(b.h))
	return x, y
}

// fillRect paints the cells covered by a field-space rectangle.
func (b *Board) fillRect(fx, fy, fw, fh float64, r rune, c cellColor) {
	x0, y0 := b.project(fx, fy)
	x1, y1 := b.project(fx+fw, fy+fh)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.set(x, y, r, c)
		}
	}
}

// Render draws a snapshot to a styled string.
func (b *Board) Render(snap *game.Snapshot) string {
	for i := range b.cells {
		b.cells[i] = boardCell{r: ' ', c: colorNone}
	}

	b.drawWalls()

	for _, coin := range snap.Coins {
		b.fillRect(coin.Pos.X, coin.Pos.Y, coin.Size, coin.Size, '¤', colorCoin)
	}

	for _, side := range game.Sides() {
		pd, ok := snap.Paddles[side]
		if !ok {
			continue
		}
		rect := b.phys.PaddleRect(pd)
		glyph := '█'
		if pd.Frozen {
			glyph = '▒'
		}
		b.fillRect(rect.X, rect.Y, rect.W, rect.H, glyph, sideColors[side])
	}

	ballGlyph := '●'
	if snap.Ball.Phasing {
		ballGlyph = '○'
	}
	b.fillRect(snap.Ball.Pos.X, snap.Ball.Pos.Y, snap.Ball.Size, snap.Ball.Size, ballGlyph, colorBall)

	return b.String()
}

// String flushes the cell grid, grouping same-color runs to minimize ANSI
// escape sequences.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(b.w*b.h*2 + b.h)

	for y := 0; y < b.h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < b.w {
			start := b.cells[y*b.w+x].c
			var run strings.Builder
			for x < b.w && b.cells[y*b.w+x].c == start {
				run.WriteRune(b.cells[y*b.w+x].r)
				x++
			}
			sb.WriteString(cellStyles[start].Render(run.String()))
		}
	}
	return sb.String()
}

func (b *Board) drawWalls() {
	for x := 0; x < b.w; x++ {
		b.set(x, 0, '─', colorWall)
		b.set(x, b.h-1, '─', colorWall)
	}
	for y := 0; y < b.h; y++ {
		b.set(0, y, '│', colorWall)
		b.set(b.w-1, y, '│', colorWall)
	}
	b.set(0, 0, '┌', colorWall)
	b.set(b.w-1, 0, '┐', colorWall)
	b.set(0, b.h-1, '└', colorWall)
	b.set(b.w-1, b.h-1, '┘', colorWall)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	winStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// RenderScoreLine formats the four scores, highlighting the local side.
func RenderScoreLine(snap *game.Snapshot, localSide game.Side) string {
	parts := make([]string, 0, 4)
	for _, side := range game.Sides() {
		label := fmt.Sprintf("%s %d", side, snap.Scores[side])
		style := cellStyles[sideColors[side]]
		if side == localSide {
			style = style.Bold(true)
		}
		parts = append(parts, style.Render(label))
	}
	return headerStyle.Render("quadpong  ") + strings.Join(parts, dimStyle.Render("  ·  "))
}

// RenderEffectLine formats the active effects with remaining time.
func RenderEffectLine(snap *game.Snapshot, now time.Time) string {
	if len(snap.Effects) == 0 {
		return ""
	}
	parts := make([]string, 0, len(snap.Effects))
	for _, eff := range snap.Effects {
		left := eff.ExpiresAt().Sub(now)
		if left < 0 {
			left = 0
		}
		parts = append(parts, fmt.Sprintf("%s %.1fs", eff.Type, left.Seconds()))
	}
	return dimStyle.Render("effects: " + strings.Join(parts, ", "))
}
