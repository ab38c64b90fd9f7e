package core

import (
	"strings"
)

// Cell is a single character cell of a Canvas.
// Color is a hex string ("#8B5CF6") or empty for the terminal default.
type Cell struct {
	Rune  rune
	Color string
}

// blank is the cell every canvas starts with.
var blank = Cell{Rune: ' '}

// Canvas is a 2D cell buffer the playfield is drawn into.
// It keeps drawing independent of the terminal so rendering can be tested
// without a running program.
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
}

// NewCanvas creates a new canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  Max(width, 0),
		height: Max(height, 0),
	}
	c.allocate()
	c.Clear()
	return c
}

func (c *Canvas) allocate() {
	c.cells = make([][]Cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]Cell, c.width)
	}
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in cells.
func (c *Canvas) Height() int {
	return c.height
}

// Resize changes the canvas dimensions and clears it.
func (c *Canvas) Resize(width, height int) {
	width, height = Max(width, 0), Max(height, 0)
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.allocate()
	c.Clear()
}

// Clear resets every cell to a blank.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = blank
		}
	}
}

// Set places a rune with a color at the given position.
// Out-of-bounds coordinates are silently ignored.
func (c *Canvas) Set(x, y int, r rune, color string) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = Cell{Rune: r, Color: color}
}

// Get returns the cell at the given position.
// Returns a blank cell for out-of-bounds coordinates.
func (c *Canvas) Get(x, y int) Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return blank
	}
	return c.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
func (c *Canvas) DrawText(x, y int, text, color string) {
	i := 0
	for _, r := range text {
		c.Set(x+i, y, r, color)
		i++
	}
}

// DrawTextCentered draws text centered horizontally at row y.
func (c *Canvas) DrawTextCentered(y int, text, color string) {
	x := (c.width - len([]rune(text))) / 2
	c.DrawText(x, y, text, color)
}

// FillRect fills a rectangular area with the given rune.
func (c *Canvas) FillRect(r Rect, fill rune, color string) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.Set(x, y, fill, color)
		}
	}
}

// DrawBox draws a rectangle outline. Rounded selects rounded corners.
func (c *Canvas) DrawBox(r Rect, rounded bool, color string) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	tl, tr, bl, br := '┌', '┐', '└', '┘'
	if rounded {
		tl, tr, bl, br = '╭', '╮', '╰', '╯'
	}

	for x := r.X + 1; x < r.Right()-1; x++ {
		c.Set(x, r.Y, '─', color)
		c.Set(x, r.Bottom()-1, '─', color)
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		c.Set(r.X, y, '│', color)
		c.Set(r.Right()-1, y, '│', color)
	}

	c.Set(r.X, r.Y, tl, color)
	c.Set(r.Right()-1, r.Y, tr, color)
	c.Set(r.X, r.Bottom()-1, bl, color)
	c.Set(r.Right()-1, r.Bottom()-1, br, color)
}

// String converts the canvas to plain text, dropping colors.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height + c.height)

	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < c.width; x++ {
			sb.WriteRune(c.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of row y as a string.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.height {
		return strings.Repeat(" ", c.width)
	}
	var sb strings.Builder
	for _, cell := range c.cells[y] {
		sb.WriteRune(cell.Rune)
	}
	return sb.String()
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
