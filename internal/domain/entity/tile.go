package entity

import (
	"fmt"
	"math"
)

// TileCode represents the contents of a single grid cell
type TileCode int

const (
	TileEmpty TileCode = iota
	TileSolid
	// Ceiling ramps are drawn as triangles but collide as full cells.
	TileCeilingRampLeft
	TileCeilingRampRight
	// Floor ramps: the solid part is the triangle below the diagonal.
	TileRampUp   // surface rises toward the right
	TileRampDown // surface falls toward the right
)

// Valid reports whether c is one of the known tile codes
func (c TileCode) Valid() bool {
	return c >= TileEmpty && c <= TileRampDown
}

// IsFloorRamp reports whether c is a walkable diagonal
func (c TileCode) IsFloorRamp() bool {
	return c == TileRampUp || c == TileRampDown
}

// Cell is a grid coordinate (column, row)
type Cell struct {
	Col int
	Row int
}

// TileGrid is the static geometry of a level
type TileGrid struct {
	codes [][]TileCode
	cols  int
	rows  int
	size  float64
	exit  Cell
}

// NewTileGrid validates rows and builds a grid. Every row must have the
// same length and the exit must lie inside the grid.
func NewTileGrid(rows [][]TileCode, size float64, exit Cell) (*TileGrid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("size %v: %w", size, ErrBadTileSize)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}

	cols := len(rows[0])
	codes := make([][]TileCode, len(rows))
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", r, len(row), cols, ErrRaggedGrid)
		}
		for c, code := range row {
			if !code.Valid() {
				return nil, fmt.Errorf("cell (%d,%d) code %d: %w", c, r, code, ErrBadTileCode)
			}
		}
		codes[r] = append([]TileCode(nil), row...)
	}

	g := &TileGrid{codes: codes, cols: cols, rows: len(rows), size: size}
	if !g.Contains(exit) {
		return nil, fmt.Errorf("exit (%d,%d): %w", exit.Col, exit.Row, ErrOutOfGrid)
	}
	g.exit = exit
	return g, nil
}

// Size returns the edge length of a cell in pixels
func (g *TileGrid) Size() float64 { return g.size }

// Cols returns the number of columns
func (g *TileGrid) Cols() int { return g.cols }

// Rows returns the number of rows
func (g *TileGrid) Rows() int { return g.rows }

// Exit returns the exit cell
func (g *TileGrid) Exit() Cell { return g.exit }

// WorldWidth returns the width of the grid in pixels
func (g *TileGrid) WorldWidth() float64 { return float64(g.cols) * g.size }

// WorldHeight returns the height of the grid in pixels
func (g *TileGrid) WorldHeight() float64 { return float64(g.rows) * g.size }

// Contains reports whether c addresses a cell of the grid
func (g *TileGrid) Contains(c Cell) bool {
	return c.Col >= 0 && c.Col < g.cols && c.Row >= 0 && c.Row < g.rows
}

// CodeAtCell returns the stored code of a cell, solid when out of the grid
func (g *TileGrid) CodeAtCell(c Cell) TileCode {
	if !g.Contains(c) {
		return TileSolid
	}
	return g.codes[c.Row][c.Col]
}

// CellAt returns the cell holding the pixel point (x, y)
func (g *TileGrid) CellAt(x, y float64) Cell {
	return Cell{
		Col: int(math.Floor(x / g.size)),
		Row: int(math.Floor(y / g.size)),
	}
}

// TileCodeAt returns the code of the solid region under the pixel point.
// Anything outside the world is solid so the player can never leave it.
// Floor ramps resolve to their own code below the diagonal and to
// TileEmpty above it.
func (g *TileGrid) TileCodeAt(x, y float64) TileCode {
	if x < 0 || x >= g.WorldWidth() || y < 0 || y >= g.WorldHeight() {
		return TileSolid
	}

	cell := g.CellAt(x, y)
	u := x - float64(cell.Col)*g.size
	v := y - float64(cell.Row)*g.size

	switch code := g.codes[cell.Row][cell.Col]; code {
	case TileRampUp:
		if g.size-u < v {
			return TileRampUp
		}
		return TileEmpty
	case TileRampDown:
		if u < v {
			return TileRampDown
		}
		return TileEmpty
	default:
		return code
	}
}

// ProbeCorners tests the corners of the box centred horizontally on x whose
// bottom edge is y: top-left, top-right, bottom-left, bottom-right.
// It returns the first non-empty code, or TileEmpty.
func (g *TileGrid) ProbeCorners(x, y, halfW, halfH float64) TileCode {
	if code := g.TileCodeAt(x-halfW, y-halfH); code != TileEmpty {
		return code
	}
	if code := g.TileCodeAt(x+halfW, y-halfH); code != TileEmpty {
		return code
	}
	if code := g.TileCodeAt(x-halfW, y); code != TileEmpty {
		return code
	}
	return g.TileCodeAt(x+halfW, y)
}

// RampSurfaceY returns the y of the floor ramp surface at x, one pixel
// above the solid triangle, for a point inside a floor ramp cell.
// ok is false when (x, y) is not in a floor ramp cell.
func (g *TileGrid) RampSurfaceY(x, y float64) (surface float64, ok bool) {
	cell := g.CellAt(x, y)
	top := float64(cell.Row) * g.size
	u := x - float64(cell.Col)*g.size

	switch g.CodeAtCell(cell) {
	case TileRampUp:
		return top + g.size - u - 1, true
	case TileRampDown:
		return top + u - 1, true
	}
	return y, false
}

// IsInExitZone reports whether a body of half width halfW standing at
// (x, y) is fully inside the exit column and its feet are in the exit row.
func (g *TileGrid) IsInExitZone(x, y, halfW float64) bool {
	left := float64(g.exit.Col) * g.size
	top := float64(g.exit.Row) * g.size
	return x-halfW > left && x+halfW < left+g.size &&
		y > top && y <= top+g.size
}
