package game

import (
	"fmt"

	"connect-four/internal/domain"
)

// Board is a Connect-Four grid. Each column fills from row 0 upward.
type Board struct {
	cells domain.Grid
}

func NewBoard() *Board {
	return &Board{}
}

// Drop places coin on the lowest empty cell of column and returns the row.
func (b *Board) Drop(column int, coin domain.Coin) (int, error) {
	if column < 0 || column >= domain.Columns {
		return -1, ErrInvalidColumn
	}
	for row := 0; row < domain.Rows; row++ {
		if b.cells[row][column] == domain.Empty {
			b.cells[row][column] = coin
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

func (b *Board) At(row, column int) domain.Coin {
	return b.cells[row][column]
}

func (b *Board) Grid() domain.Grid {
	return b.cells
}

func (b *Board) IsFull() bool {
	for r := range b.cells {
		for _, coin := range b.cells[r] {
			if coin == domain.Empty {
				return false
			}
		}
	}
	return true
}

var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// DetectWin scans the whole grid for four equal non-empty coins in a row.
func (b *Board) DetectWin() (domain.Coin, bool) {
	for r := 0; r < domain.Rows; r++ {
		for c := 0; c < domain.Columns; c++ {
			coin := b.cells[r][c]
			if coin == domain.Empty {
				continue
			}
			for _, d := range directions {
				if b.lineFrom(r, c, d[0], d[1], coin) {
					return coin, true
				}
			}
		}
	}
	return domain.Empty, false
}

func (b *Board) lineFrom(r, c, dr, dc int, coin domain.Coin) bool {
	for k := 1; k < domain.ToWin; k++ {
		rr, cc := r+k*dr, c+k*dc
		if !inBounds(rr, cc) || b.cells[rr][cc] != coin {
			return false
		}
	}
	return true
}

// WinnerThrough checks only the four lines passing through (row, column).
// Any line completed by the last drop contains that cell.
func (b *Board) WinnerThrough(row, column int) (domain.Coin, bool) {
	if !inBounds(row, column) {
		return domain.Empty, false
	}
	coin := b.cells[row][column]
	if coin == domain.Empty {
		return domain.Empty, false
	}
	for _, d := range directions {
		count := 1 + b.run(row, column, d[0], d[1], coin) + b.run(row, column, -d[0], -d[1], coin)
		if count >= domain.ToWin {
			return coin, true
		}
	}
	return domain.Empty, false
}

func (b *Board) run(r, c, dr, dc int, coin domain.Coin) int {
	n := 0
	for {
		r, c = r+dr, c+dc
		if !inBounds(r, c) || b.cells[r][c] != coin {
			return n
		}
		n++
	}
}

func inBounds(r, c int) bool {
	return r >= 0 && r < domain.Rows && c >= 0 && c < domain.Columns
}

// String encodes the board as 42 digits, row-major from the bottom row.
func (b *Board) String() string {
	out := make([]byte, 0, domain.Rows*domain.Columns)
	for r := 0; r < domain.Rows; r++ {
		for c := 0; c < domain.Columns; c++ {
			out = append(out, byte('0'+b.cells[r][c]))
		}
	}
	return string(out)
}

// ParseBoard decodes the String form and rejects floating coins.
func ParseBoard(s string) (*Board, error) {
	if len(s) != domain.Rows*domain.Columns {
		return nil, fmt.Errorf("board must have %d cells, got %d", domain.Rows*domain.Columns, len(s))
	}
	b := NewBoard()
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '2' {
			return nil, fmt.Errorf("invalid cell %q at %d", s[i], i)
		}
		b.cells[i/domain.Columns][i%domain.Columns] = domain.Coin(s[i] - '0')
	}
	for c := 0; c < domain.Columns; c++ {
		for r := 1; r < domain.Rows; r++ {
			if b.cells[r][c] != domain.Empty && b.cells[r-1][c] == domain.Empty {
				return nil, fmt.Errorf("column %d has a gap below row %d", c, r)
			}
		}
	}
	return b, nil
}

// BoardFromGrid copies g into a board without validating gravity.
func BoardFromGrid(g domain.Grid) *Board {
	return &Board{cells: g}
}
