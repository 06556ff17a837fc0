// Package chess is the rules engine: board model, move generation, legality
// filtering, check detection and castling. It does no I/O and keeps no
// goroutines; callers sharing a Game across goroutines must serialize access.
package chess

import (
	"fmt"
	"strings"
)

const BoardSize = 8

// Position is a square on the board. Rows and columns are 1-based and row 1
// is White's back rank.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewPosition(row, col int) Position {
	return Position{Row: row, Col: col}
}

// OutOfBounds reports whether either coordinate falls outside [1,8].
func (p Position) OutOfBounds() bool {
	return p.Row < 1 || p.Row > BoardSize || p.Col < 1 || p.Col > BoardSize
}

// Offset returns the position shifted by the given deltas. The result may be
// out of bounds.
func (p Position) Offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// String renders the square in algebraic form (e2).
func (p Position) String() string {
	if p.OutOfBounds() {
		return fmt.Sprintf("[%d, %d]", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col-1, p.Row)
}

// ParsePosition parses an algebraic square such as "e2".
func ParsePosition(s string) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	p := Position{Row: int(s[1]-'1') + 1, Col: int(s[0]-'a') + 1}
	if p.OutOfBounds() {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return p, nil
}

var allPositions = func() []Position {
	positions := make([]Position, 0, BoardSize*BoardSize)
	for row := 1; row <= BoardSize; row++ {
		for col := 1; col <= BoardSize; col++ {
			positions = append(positions, Position{Row: row, Col: col})
		}
	}
	return positions
}()

// Positions returns all 64 squares in row-major order, row 1 first.
func Positions() []Position {
	out := make([]Position, len(allPositions))
	copy(out, allPositions)
	return out
}
