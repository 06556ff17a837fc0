package chess

import (
	"fmt"
	"strings"
)

// Board is an 8x8 grid of optional pieces addressed by Position.
type Board struct {
	squares [BoardSize][BoardSize]*Piece
}

// Square pairs an occupied position with its piece.
type Square struct {
	Position Position `json:"position"`
	Piece    *Piece   `json:"piece"`
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// NewStartingBoard returns a board set up for a new game.
func NewStartingBoard() *Board {
	b := NewBoard()
	b.Reset()
	return b
}

func mustBeOnBoard(pos Position) {
	if pos.OutOfBounds() {
		panic(fmt.Sprintf("chess: position %s is off the board", pos))
	}
}

// AddPiece places piece on pos, replacing any occupant. A nil piece clears
// the square.
func (b *Board) AddPiece(pos Position, piece *Piece) {
	mustBeOnBoard(pos)
	b.squares[pos.Row-1][pos.Col-1] = piece
}

// Piece returns the piece on pos or nil.
func (b *Board) Piece(pos Position) *Piece {
	mustBeOnBoard(pos)
	return b.squares[pos.Row-1][pos.Col-1]
}

// RemovePiece clears pos and returns the piece that stood there.
func (b *Board) RemovePiece(pos Position) *Piece {
	piece := b.Piece(pos)
	b.AddPiece(pos, nil)
	return piece
}

// IsEmpty reports whether pos is on the board and unoccupied.
func (b *Board) IsEmpty(pos Position) bool {
	if pos.OutOfBounds() {
		return false
	}
	return b.squares[pos.Row-1][pos.Col-1] == nil
}

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Reset puts fresh pieces on their starting squares.
func (b *Board) Reset() {
	b.squares = [BoardSize][BoardSize]*Piece{}
	for col := 1; col <= BoardSize; col++ {
		b.AddPiece(NewPosition(1, col), NewPiece(White, backRank[col-1]))
		b.AddPiece(NewPosition(2, col), NewPiece(White, Pawn))
		b.AddPiece(NewPosition(7, col), NewPiece(Black, Pawn))
		b.AddPiece(NewPosition(8, col), NewPiece(Black, backRank[col-1]))
	}
}

// Clone returns an independent deep copy. Every piece is duplicated with its
// moved flag.
func (b *Board) Clone() *Board {
	c := NewBoard()
	for row := range b.squares {
		for col, piece := range b.squares[row] {
			if piece != nil {
				c.squares[row][col] = piece.clone()
			}
		}
	}
	return c
}

// Squares returns every occupied square in row-major order.
func (b *Board) Squares() []Square {
	var out []Square
	for _, pos := range allPositions {
		if piece := b.Piece(pos); piece != nil {
			out = append(out, Square{Position: pos, Piece: piece})
		}
	}
	return out
}

// Validate checks the invariant the rules rely on: exactly one king of each
// color.
func (b *Board) Validate() error {
	kings := make(map[Color]int)
	for _, sq := range b.Squares() {
		if sq.Piece.Type() == King {
			kings[sq.Piece.Color()]++
		}
	}
	for _, c := range []Color{White, Black} {
		if kings[c] != 1 {
			return fmt.Errorf("%d %s kings: %w", kings[c], c, ErrInvalidPosition)
		}
	}
	return nil
}

// Equal compares piece placement. Moved flags are ignored.
func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	for row := range b.squares {
		for col := range b.squares[row] {
			if !b.squares[row][col].Equal(other.squares[row][col]) {
				return false
			}
		}
	}
	return true
}

// String renders ranks 8 down to 1, one line per rank, cells delimited by
// '|'. White pieces are upper case and empty cells are a space.
func (b *Board) String() string {
	var sb strings.Builder
	for row := BoardSize; row >= 1; row-- {
		for col := 1; col <= BoardSize; col++ {
			sb.WriteByte('|')
			if piece := b.Piece(NewPosition(row, col)); piece != nil {
				sb.WriteString(piece.String())
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
