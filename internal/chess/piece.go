package chess

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Color int

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// homeRow is the back rank of the given color.
func homeRow(c Color) int {
	if c == White {
		return 1
	}
	return BoardSize
}

// PieceType identifies a kind of piece. The zero value NoPieceType marks a
// move without promotion.
type PieceType int

const (
	NoPieceType PieceType = iota
	King
	Queen
	Bishop
	Knight
	Rook
	Pawn
)

// PromotionTypes lists the pieces a pawn may promote to, in generation order.
var PromotionTypes = [...]PieceType{Queen, Rook, Bishop, Knight}

var pieceTypeNames = map[PieceType]string{
	King:   "king",
	Queen:  "queen",
	Bishop: "bishop",
	Knight: "knight",
	Rook:   "rook",
	Pawn:   "pawn",
}

func (t PieceType) String() string {
	if name, ok := pieceTypeNames[t]; ok {
		return name
	}
	return ""
}

// Letter returns the upper-case letter used in board renderings and FEN.
func (t PieceType) Letter() byte {
	switch t {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Rook:
		return 'R'
	case Pawn:
		return 'P'
	}
	return ' '
}

// ParsePieceType accepts either a full name ("queen") or a letter ("q").
func ParsePieceType(s string) (PieceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return NoPieceType, nil
	}
	for t, name := range pieceTypeNames {
		if s == name || (len(s) == 1 && s[0] == t.Letter()+('a'-'A')) {
			return t, nil
		}
	}
	return NoPieceType, fmt.Errorf("unknown piece type %q", s)
}

func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PieceType) UnmarshalText(text []byte) error {
	parsed, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Piece is a piece on the board. Type and color never change; the moved flag
// is set once the piece completes a move and only matters for castling.
type Piece struct {
	pieceType PieceType
	color     Color
	moved     bool
}

func NewPiece(color Color, t PieceType) *Piece {
	return &Piece{pieceType: t, color: color}
}

func (p *Piece) Type() PieceType { return p.pieceType }
func (p *Piece) Color() Color    { return p.color }
func (p *Piece) HasMoved() bool  { return p.moved }
func (p *Piece) SetMoved()       { p.moved = true }

// Equal compares type and color. The moved flag is not part of identity.
func (p *Piece) Equal(other *Piece) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.pieceType == other.pieceType && p.color == other.color
}

func (p *Piece) clone() *Piece {
	c := *p
	return &c
}

// PieceMoves returns the pseudo-legal moves of this piece standing on pos.
func (p *Piece) PieceMoves(board *Board, pos Position) []Move {
	return CalculatorFor(p.pieceType).Moves(board, pos)
}

func (p *Piece) String() string {
	letter := p.pieceType.Letter()
	if p.color == Black {
		letter += 'a' - 'A'
	}
	return string(letter)
}

type pieceJSON struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func (p *Piece) MarshalJSON() ([]byte, error) {
	return json.Marshal(pieceJSON{Type: p.pieceType, Color: p.color, HasMoved: p.moved})
}
