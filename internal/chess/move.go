package chess

import (
	"fmt"
	"strings"
)

// Move is a start and end square plus the promotion piece, which is set only
// for pawn moves onto the last rank.
type Move struct {
	Start     Position  `json:"start"`
	End       Position  `json:"end"`
	Promotion PieceType `json:"promotion,omitempty"`
}

func NewMove(start, end Position) Move {
	return Move{Start: start, End: end}
}

func NewPromotionMove(start, end Position, promotion PieceType) Move {
	return Move{Start: start, End: end, Promotion: promotion}
}

// String renders coordinate notation, e.g. e2e4 or e7e8q.
func (m Move) String() string {
	s := m.Start.String() + m.End.String()
	if m.Promotion != NoPieceType {
		s += strings.ToLower(string(m.Promotion.Letter()))
	}
	return s
}

// ParseMove parses coordinate notation as produced by Move.String.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}
	start, err := ParsePosition(s[0:2])
	if err != nil {
		return Move{}, err
	}
	end, err := ParsePosition(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := NewMove(start, end)
	if len(s) == 5 {
		if m.Promotion, err = ParsePieceType(s[4:]); err != nil {
			return Move{}, err
		}
	}
	return m, nil
}

func containsMove(moves []Move, m Move) bool {
	for _, candidate := range moves {
		if candidate == m {
			return true
		}
	}
	return false
}
