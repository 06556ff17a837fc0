package chess

import (
	"fmt"
	"strings"
	"unicode"
)

// StartingFEN is the standard starting position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a game from a FEN string. Only placement is required; a
// missing side to move means White and missing castling rights mean none.
// Kings and rooks without castling rights, and pawns off their start rank,
// are marked as moved. A position with an en passant target is rejected with
// ErrUnsupported.
func ParseFEN(fen string) (*Game, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 {
		return nil, fmt.Errorf("empty FEN string: %w", ErrInvalidFEN)
	}

	board := NewBoard()
	if err := parsePlacement(board, parts[0]); err != nil {
		return nil, err
	}

	g := &Game{board: board, teamTurn: White}
	if len(parts) >= 2 {
		switch parts[1] {
		case "w":
			g.teamTurn = White
		case "b":
			g.teamTurn = Black
		default:
			return nil, fmt.Errorf("invalid side to move %q: %w", parts[1], ErrInvalidFEN)
		}
	}

	rights := "-"
	if len(parts) >= 3 {
		rights = parts[2]
	}
	if err := applyCastlingRights(board, rights); err != nil {
		return nil, err
	}

	if len(parts) >= 4 && parts[3] != "-" {
		return nil, fmt.Errorf("en passant target %s: %w", parts[3], ErrUnsupported)
	}
	return g, nil
}

func parsePlacement(board *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != BoardSize {
		return fmt.Errorf("expected %d ranks, got %d: %w", BoardSize, len(ranks), ErrInvalidFEN)
	}
	for i, rank := range ranks {
		row := BoardSize - i
		col := 1
		for _, c := range rank {
			switch {
			case c >= '1' && c <= '8':
				col += int(c - '0')
			default:
				t, err := ParsePieceType(string(c))
				if err != nil || t == NoPieceType {
					return fmt.Errorf("invalid piece character %q: %w", c, ErrInvalidFEN)
				}
				pos := NewPosition(row, col)
				if pos.OutOfBounds() {
					return fmt.Errorf("rank %d overflows: %w", row, ErrInvalidFEN)
				}
				color := White
				if unicode.IsLower(c) {
					color = Black
				}
				board.AddPiece(pos, NewPiece(color, t))
				col++
			}
		}
		if col != BoardSize+1 {
			return fmt.Errorf("rank %d has %d files: %w", row, col-1, ErrInvalidFEN)
		}
	}
	return nil
}

// castlingLetters maps FEN castling letters to color and side.
var castlingLetters = map[rune]struct {
	color Color
	side  CastleSide
}{
	'K': {White, Kingside},
	'Q': {White, Queenside},
	'k': {Black, Kingside},
	'q': {Black, Queenside},
}

func applyCastlingRights(board *Board, rights string) error {
	allowed := make(map[Color]map[CastleSide]bool)
	if rights != "-" {
		for _, c := range rights {
			r, ok := castlingLetters[c]
			if !ok {
				return fmt.Errorf("invalid castling rights %q: %w", rights, ErrInvalidFEN)
			}
			if allowed[r.color] == nil {
				allowed[r.color] = make(map[CastleSide]bool)
			}
			allowed[r.color][r.side] = true
		}
	}

	for _, sq := range board.Squares() {
		piece, pos := sq.Piece, sq.Position
		switch piece.Type() {
		case Pawn:
			if _, startRow := pawnDirection(piece.Color()); pos.Row != startRow {
				piece.SetMoved()
			}
		case King:
			if pos != kingHome(piece.Color()) || len(allowed[piece.Color()]) == 0 {
				piece.SetMoved()
			}
		case Rook:
			c := piece.Color()
			if !(pos == rookHome(c, Kingside) && allowed[c][Kingside]) &&
				!(pos == rookHome(c, Queenside) && allowed[c][Queenside]) {
				piece.SetMoved()
			}
		}
	}
	return nil
}

// FEN renders the game as a FEN string. Castling rights are derived from
// unmoved kings and rooks on their home squares; en passant is always "-".
func (g *Game) FEN() string {
	var sb strings.Builder
	for row := BoardSize; row >= 1; row-- {
		empty := 0
		for col := 1; col <= BoardSize; col++ {
			piece := g.board.Piece(NewPosition(row, col))
			if piece == nil {
				empty++
				continue
			}
			if empty > 0 {
				fmt.Fprintf(&sb, "%d", empty)
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			fmt.Fprintf(&sb, "%d", empty)
		}
		if row > 1 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if g.teamTurn == Black {
		side = "b"
	}

	var rights strings.Builder
	for _, letter := range "KQkq" {
		r := castlingLetters[letter]
		if g.hasCastlingRight(r.color, r.side) {
			rights.WriteRune(letter)
		}
	}
	if rights.Len() == 0 {
		rights.WriteByte('-')
	}
	return fmt.Sprintf("%s %s %s - 0 1", sb.String(), side, rights.String())
}

func (g *Game) hasCastlingRight(c Color, side CastleSide) bool {
	king := g.board.Piece(kingHome(c))
	rook := g.board.Piece(rookHome(c, side))
	return king != nil && king.Type() == King && king.Color() == c && !king.HasMoved() &&
		rook != nil && rook.Type() == Rook && rook.Color() == c && !rook.HasMoved()
}
