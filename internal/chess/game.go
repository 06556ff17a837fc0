package chess

import "fmt"

// Game owns a board and the side to move. It is not safe for concurrent use.
type Game struct {
	board    *Board
	teamTurn Color
}

// NewGame returns a game in the standard starting position with White to move.
func NewGame() *Game {
	return &Game{board: NewStartingBoard(), teamTurn: White}
}

func (g *Game) TeamTurn() Color { return g.teamTurn }

func (g *Game) SetTeamTurn(c Color) { g.teamTurn = c }

// Board returns the live board. Mutating it directly bypasses every rule.
func (g *Game) Board() *Board { return g.board }

// SetBoard replaces the whole board without any legality checks. It exists
// for setup and tests; the caller is responsible for leaving exactly one king
// of each color on the board.
func (g *Game) SetBoard(b *Board) { g.board = b }

// Clone returns a deep copy of the game.
func (g *Game) Clone() *Game {
	return &Game{board: g.board.Clone(), teamTurn: g.teamTurn}
}

// ValidMoves returns the legal moves of the piece on pos: its pseudo-legal
// moves that do not leave its own king in check, plus any castling move. It
// panics if pos is empty.
func (g *Game) ValidMoves(pos Position) []Move {
	piece := g.board.Piece(pos)
	if piece == nil {
		panic(fmt.Sprintf("chess: ValidMoves called on empty square %s", pos))
	}

	var valid []Move
	for _, m := range piece.PieceMoves(g.board, pos) {
		if !g.leavesKingInCheck(piece, m) {
			valid = append(valid, m)
		}
	}

	if piece.Type() == King && pos == kingHome(piece.Color()) {
		for _, side := range []CastleSide{Queenside, Kingside} {
			if g.CanCastle(piece.Color(), side) {
				valid = append(valid, castleMove(piece.Color(), side))
			}
		}
	}
	return valid
}

// leavesKingInCheck plays m on the board, tests the mover's king and puts
// both touched squares back exactly as they were.
func (g *Game) leavesKingInCheck(piece *Piece, m Move) bool {
	captured := g.board.Piece(m.End)
	g.board.AddPiece(m.Start, nil)
	g.board.AddPiece(m.End, piece)
	defer func() {
		g.board.AddPiece(m.Start, piece)
		g.board.AddPiece(m.End, captured)
	}()
	return g.IsInCheck(piece.Color())
}

// MakeMove plays m for the side to move. A rejected move returns an
// *InvalidMoveError and leaves the game unchanged.
func (g *Game) MakeMove(m Move) error {
	if m.Start.OutOfBounds() {
		return &InvalidMoveError{Move: m, Err: ErrNoPiece}
	}
	if m.End.OutOfBounds() {
		return &InvalidMoveError{Move: m, Err: ErrIllegalMove}
	}
	piece := g.board.Piece(m.Start)
	if piece == nil {
		return &InvalidMoveError{Move: m, Err: ErrNoPiece}
	}
	if piece.Color() != g.teamTurn {
		return &InvalidMoveError{Move: m, Err: fmt.Errorf("%w: %s to move", ErrWrongTurn, g.teamTurn)}
	}
	if !containsMove(g.ValidMoves(m.Start), m) {
		return &InvalidMoveError{Move: m, Err: ErrIllegalMove}
	}

	if side, ok := castleSideOf(piece, m); ok {
		g.castle(piece.Color(), side)
		return nil
	}

	if m.Promotion != NoPieceType {
		promoted := NewPiece(piece.Color(), m.Promotion)
		promoted.SetMoved()
		g.board.AddPiece(m.End, promoted)
	} else {
		g.board.AddPiece(m.End, piece)
		piece.SetMoved()
	}
	g.board.AddPiece(m.Start, nil)
	g.teamTurn = g.teamTurn.Opponent()
	return nil
}

// PiecePositions returns the squares holding pieces of the given type and
// color in row-major order.
func (g *Game) PiecePositions(t PieceType, c Color) []Position {
	var out []Position
	for _, sq := range g.board.Squares() {
		if sq.Piece.Type() == t && sq.Piece.Color() == c {
			out = append(out, sq.Position)
		}
	}
	return out
}

// KingPosition returns the square of c's king and panics if there is none.
func (g *Game) KingPosition(c Color) Position {
	kings := g.PiecePositions(King, c)
	if len(kings) == 0 {
		panic(fmt.Sprintf("chess: no %s king on the board", c))
	}
	return kings[0]
}

// TeamAttacks returns every pseudo-legal move of every piece of color c.
func (g *Game) TeamAttacks(c Color) []Move {
	var moves []Move
	for _, sq := range g.board.Squares() {
		if sq.Piece.Color() == c {
			moves = append(moves, sq.Piece.PieceMoves(g.board, sq.Position)...)
		}
	}
	return moves
}

// ValidTeamMoves returns the legal moves of every piece of color c.
func (g *Game) ValidTeamMoves(c Color) []Move {
	var moves []Move
	for _, pos := range allPositions {
		if piece := g.board.Piece(pos); piece != nil && piece.Color() == c {
			moves = append(moves, g.ValidMoves(pos)...)
		}
	}
	return moves
}

// IsInCheck reports whether any pseudo-legal move of c's opponent ends on
// c's king.
func (g *Game) IsInCheck(c Color) bool {
	king := g.KingPosition(c)
	for _, attack := range g.TeamAttacks(c.Opponent()) {
		if attack.End == king {
			return true
		}
	}
	return false
}

func (g *Game) IsInCheckmate(c Color) bool {
	return g.IsInCheck(c) && len(g.ValidTeamMoves(c)) == 0
}

func (g *Game) IsInStalemate(c Color) bool {
	return !g.IsInCheck(c) && len(g.ValidTeamMoves(c)) == 0
}

// EnPassantMoves is not implemented and always returns ErrUnsupported.
func (g *Game) EnPassantMoves(pos Position) ([]Move, error) {
	return nil, fmt.Errorf("en passant from %s: %w", pos, ErrUnsupported)
}

// attackedSquares returns the squares controlled by color c. Unlike
// TeamAttacks it counts pawn diagonals whether or not they hold a piece and
// leaves out pawn pushes.
func (g *Game) attackedSquares(c Color) map[Position]bool {
	attacked := make(map[Position]bool)
	for _, sq := range g.board.Squares() {
		if sq.Piece.Color() != c {
			continue
		}
		if sq.Piece.Type() == Pawn {
			for _, target := range pawnAttacks(sq.Position, c) {
				attacked[target] = true
			}
			continue
		}
		for _, m := range sq.Piece.PieceMoves(g.board, sq.Position) {
			attacked[m.End] = true
		}
	}
	return attacked
}

// Status summarises the position for the side to move.
type Status int

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

var statusNames = [...]string{"ongoing", "check", "checkmate", "stalemate"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status reports check, checkmate or stalemate for the side to move.
func (g *Game) Status() Status {
	inCheck := g.IsInCheck(g.teamTurn)
	noMoves := len(g.ValidTeamMoves(g.teamTurn)) == 0
	switch {
	case inCheck && noMoves:
		return Checkmate
	case noMoves:
		return Stalemate
	case inCheck:
		return Check
	}
	return Ongoing
}
