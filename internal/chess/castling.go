package chess

type CastleSide int

const (
	Kingside CastleSide = iota
	Queenside
)

func (s CastleSide) String() string {
	if s == Kingside {
		return "kingside"
	}
	return "queenside"
}

const kingHomeCol = 5

func kingHome(c Color) Position {
	return NewPosition(homeRow(c), kingHomeCol)
}

func rookHome(c Color, side CastleSide) Position {
	if side == Kingside {
		return NewPosition(homeRow(c), BoardSize)
	}
	return NewPosition(homeRow(c), 1)
}

// towardRook is the column step from the king toward the castling rook.
func towardRook(side CastleSide) int {
	if side == Kingside {
		return 1
	}
	return -1
}

// castleMove is the king move that requests castling on side.
func castleMove(c Color, side CastleSide) Move {
	home := kingHome(c)
	return NewMove(home, home.Offset(0, 2*towardRook(side)))
}

// castleSideOf reports whether m, made by piece, is a castling move.
func castleSideOf(piece *Piece, m Move) (CastleSide, bool) {
	if piece.Type() != King || m.Start.Row != m.End.Row {
		return 0, false
	}
	switch m.End.Col - m.Start.Col {
	case 2:
		return Kingside, true
	case -2:
		return Queenside, true
	}
	return 0, false
}

// CanCastle reports whether c may castle on side right now: king and rook on
// their home squares and unmoved, the king not in check, nothing between
// them, and neither the king's square nor the two squares it crosses
// attacked.
func (g *Game) CanCastle(c Color, side CastleSide) bool {
	kingPos, rookPos := kingHome(c), rookHome(c, side)

	king := g.board.Piece(kingPos)
	if king == nil || king.Type() != King || king.Color() != c || king.HasMoved() {
		return false
	}
	rook := g.board.Piece(rookPos)
	if rook == nil || rook.Type() != Rook || rook.Color() != c || rook.HasMoved() {
		return false
	}
	if g.IsInCheck(c) {
		return false
	}

	step := towardRook(side)
	for pos := kingPos.Offset(0, step); pos != rookPos; pos = pos.Offset(0, step) {
		if !g.board.IsEmpty(pos) {
			return false
		}
	}

	attacked := g.attackedSquares(c.Opponent())
	for i := 0; i <= 2; i++ {
		if attacked[kingPos.Offset(0, i*step)] {
			return false
		}
	}
	return true
}

// castle moves king and rook together and passes the turn. Eligibility must
// already have been checked.
func (g *Game) castle(c Color, side CastleSide) {
	kingPos, rookPos := kingHome(c), rookHome(c, side)
	step := towardRook(side)

	king := g.board.RemovePiece(kingPos)
	rook := g.board.RemovePiece(rookPos)
	g.board.AddPiece(kingPos.Offset(0, 2*step), king)
	g.board.AddPiece(kingPos.Offset(0, step), rook)
	king.SetMoved()
	rook.SetMoved()

	g.teamTurn = c.Opponent()
}
