package chess

type pawnCalculator struct{}

// pawnDirection returns the row delta of a pawn advance and the row pawns of
// that color start on.
func pawnDirection(c Color) (dir, startRow int) {
	if c == White {
		return 1, 2
	}
	return -1, 7
}

func (pawnCalculator) Moves(board *Board, pos Position) []Move {
	piece := pieceAt(board, pos, Pawn)
	dir, startRow := pawnDirection(piece.Color())

	var moves []Move
	forwardOne := pos.Offset(dir, 0)
	if board.IsEmpty(forwardOne) {
		moves = appendPawnMove(moves, pos, forwardOne)
		forwardTwo := pos.Offset(2*dir, 0)
		if pos.Row == startRow && board.IsEmpty(forwardTwo) {
			moves = appendPawnMove(moves, pos, forwardTwo)
		}
	}

	// Captures need an enemy on the target square. En passant is not supported.
	for _, dCol := range []int{-1, 1} {
		target := pos.Offset(dir, dCol)
		if target.OutOfBounds() {
			continue
		}
		if occupant := board.Piece(target); occupant != nil && occupant.Color() != piece.Color() {
			moves = appendPawnMove(moves, pos, target)
		}
	}
	return moves
}

// appendPawnMove adds start->end, expanded into one move per promotion piece
// when end is on the first or last rank.
func appendPawnMove(moves []Move, start, end Position) []Move {
	if end.Row != 1 && end.Row != BoardSize {
		return append(moves, NewMove(start, end))
	}
	for _, t := range PromotionTypes {
		moves = append(moves, NewPromotionMove(start, end, t))
	}
	return moves
}

// pawnAttacks returns the squares a pawn on pos controls, occupied or not.
func pawnAttacks(pos Position, c Color) []Position {
	dir, _ := pawnDirection(c)
	var out []Position
	for _, dCol := range []int{-1, 1} {
		if target := pos.Offset(dir, dCol); !target.OutOfBounds() {
			out = append(out, target)
		}
	}
	return out
}
