package chess

import "fmt"

// MoveCalculator produces the pseudo-legal moves of the piece standing on
// pos. Implementations read the board only and ignore turn and check.
type MoveCalculator interface {
	Moves(board *Board, pos Position) []Move
}

type direction struct {
	dRow, dCol int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

var calculators = map[PieceType]MoveCalculator{
	King:   kingCalculator{},
	Queen:  queenCalculator{},
	Bishop: bishopCalculator{},
	Knight: knightCalculator{},
	Rook:   rookCalculator{},
	Pawn:   pawnCalculator{},
}

// CalculatorFor returns the calculator for t. It panics on NoPieceType.
func CalculatorFor(t PieceType) MoveCalculator {
	calc, ok := calculators[t]
	if !ok {
		panic(fmt.Sprintf("chess: no move calculator for piece type %d", t))
	}
	return calc
}

// pieceAt returns the piece on pos and panics unless it has type want.
func pieceAt(board *Board, pos Position, want PieceType) *Piece {
	piece := board.Piece(pos)
	if piece == nil {
		panic(fmt.Sprintf("chess: no piece at %s, cannot calculate %s moves", pos, want))
	}
	if piece.Type() != want {
		panic(fmt.Sprintf("chess: piece %s at %s is not a %s", piece, pos, want))
	}
	return piece
}

// canLand reports whether piece may finish a move on target: on the board and
// either empty or held by an enemy.
func canLand(board *Board, piece *Piece, target Position) bool {
	if target.OutOfBounds() {
		return false
	}
	occupant := board.Piece(target)
	return occupant == nil || occupant.Color() != piece.Color()
}

func slide(board *Board, pos Position, piece *Piece, dirs []direction) []Move {
	var moves []Move
	for _, dir := range dirs {
		target := pos.Offset(dir.dRow, dir.dCol)
		for !target.OutOfBounds() {
			occupant := board.Piece(target)
			if occupant == nil {
				moves = append(moves, NewMove(pos, target))
			} else {
				if occupant.Color() != piece.Color() {
					moves = append(moves, NewMove(pos, target))
				}
				break
			}
			target = target.Offset(dir.dRow, dir.dCol)
		}
	}
	return moves
}

func step(board *Board, pos Position, piece *Piece, offsets []direction) []Move {
	var moves []Move
	for _, dir := range offsets {
		target := pos.Offset(dir.dRow, dir.dCol)
		if canLand(board, piece, target) {
			moves = append(moves, NewMove(pos, target))
		}
	}
	return moves
}

type rookCalculator struct{}

func (rookCalculator) Moves(board *Board, pos Position) []Move {
	return slide(board, pos, pieceAt(board, pos, Rook), rookDirs)
}

type bishopCalculator struct{}

func (bishopCalculator) Moves(board *Board, pos Position) []Move {
	return slide(board, pos, pieceAt(board, pos, Bishop), bishopDirs)
}

// queenCalculator is the union of the rook and bishop rays.
type queenCalculator struct{}

func (queenCalculator) Moves(board *Board, pos Position) []Move {
	piece := pieceAt(board, pos, Queen)
	return append(slide(board, pos, piece, rookDirs), slide(board, pos, piece, bishopDirs)...)
}

type kingCalculator struct{}

func (kingCalculator) Moves(board *Board, pos Position) []Move {
	return step(board, pos, pieceAt(board, pos, King), kingDirs)
}

type knightCalculator struct{}

func (knightCalculator) Moves(board *Board, pos Position) []Move {
	return step(board, pos, pieceAt(board, pos, Knight), knightDirs)
}
