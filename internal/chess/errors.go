package chess

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrInvalidMove matches every *InvalidMoveError.
	ErrInvalidMove = errors.New("invalid move")

	// ErrNoPiece indicates there is no piece on the start square.
	ErrNoPiece = errors.New("no piece at start square")

	// ErrWrongTurn indicates the piece does not belong to the side to move.
	ErrWrongTurn = errors.New("piece does not belong to the side to move")

	// ErrIllegalMove indicates the move is not among the piece's legal moves.
	ErrIllegalMove = errors.New("move is not legal")

	// ErrUnsupported is returned by rules the engine does not implement.
	ErrUnsupported = errors.New("unsupported")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidPosition indicates a board the engine cannot play on.
	ErrInvalidPosition = errors.New("invalid position")
)

// InvalidMoveError is returned by Game.MakeMove when a move is rejected. The
// game is left untouched when it is returned.
type InvalidMoveError struct {
	Move Move
	Err  error
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %s: %v", e.Move, e.Err)
}

func (e *InvalidMoveError) Unwrap() error {
	return e.Err
}

func (e *InvalidMoveError) Is(target error) bool {
	return target == ErrInvalidMove
}
