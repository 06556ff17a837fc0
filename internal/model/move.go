package model

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
)

// WSMove is a move as sent by clients, with algebraic squares.
type WSMove struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// ToMove converts the client move into an engine move.
func (m WSMove) ToMove() (chess.Move, error) {
	from, err := chess.ParsePosition(m.From)
	if err != nil {
		return chess.Move{}, err
	}
	to, err := chess.ParsePosition(m.To)
	if err != nil {
		return chess.Move{}, err
	}
	promotion, err := chess.ParsePieceType(m.Promotion)
	if err != nil {
		return chess.Move{}, err
	}
	return chess.NewPromotionMove(from, to, promotion), nil
}

type CastleRookMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Ply is one half-move in a session's history.
type Ply struct {
	Color          PlayerColor     `json:"color"`
	Piece          string          `json:"piece"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	CapturedPiece  string          `json:"capturedPiece,omitempty"`
	CastleRookMove *CastleRookMove `json:"castleRookMove,omitempty"`
	Promotion      string          `json:"promotion,omitempty"`
	Notation       string          `json:"notation"`
}

// makePly describes move before it is played on game.
func makePly(game *chess.Game, move chess.Move) Ply {
	board := game.Board()
	piece := board.Piece(move.Start)
	ply := Ply{
		Color:    playerColorOf(piece.Color()),
		Piece:    piece.Type().String(),
		From:     move.Start.String(),
		To:       move.End.String(),
		Notation: getNotation(board, move),
	}
	if captured := board.Piece(move.End); captured != nil {
		ply.CapturedPiece = captured.Type().String()
	}
	if move.Promotion != chess.NoPieceType {
		ply.Promotion = move.Promotion.String()
	}
	if piece.Type() == chess.King && abs(move.End.Col-move.Start.Col) == 2 {
		rookFrom, rookTo := chess.NewPosition(move.Start.Row, 8), chess.NewPosition(move.Start.Row, 6)
		ply.Notation = "O-O"
		if move.End.Col < move.Start.Col {
			rookFrom, rookTo = chess.NewPosition(move.Start.Row, 1), chess.NewPosition(move.Start.Row, 4)
			ply.Notation = "O-O-O"
		}
		ply.CastleRookMove = &CastleRookMove{From: rookFrom.String(), To: rookTo.String()}
	}
	return ply
}

// getNotation renders a short algebraic form of move without disambiguation.
func getNotation(board *chess.Board, move chess.Move) string {
	piece := board.Piece(move.Start)
	var sb strings.Builder
	if piece.Type() != chess.Pawn {
		sb.WriteByte(piece.Type().Letter())
	}
	if board.Piece(move.End) != nil {
		if piece.Type() == chess.Pawn {
			sb.WriteByte(move.Start.String()[0])
		}
		sb.WriteByte('x')
	}
	sb.WriteString(move.End.String())
	if move.Promotion != chess.NoPieceType {
		fmt.Fprintf(&sb, "=%c", move.Promotion.Letter())
	}
	return sb.String()
}

// checkSuffix is appended to a ply's notation once the move has been played.
func checkSuffix(status chess.Status) string {
	switch status {
	case chess.Checkmate:
		return "#"
	case chess.Check:
		return "+"
	}
	return ""
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
