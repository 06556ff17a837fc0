package model

import (
	"github.com/benbeisheim/chessrules-backend/internal/chess"
)

type Player struct {
	ID string
}

// ClientPlayer is a seat as reported to clients. An empty ID means the seat
// is free.
type ClientPlayer struct {
	ID    string      `json:"name"`
	Color PlayerColor `json:"color"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

// TeamColor converts the seat color to the engine's color.
func (c PlayerColor) TeamColor() chess.Color {
	if c == PlayerColorBlack {
		return chess.Black
	}
	return chess.White
}

func playerColorOf(c chess.Color) PlayerColor {
	if c == chess.Black {
		return PlayerColorBlack
	}
	return PlayerColorWhite
}
