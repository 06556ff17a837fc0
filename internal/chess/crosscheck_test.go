package chess

import (
	"math/rand"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// TestMoveCountsMatchDragontooth plays random games and compares the number
// of legal moves in every position with dragontoothmg. FEN output never
// carries an en passant square, so both generators ignore en passant.
func TestMoveCountsMatchDragontooth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping random playouts in short mode")
	}
	rng := rand.New(rand.NewSource(42))
	for game := 0; game < 6; game++ {
		g := NewGame()
		for ply := 0; ply < 80; ply++ {
			fen := g.FEN()
			ours := g.ValidTeamMoves(g.TeamTurn())

			board := dragontoothmg.ParseFen(fen)
			theirs := board.GenerateLegalMoves()
			if len(ours) != len(theirs) {
				t.Fatalf("game %d ply %d %s: %d legal moves, dragontoothmg has %d (%v)",
					game, ply, fen, len(ours), len(theirs), moveStrings(ours))
			}
			if len(ours) == 0 {
				break
			}
			if err := g.MakeMove(ours[rng.Intn(len(ours))]); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestCheckmateAgreesWithDragontooth(t *testing.T) {
	fens := []string{
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 0 1",
		"R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1",
		"k7/2K5/1Q6/8/8/8/8/8 b - - 0 1",
	}
	for _, fen := range fens {
		g := mustFEN(t, fen)
		board := dragontoothmg.ParseFen(fen)
		noMoves := len(board.GenerateLegalMoves()) == 0
		if got := g.IsInCheckmate(g.TeamTurn()) || g.IsInStalemate(g.TeamTurn()); got != noMoves {
			t.Errorf("%s: game over = %v; dragontoothmg has no moves = %v", fen, got, noMoves)
		}
		if got := g.IsInCheck(g.TeamTurn()); got != board.OurKingInCheck() {
			t.Errorf("%s: IsInCheck = %v; dragontoothmg = %v", fen, got, board.OurKingInCheck())
		}
	}
}
