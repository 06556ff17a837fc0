package chess

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustMove(t *testing.T, g *Game, notation string) {
	t.Helper()
	m, err := ParseMove(notation)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.MakeMove(m); err != nil {
		t.Fatalf("MakeMove(%s) error: %v", notation, err)
	}
}

// snapshot captures placement, moved flags and turn so that any mutation
// shows up in a diff.
func snapshot(g *Game) []string {
	out := []string{g.TeamTurn().String()}
	for _, sq := range g.Board().Squares() {
		out = append(out, fmt.Sprintf("%s:%s:%v", sq.Position, sq.Piece, sq.Piece.HasMoved()))
	}
	return out
}

func TestNewGame(t *testing.T) {
	g := NewGame()
	if g.TeamTurn() != White {
		t.Errorf("TeamTurn() = %v; want white", g.TeamTurn())
	}
	for _, c := range []Color{White, Black} {
		if g.IsInCheck(c) || g.IsInCheckmate(c) || g.IsInStalemate(c) {
			t.Errorf("%v starts in check, checkmate or stalemate", c)
		}
		if got := len(g.ValidTeamMoves(c)); got != 20 {
			t.Errorf("len(ValidTeamMoves(%v)) = %d; want 20", c, got)
		}
	}
	if g.Status() != Ongoing {
		t.Errorf("Status() = %v; want ongoing", g.Status())
	}
	if g.FEN() != StartingFEN {
		t.Errorf("FEN() = %q; want %q", g.FEN(), StartingFEN)
	}
}

func TestFoolsMate(t *testing.T) {
	g := NewGame()
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		mustMove(t, g, m)
	}
	if !g.IsInCheck(White) {
		t.Error("IsInCheck(white) = false; want true")
	}
	if !g.IsInCheckmate(White) {
		t.Error("IsInCheckmate(white) = false; want true")
	}
	if g.IsInStalemate(White) {
		t.Error("IsInStalemate(white) = true; want false")
	}
	if g.IsInCheckmate(Black) {
		t.Error("IsInCheckmate(black) = true; want false")
	}
	if g.Status() != Checkmate {
		t.Errorf("Status() = %v; want checkmate", g.Status())
	}
}

func TestCheckmateFromPosition(t *testing.T) {
	// Back rank mate: white rook on a8, black king boxed in by its own pawns.
	g := mustFEN(t, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	if !g.IsInCheckmate(Black) {
		t.Error("IsInCheckmate(black) = false; want true")
	}
}

func TestStalemate(t *testing.T) {
	g := mustFEN(t, "k7/2K5/1Q6/8/8/8/8/8 b - - 0 1")
	if !g.IsInStalemate(Black) {
		t.Error("IsInStalemate(black) = false; want true")
	}
	if g.IsInCheckmate(Black) {
		t.Error("IsInCheckmate(black) = true; want false")
	}
	if g.IsInStalemate(White) {
		t.Error("IsInStalemate(white) = true; want false")
	}
	if g.Status() != Stalemate {
		t.Errorf("Status() = %v; want stalemate", g.Status())
	}
}

func TestPinnedPieceHasNoMoves(t *testing.T) {
	g := mustFEN(t, "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
	if got := g.ValidMoves(pos(t, "e2")); len(got) != 0 {
		t.Errorf("pinned bishop has moves %v", moveStrings(got))
	}
}

func TestCheckMustBeAnswered(t *testing.T) {
	// The rook on e8 checks the king; only blocks, captures and king moves remain.
	g := mustFEN(t, "k3r3/8/8/8/8/8/3P4/1N2K3 w - - 0 1")
	want := []string{"e1d1", "e1f1", "e1f2"}
	if diff := cmp.Diff(want, moveStrings(g.ValidTeamMoves(White))); diff != "" {
		t.Errorf("answers to check mismatch (-want +got):\n%s", diff)
	}
}

func TestValidMovesNeverLeaveKingInCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 3; game++ {
		g := NewGame()
		for ply := 0; ply < 60; ply++ {
			moves := g.ValidTeamMoves(g.TeamTurn())
			if len(moves) == 0 {
				break
			}
			for _, m := range moves {
				trial := g.Clone()
				if err := trial.MakeMove(m); err != nil {
					t.Fatalf("MakeMove(%s) rejected a valid move: %v", m, err)
				}
				if trial.IsInCheck(g.TeamTurn()) {
					t.Fatalf("%s leaves %v in check in %s", m, g.TeamTurn(), g.FEN())
				}
			}
			mover := g.TeamTurn()
			if err := g.MakeMove(moves[rng.Intn(len(moves))]); err != nil {
				t.Fatal(err)
			}
			if g.TeamTurn() != mover.Opponent() {
				t.Fatalf("turn did not flip after %v moved", mover)
			}
		}
	}
}

func TestValidMovesLeavesBoardUntouched(t *testing.T) {
	g := mustFEN(t, "r3k2r/pppq1ppp/2n5/3pp3/1b1PP3/2N5/PPPQ1PPP/R3K2R w KQkq - 0 1")
	before := snapshot(g)
	g.ValidTeamMoves(White)
	g.ValidTeamMoves(Black)
	if diff := cmp.Diff(before, snapshot(g)); diff != "" {
		t.Errorf("legality checks mutated the game (-before +after):\n%s", diff)
	}
}

func TestMakeMoveRejections(t *testing.T) {
	tests := []struct {
		name    string
		move    string
		wantErr error
	}{
		{"empty start square", "e4e5", ErrNoPiece},
		{"opponent piece", "e7e5", ErrWrongTurn},
		{"pawn jumps three", "e2e5", ErrIllegalMove},
		{"knight moves like a bishop", "g1e3", ErrIllegalMove},
		{"promotion without reaching last rank", "e2e4q", ErrIllegalMove},
		{"castling through pieces", "e1g1", ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGame()
			before := snapshot(g)
			m, err := ParseMove(tt.move)
			if err != nil {
				t.Fatal(err)
			}

			err = g.MakeMove(m)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("MakeMove(%s) = %v; want %v", tt.move, err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidMove) {
				t.Errorf("error %v does not match ErrInvalidMove", err)
			}
			var moveErr *InvalidMoveError
			if !errors.As(err, &moveErr) || moveErr.Move != m {
				t.Errorf("error %v is not an *InvalidMoveError for %s", err, m)
			}
			if diff := cmp.Diff(before, snapshot(g)); diff != "" {
				t.Errorf("rejected move mutated the game (-before +after):\n%s", diff)
			}
		})
	}
}

func TestMakeMoveOffBoard(t *testing.T) {
	g := NewGame()
	err := g.MakeMove(NewMove(NewPosition(2, 5), NewPosition(9, 5)))
	if !errors.Is(err, ErrIllegalMove) {
		t.Errorf("MakeMove(off board) = %v; want ErrIllegalMove", err)
	}
}

func TestMakeMoveRelocatesAndMarksMoved(t *testing.T) {
	g := NewGame()
	mustMove(t, g, "g1f3")

	f3 := pos(t, "f3")
	knight := g.Board().Piece(f3)
	if !knight.Equal(NewPiece(White, Knight)) || !knight.HasMoved() {
		t.Errorf("f3 = %v moved=%v; want moved white knight", knight, knight.HasMoved())
	}
	if !g.Board().IsEmpty(pos(t, "g1")) {
		t.Error("g1 still occupied after move")
	}
	if g.TeamTurn() != Black {
		t.Errorf("TeamTurn() = %v; want black", g.TeamTurn())
	}
}

func TestPromotionCreatesMovedPiece(t *testing.T) {
	g := mustFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	pawn := g.Board().Piece(pos(t, "a7"))
	mustMove(t, g, "a7a8q")

	queen := g.Board().Piece(pos(t, "a8"))
	if !queen.Equal(NewPiece(White, Queen)) {
		t.Fatalf("a8 = %v; want white queen", queen)
	}
	if queen == pawn {
		t.Error("promotion reused the pawn instead of creating a new piece")
	}
	if !queen.HasMoved() {
		t.Error("promoted piece is not marked moved")
	}
	if !g.Board().IsEmpty(pos(t, "a7")) {
		t.Error("a7 still occupied after promotion")
	}
	if !g.IsInCheck(Black) {
		t.Error("the new queen should check the black king along the back rank")
	}
}

func TestMoveRoundTrip(t *testing.T) {
	g := mustFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	original := g.Board().Clone()
	e4, d5 := pos(t, "e4"), pos(t, "d5")
	captured := g.Board().Piece(d5)

	mustMove(t, g, "e4d5")

	g.Board().AddPiece(e4, g.Board().RemovePiece(d5))
	g.Board().AddPiece(d5, captured)
	if !cmp.Equal(original, g.Board()) {
		t.Errorf("board after move and inverse:\n%s\nwant:\n%s", g.Board(), original)
	}
	if !g.Board().Piece(e4).HasMoved() {
		t.Error("moved flag reverted on the round trip")
	}
}

func TestKingPositionPanicsWithoutKing(t *testing.T) {
	g := NewGame()
	g.SetBoard(NewBoard())
	defer func() {
		if recover() == nil {
			t.Error("KingPosition() did not panic on a board without kings")
		}
	}()
	g.KingPosition(White)
}

func TestValidMovesPanicsOnEmptySquare(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ValidMoves() did not panic on an empty square")
		}
	}()
	NewGame().ValidMoves(NewPosition(4, 4))
}

func TestEnPassantUnsupported(t *testing.T) {
	_, err := NewGame().EnPassantMoves(NewPosition(5, 5))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("EnPassantMoves() = %v; want ErrUnsupported", err)
	}
}

func TestSetBoardReplacesEverything(t *testing.T) {
	g := NewGame()
	b := mustFEN(t, "4k3/8/8/8/8/8/8/4K2R w - - 0 1").Board()
	g.SetBoard(b)
	if g.Board() != b {
		t.Fatal("Board() does not return the board passed to SetBoard")
	}
	if got := len(g.ValidTeamMoves(White)); got != 14 {
		t.Errorf("len(ValidTeamMoves(white)) = %d; want 14", got)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{Ongoing, "ongoing"},
		{Check, "check"},
		{Checkmate, "checkmate"},
		{Stalemate, "stalemate"},
		{Status(7), "Status(7)"},
		{Status(-1), "Status(-1)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q; want %q", int(tt.s), got, tt.want)
		}
	}
}
