package chess

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var sortMoves = cmpopts.SortSlices(func(a, b Move) bool { return a.String() < b.String() })

func moveStrings(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func TestCalculatorMoveCounts(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		square string
		want   int
	}{
		{"rook in the middle", "8/8/8/8/3R4/8/8/8 w - - 0 1", "d4", 14},
		{"bishop in the middle", "8/8/8/8/3B4/8/8/8 w - - 0 1", "d4", 13},
		{"queen in the middle", "8/8/8/8/3Q4/8/8/8 w - - 0 1", "d4", 27},
		{"knight in the middle", "8/8/8/8/3N4/8/8/8 w - - 0 1", "d4", 8},
		{"knight in the corner", "8/8/8/8/8/8/8/N7 w - - 0 1", "a1", 2},
		{"king in the middle", "8/8/8/8/3K4/8/8/8 w - - 0 1", "d4", 8},
		{"king in the corner", "8/8/8/8/8/8/8/K7 w - - 0 1", "a1", 3},
		{"rook blocked and capturing", "8/8/3p4/8/3R4/8/3P4/8 w - - 0 1", "d4", 10},
		{"knight never lands on friends", "8/8/2P1P3/1P3P2/3N4/1P3P2/2P1P3/8 w - - 0 1", "d4", 0},
		{"knight captures enemies", "8/8/2p1p3/1p3p2/3N4/1p3p2/2p1p3/8 w - - 0 1", "d4", 8},
		{"white pawn on start rank", "8/8/8/8/8/8/4P3/8 w - - 0 1", "e2", 2},
		{"white pawn double step blocked", "8/8/8/8/4p3/8/4P3/8 w - - 0 1", "e2", 1},
		{"white pawn fully blocked", "8/8/8/8/8/4p3/4P3/8 w - - 0 1", "e2", 0},
		{"white pawn off start rank", "8/8/8/8/8/4P3/8/8 w - - 0 1", "e3", 1},
		{"black pawn on start rank", "8/4p3/8/8/8/8/8/8 b - - 0 1", "e7", 2},
		{"pawn ignores empty diagonals", "8/8/8/8/8/8/4P3/8 w - - 0 1", "e2", 2},
		{"pawn captures both ways", "8/8/8/8/8/3p1p2/4P3/8 w - - 0 1", "e2", 4},
		{"pawn does not capture friends", "8/8/8/8/8/3P1P2/4P3/8 w - - 0 1", "e2", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustFEN(t, tt.fen)
			p := pos(t, tt.square)
			got := g.Board().Piece(p).PieceMoves(g.Board(), p)
			if len(got) != tt.want {
				t.Errorf("len(PieceMoves(%s)) = %d; want %d (%v)", tt.square, len(got), tt.want, moveStrings(got))
			}
		})
	}
}

func TestRookRayStopsAtFirstPiece(t *testing.T) {
	g := mustFEN(t, "8/8/3p4/8/3R4/8/3P4/8 w - - 0 1")
	d4 := pos(t, "d4")
	got := moveStrings(g.Board().Piece(d4).PieceMoves(g.Board(), d4))
	want := []string{"d4a4", "d4b4", "d4c4", "d4d3", "d4d5", "d4d6", "d4e4", "d4f4", "d4g4", "d4h4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rook moves mismatch (-want +got):\n%s", diff)
	}
}

func TestQueenIsRookPlusBishop(t *testing.T) {
	g := mustFEN(t, "8/1p6/8/3Q2P1/8/8/8/8 w - - 0 1")
	d5 := pos(t, "d5")
	queen := g.Board().Piece(d5).PieceMoves(g.Board(), d5)

	g.Board().AddPiece(d5, NewPiece(White, Rook))
	rook := g.Board().Piece(d5).PieceMoves(g.Board(), d5)
	g.Board().AddPiece(d5, NewPiece(White, Bishop))
	bishop := g.Board().Piece(d5).PieceMoves(g.Board(), d5)

	if diff := cmp.Diff(append(rook, bishop...), queen, sortMoves); diff != "" {
		t.Errorf("queen moves mismatch (-rook+bishop +queen):\n%s", diff)
	}
}

func TestPawnPromotionExpandsToFourMoves(t *testing.T) {
	g := mustFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	a7, a8 := pos(t, "a7"), pos(t, "a8")
	want := []Move{
		NewPromotionMove(a7, a8, Queen),
		NewPromotionMove(a7, a8, Rook),
		NewPromotionMove(a7, a8, Bishop),
		NewPromotionMove(a7, a8, Knight),
	}
	if diff := cmp.Diff(want, g.Board().Piece(a7).PieceMoves(g.Board(), a7)); diff != "" {
		t.Errorf("promotion moves mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, g.ValidMoves(a7)); diff != "" {
		t.Errorf("valid promotion moves mismatch (-want +got):\n%s", diff)
	}
}

func TestPawnPromotionWithCapture(t *testing.T) {
	g := mustFEN(t, "r3k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	b7 := pos(t, "b7")
	got := g.ValidMoves(b7)
	if len(got) != 8 {
		t.Fatalf("len(ValidMoves(b7)) = %d; want 8 (%v)", len(got), moveStrings(got))
	}
	for _, m := range got {
		if m.Promotion == NoPieceType {
			t.Errorf("move %s lacks a promotion piece", m)
		}
	}
}

func TestBlackPawnPromotes(t *testing.T) {
	g := mustFEN(t, "4k3/8/8/8/8/8/6p1/K7 b - - 0 1")
	g2 := pos(t, "g2")
	got := moveStrings(g.ValidMoves(g2))
	want := []string{"g2g1b", "g2g1n", "g2g1q", "g2g1r"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("black promotion mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculatorPanicsOnWrongPiece(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		calc PieceType
	}{
		{"bishop handed to rook calculator", "8/8/8/8/3B4/8/8/8 w - - 0 1", Rook},
		{"empty square", "8/8/8/8/8/8/8/8 w - - 0 1", Knight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustFEN(t, tt.fen)
			defer func() {
				if recover() == nil {
					t.Error("Moves() did not panic")
				}
			}()
			CalculatorFor(tt.calc).Moves(g.Board(), pos(t, "d4"))
		})
	}
}
