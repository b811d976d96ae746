package game

import "testing"

func TestRoundScore(t *testing.T) {
	cases := []struct {
		bet, taken, want int
	}{
		{0, 0, 20},
		{1, 1, 30},
		{3, 3, 50},
		{1, 3, -20},
		{2, 0, -20},
		{0, 1, -10},
		{5, 0, -50},
	}
	for _, tc := range cases {
		if got := RoundScore(tc.bet, tc.taken); got != tc.want {
			t.Fatalf("RoundScore(%d, %d) = %d, want %d", tc.bet, tc.taken, got, tc.want)
		}
	}
}
