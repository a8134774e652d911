package domain

import (
	"strings"
	"testing"
)

func TestRankLeaderboardOrdersByScoreThenTime(t *testing.T) {
	ranked := RankLeaderboard([]LeaderboardEntry{
		{Name: "A", Score: 10, TotalTime: 20},
		{Name: "B", Score: 10, TotalTime: 15},
		{Name: "C", Score: 9, TotalTime: 5},
	})
	got := []string{ranked[0].Name, ranked[1].Name, ranked[2].Name}
	if strings.Join(got, ",") != "B,A,C" {
		t.Fatalf("expected B,A,C got %v", got)
	}
}

func TestRankLeaderboardTruncates(t *testing.T) {
	entries := make([]LeaderboardEntry, 0, 150)
	for i := 0; i < 150; i++ {
		entries = append(entries, LeaderboardEntry{Name: "p", Score: i % 7, TotalTime: float64(i)})
	}
	ranked := RankLeaderboard(entries)
	if len(ranked) != MaxLeaderboardEntries {
		t.Fatalf("expected %d entries, got %d", MaxLeaderboardEntries, len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		if prev.Score < cur.Score || (prev.Score == cur.Score && prev.TotalTime > cur.TotalTime) {
			t.Fatalf("entries out of order at %d: %+v then %+v", i, prev, cur)
		}
	}
}

func TestTruncateName(t *testing.T) {
	long := strings.Repeat("é", 80)
	if got := TruncateName(long); len([]rune(got)) != MaxNameLength {
		t.Fatalf("expected %d runes, got %d", MaxNameLength, len([]rune(got)))
	}
	if got := TruncateName("Alice"); got != "Alice" {
		t.Fatalf("short names must be kept, got %q", got)
	}
}

func TestNewProblemOrdersSubtraction(t *testing.T) {
	p, err := NewProblem(1, OperatorSubtract, 2, 9)
	if err != nil {
		t.Fatalf("new problem: %v", err)
	}
	if p.LeftOperand != 9 || p.RightOperand != 2 || p.CorrectAnswer != 7 {
		t.Fatalf("expected 9 - 2 = 7, got %+v", p)
	}
	if p.DisplayText != "9 - 2" {
		t.Fatalf("unexpected display text %q", p.DisplayText)
	}
	if _, err := NewProblem(2, Operator("*"), 1, 2); err == nil {
		t.Fatalf("expected error for unsupported operator")
	}
}
