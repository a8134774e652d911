package domain

import (
	"sort"
	"time"
	"unicode/utf8"
)

// ProblemResult pairs a problem with its final record.
type ProblemResult struct {
	Problem Problem      `json:"problem"`
	Record  AnswerRecord `json:"record"`
}

// Report is the read-only summary of a finished session.
type Report struct {
	TotalProblems int             `json:"totalProblems"`
	CorrectCount  int             `json:"correctCount"`
	Score         int             `json:"score"`
	Accuracy      float64         `json:"accuracy"`
	TotalTimeMs   int64           `json:"totalTimeMs"`
	Details       []ProblemResult `json:"details"`
}

// MaxLeaderboardEntries bounds every persisted leaderboard.
const MaxLeaderboardEntries = 100

// MaxNameLength is the longest name kept on a leaderboard entry, in characters.
const MaxNameLength = 50

// LeaderboardEntry is one persisted result.
type LeaderboardEntry struct {
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	TotalTime float64   `json:"totalTime"` // seconds
	CreatedAt time.Time `json:"createdAt"`
}

// RankLeaderboard returns a copy sorted by score desc then totalTime asc, truncated to the top entries.
func RankLeaderboard(entries []LeaderboardEntry) []LeaderboardEntry {
	ranked := make([]LeaderboardEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].TotalTime < ranked[j].TotalTime
	})
	if len(ranked) > MaxLeaderboardEntries {
		ranked = ranked[:MaxLeaderboardEntries]
	}
	return ranked
}

// TruncateName cuts a name to MaxNameLength characters.
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	return string([]rune(name)[:MaxNameLength])
}
