package app

import (
	"strconv"
	"strings"
	"time"

	"arith-recall/internal/domain"
)

// eligibilityLag is the reveal count at which the first problem becomes answerable.
const eligibilityLag = 6

// Phase is the lifecycle stage of a session.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseRunning    Phase = "running"
	PhaseFinished   Phase = "finished"
)

// GraceState tracks the extra period granted to the last problem.
type GraceState string

const (
	GraceNone     GraceState = "none"
	GraceArmed    GraceState = "armed"
	GraceConsumed GraceState = "consumed"
)

// FinishReason records which path terminated the session.
type FinishReason string

const (
	FinishNone       FinishReason = ""
	FinishTimeout    FinishReason = "timeout"
	FinishSubmission FinishReason = "submission"
)

// SessionState is an immutable snapshot of one game. Transitions return a new value;
// Records is copied on write and Problems is never mutated.
type SessionState struct {
	Phase             Phase
	Problems          []domain.Problem
	Records           []domain.AnswerRecord
	RevealCounter     int
	AnswerCounter     int
	EligibleProblemID int // 0 when no problem is eligible
	Grace             GraceState
	FinishReason      FinishReason
	Score             int
	StartedAt         time.Time
	EndedAt           time.Time
}

// Ack confirms an accepted submission.
type Ack struct {
	ProblemID int  `json:"problemId"`
	Correct   bool `json:"correct"`
	Score     int  `json:"score"`
	Finished  bool `json:"finished"`
}

// NewSessionState opens one record per problem and marks the session running.
func NewSessionState(problems []domain.Problem, now time.Time) SessionState {
	records := make([]domain.AnswerRecord, len(problems))
	for i, p := range problems {
		records[i] = domain.NewAnswerRecord(p.ID)
	}
	return SessionState{
		Phase:     PhaseRunning,
		Problems:  problems,
		Records:   records,
		Grace:     GraceNone,
		StartedAt: now,
	}
}

func (s SessionState) total() int {
	return len(s.Problems)
}

func (s SessionState) IsRunning() bool {
	return s.Phase == PhaseRunning
}

// RevealFirst makes the first problem visible once the start delay has elapsed.
func (s SessionState) RevealFirst() SessionState {
	if !s.IsRunning() || s.RevealCounter != 0 || s.total() == 0 {
		return s
	}
	s.RevealCounter = 1
	return s
}

// Advance applies one period boundary.
func (s SessionState) Advance(now time.Time) SessionState {
	if !s.IsRunning() {
		return s
	}
	if s.Grace == GraceArmed {
		return s.finish(now, FinishTimeout)
	}

	total := s.total()
	if s.RevealCounter < total {
		s.RevealCounter++
	}

	open := (s.RevealCounter == eligibilityLag && s.AnswerCounter == 0) ||
		(s.RevealCounter > eligibilityLag && s.AnswerCounter > 0)
	if !open || s.AnswerCounter >= total {
		return s
	}

	if s.EligibleProblemID != 0 {
		s = s.skipIfOpen(s.EligibleProblemID)
	}
	s.AnswerCounter++
	s.EligibleProblemID = s.AnswerCounter
	if s.AnswerCounter == total {
		s.Grace = GraceArmed
	}
	return s
}

// Submit validates and records an answer for the eligible problem.
func (s SessionState) Submit(problemID int, raw string, now time.Time) (SessionState, Ack, error) {
	if !s.IsRunning() || s.EligibleProblemID == 0 || problemID != s.EligibleProblemID {
		return s, Ack{}, domain.ErrNotEligible
	}
	idx := problemID - 1
	if !s.Records[idx].IsOpen() {
		return s, Ack{}, domain.ErrAlreadyAnswered
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return s, Ack{}, domain.ErrInvalidInput
	}

	correct := value == s.Problems[idx].CorrectAnswer
	s.Records = s.copyRecords()
	s.Records[idx] = s.Records[idx].Answered(value, correct, now)
	if correct {
		s.Score++
	}

	if problemID == s.total() && s.AnswerCounter >= s.total() {
		s = s.finish(now, FinishSubmission)
	}
	return s, Ack{ProblemID: problemID, Correct: correct, Score: s.Score, Finished: !s.IsRunning()}, nil
}

// Reset stops the session and discards its contents.
func (s SessionState) Reset() SessionState {
	return SessionState{Phase: PhaseNotStarted, Grace: GraceNone}
}

func (s SessionState) finish(now time.Time, reason FinishReason) SessionState {
	s.Records = s.copyRecords()
	for i := range s.Records {
		if s.Records[i].IsOpen() {
			s.Records[i] = s.Records[i].Skipped()
		}
	}
	if s.Grace == GraceArmed {
		s.Grace = GraceConsumed
	}
	s.Phase = PhaseFinished
	s.FinishReason = reason
	s.EndedAt = now
	return s
}

func (s SessionState) skipIfOpen(problemID int) SessionState {
	idx := problemID - 1
	if idx < 0 || idx >= len(s.Records) || !s.Records[idx].IsOpen() {
		return s
	}
	s.Records = s.copyRecords()
	s.Records[idx] = s.Records[idx].Skipped()
	return s
}

func (s SessionState) copyRecords() []domain.AnswerRecord {
	records := make([]domain.AnswerRecord, len(s.Records))
	copy(records, s.Records)
	return records
}
