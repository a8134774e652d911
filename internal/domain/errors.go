package domain

import "errors"

var (
	// ErrInvalidInput is returned when a submitted answer is not an integer.
	ErrInvalidInput = errors.New("answer is not a whole number")
	// ErrAlreadyAnswered is returned for a second submission on a resolved problem.
	ErrAlreadyAnswered = errors.New("problem already answered")
	// ErrNotEligible is returned when the problem is outside the eligibility window.
	ErrNotEligible = errors.New("problem is not accepting answers")
	// ErrGameInProgress is returned when starting a game that is already running.
	ErrGameInProgress = errors.New("game already in progress")
	// ErrReportUnavailable indicates the session has not finished yet.
	ErrReportUnavailable = errors.New("report unavailable before the game finishes")
	// ErrGameNotFound is returned when a game id is unknown to the registry.
	ErrGameNotFound = errors.New("game not found")
	// ErrInvalidEntry indicates a malformed leaderboard entry.
	ErrInvalidEntry = errors.New("invalid leaderboard entry")
)
