package app

import (
	"sync"
	"time"

	"arith-recall/internal/domain"
	"github.com/sirupsen/logrus"
)

// Timing configures the engine cadence.
type Timing struct {
	StartDelay time.Duration
	Tick       time.Duration
	Period     time.Duration
}

// DefaultTiming is the production cadence: 100ms ticks, 3s periods.
func DefaultTiming() Timing {
	return Timing{
		StartDelay: time.Second,
		Tick:       100 * time.Millisecond,
		Period:     3 * time.Second,
	}
}

// ProblemView is a problem as shown to the player, without its answer.
type ProblemView struct {
	ID          int    `json:"id"`
	DisplayText string `json:"displayText"`
}

// Snapshot is the UI-facing view of an engine.
type Snapshot struct {
	GameID          string         `json:"gameId"`
	Phase           Phase          `json:"phase"`
	TotalProblems   int            `json:"totalProblems"`
	RevealCounter   int            `json:"revealCounter"`
	AnswerCounter   int            `json:"answerCounter"`
	RevealedProblem *ProblemView   `json:"revealedProblem,omitempty"`
	EligibleProblem *ProblemView   `json:"eligibleProblem,omitempty"`
	EligibleOpen    bool           `json:"eligibleOpen"`
	RemainingMs     int64          `json:"remainingMs"`
	Score           int            `json:"score"`
	Grace           GraceState     `json:"grace"`
	FinishReason    FinishReason   `json:"finishReason,omitempty"`
	Report          *domain.Report `json:"report,omitempty"`
}

// Engine drives one game. All state transitions happen under mu, so a boundary and a
// submission never interleave on the same SessionState.
type Engine struct {
	id        string
	generator *Generator
	timing    Timing
	now       func() time.Time
	log       *logrus.Entry

	mu          sync.Mutex
	generation  uint64
	state       SessionState
	clock       *Clock
	startTimer  *time.Timer
	subscribers map[chan Snapshot]struct{}
}

// NewEngine builds an idle engine.
func NewEngine(id string, generator *Generator, timing Timing) *Engine {
	return NewEngineWithClock(id, generator, timing, time.Now)
}

// NewEngineWithClock allows deterministic timestamps in tests.
func NewEngineWithClock(id string, generator *Generator, timing Timing, now func() time.Time) *Engine {
	return &Engine{
		id:          id,
		generator:   generator,
		timing:      timing,
		now:         now,
		log:         logrus.WithFields(logrus.Fields{"component": "engine", "game": id}),
		state:       SessionState{}.Reset(),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

func (e *Engine) ID() string {
	return e.id
}

// Start begins a fresh session. A finished session is replaced; a running one is an error.
func (e *Engine) Start() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.IsRunning() {
		return e.snapshotLocked(), domain.ErrGameInProgress
	}
	e.stopTimersLocked()
	e.generation++
	gen := e.generation

	e.state = NewSessionState(e.generator.GenerateSet(domain.TotalProblems), e.now())
	e.clock = NewClock(e.timing.Tick, e.timing.Period, e.now, func(at time.Time) {
		e.onBoundary(gen, at)
	})
	e.startTimer = time.AfterFunc(e.timing.StartDelay, func() {
		e.onStartDelay(gen)
	})
	e.log.Infof("game started with %d problems", domain.TotalProblems)
	return e.broadcastLocked(), nil
}

// Reset cancels the clock before clearing the session.
func (e *Engine) Reset() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimersLocked()
	e.generation++
	e.state = e.state.Reset()
	e.log.Info("game reset")
	return e.broadcastLocked()
}

// Submit records an answer for the currently eligible problem.
func (e *Engine) Submit(problemID int, raw string) (Ack, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ack, err := e.state.Submit(problemID, raw, e.now())
	if err != nil {
		return Ack{}, err
	}
	e.state = next
	if !next.IsRunning() {
		e.stopTimersLocked()
		e.logFinishLocked()
	}
	e.broadcastLocked()
	return ack, nil
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// State returns the current session value.
func (e *Engine) State() SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Report() (domain.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildReport(e.state)
}

// Subscribe returns a channel of snapshots published on every transition.
// The caller must invoke the returned cancel function to avoid leaks.
func (e *Engine) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	e.mu.Lock()
	e.subscribers[ch] = struct{}{}
	// the buffer is empty, so this never blocks
	ch <- e.snapshotLocked()
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

// Close resets the engine and closes every subscription.
func (e *Engine) Close() {
	e.Reset()
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subscribers {
		delete(e.subscribers, ch)
		close(ch)
	}
}

func (e *Engine) onStartDelay(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation || !e.state.IsRunning() {
		return
	}
	e.state = e.state.RevealFirst()
	e.clock.Start()
	e.broadcastLocked()
}

func (e *Engine) onBoundary(gen uint64, at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// A tick from a previous session must not touch the current one.
	if gen != e.generation || !e.state.IsRunning() {
		return
	}
	e.state = e.state.Advance(at)
	if !e.state.IsRunning() {
		e.stopTimersLocked()
		e.logFinishLocked()
	}
	e.broadcastLocked()
}

func (e *Engine) stopTimersLocked() {
	if e.startTimer != nil {
		e.startTimer.Stop()
		e.startTimer = nil
	}
	if e.clock != nil {
		e.clock.Stop()
	}
}

func (e *Engine) logFinishLocked() {
	e.log.WithFields(logrus.Fields{
		"path":  e.state.FinishReason,
		"score": e.state.Score,
	}).Info("game finished")
}

func (e *Engine) broadcastLocked() Snapshot {
	snap := e.snapshotLocked()
	for ch := range e.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow reader never blocks a transition.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (e *Engine) snapshotLocked() Snapshot {
	s := e.state
	snap := Snapshot{
		GameID:        e.id,
		Phase:         s.Phase,
		TotalProblems: domain.TotalProblems,
		RevealCounter: s.RevealCounter,
		AnswerCounter: s.AnswerCounter,
		Score:         s.Score,
		Grace:         s.Grace,
		FinishReason:  s.FinishReason,
	}
	if s.RevealCounter > 0 && s.RevealCounter <= len(s.Problems) {
		snap.RevealedProblem = viewOf(s.Problems[s.RevealCounter-1])
	}
	if s.IsRunning() && s.EligibleProblemID > 0 {
		snap.EligibleProblem = viewOf(s.Problems[s.EligibleProblemID-1])
		snap.EligibleOpen = s.Records[s.EligibleProblemID-1].IsOpen()
	}
	if s.IsRunning() && e.clock != nil {
		snap.RemainingMs = e.clock.Remaining().Milliseconds()
	}
	if report, err := BuildReport(s); err == nil {
		snap.Report = &report
	}
	return snap
}

func viewOf(p domain.Problem) *ProblemView {
	return &ProblemView{ID: p.ID, DisplayText: p.DisplayText}
}
