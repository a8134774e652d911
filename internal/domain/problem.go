package domain

import (
	"fmt"
	"time"
)

// TotalProblems is the number of problems in one session.
const TotalProblems = 30

// Operator is an arithmetic operator used by generated problems.
type Operator string

const (
	OperatorAdd      Operator = "+"
	OperatorSubtract Operator = "-"
)

// Operators lists the operators a problem can be drawn with.
var Operators = []Operator{OperatorAdd, OperatorSubtract}

func (o Operator) Apply(a, b int) (int, error) {
	switch o {
	case OperatorAdd:
		return a + b, nil
	case OperatorSubtract:
		return a - b, nil
	default:
		return 0, fmt.Errorf("unknown operator: %s", o)
	}
}

// Problem is an immutable arithmetic problem bound to one slot of the session.
type Problem struct {
	ID            int      `json:"id"`
	LeftOperand   int      `json:"leftOperand"`
	RightOperand  int      `json:"rightOperand"`
	Operator      Operator `json:"operator"`
	CorrectAnswer int      `json:"correctAnswer"`
	DisplayText   string   `json:"displayText"`
}

// NewProblem builds a problem, ordering subtraction operands so the result is non-negative.
func NewProblem(id int, op Operator, left, right int) (Problem, error) {
	if op == OperatorSubtract && left < right {
		left, right = right, left
	}
	ans, err := op.Apply(left, right)
	if err != nil {
		return Problem{}, err
	}
	return Problem{
		ID:            id,
		LeftOperand:   left,
		RightOperand:  right,
		Operator:      op,
		CorrectAnswer: ans,
		DisplayText:   fmt.Sprintf("%d %s %d", left, op, right),
	}, nil
}

// Outcome is the resolution state of an AnswerRecord.
type Outcome string

const (
	OutcomeOpen      Outcome = "open"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	// OutcomeSkipped marks a problem that left the window without a submission.
	OutcomeSkipped Outcome = "skipped"
)

// AnswerRecord tracks the single submission slot of a problem.
type AnswerRecord struct {
	ProblemID      int        `json:"problemId"`
	SubmittedValue *int       `json:"submittedValue"`
	Outcome        Outcome    `json:"outcome"`
	ResolvedAt     *time.Time `json:"resolvedAt"`
}

// NewAnswerRecord returns an open record for the given problem.
func NewAnswerRecord(problemID int) AnswerRecord {
	return AnswerRecord{ProblemID: problemID, Outcome: OutcomeOpen}
}

func (r AnswerRecord) IsOpen() bool {
	return r.Outcome == OutcomeOpen
}

// IsCorrect reports correctness; known is false while open or when skipped.
func (r AnswerRecord) IsCorrect() (correct, known bool) {
	switch r.Outcome {
	case OutcomeCorrect:
		return true, true
	case OutcomeIncorrect:
		return false, true
	default:
		return false, false
	}
}

// Answered resolves the record with a submitted value.
func (r AnswerRecord) Answered(value int, correct bool, at time.Time) AnswerRecord {
	r.SubmittedValue = &value
	r.ResolvedAt = &at
	if correct {
		r.Outcome = OutcomeCorrect
	} else {
		r.Outcome = OutcomeIncorrect
	}
	return r
}

// Skipped resolves the record without a submission.
func (r AnswerRecord) Skipped() AnswerRecord {
	r.Outcome = OutcomeSkipped
	return r
}
