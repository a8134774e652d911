package app

import (
	"math/rand"
	"sync"
	"time"

	"arith-recall/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	minOperand = 1
	maxOperand = 10
	// maxRedraws bounds the attempts to avoid repeating the previous problem.
	maxRedraws = 20
)

// Generator draws arithmetic problems from its own random source.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	log *logrus.Entry
}

// NewGenerator seeds the generator; a zero seed uses the current time.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return newGeneratorFromSource(rand.NewSource(seed))
}

func newGeneratorFromSource(src rand.Source) *Generator {
	return &Generator{
		rnd: rand.New(src),
		log: logrus.WithField("component", "generator"),
	}
}

// Draw returns a problem for slotID that differs from previous in both text and answer
// when possible. After maxRedraws failed redraws the last draw is accepted.
func (g *Generator) Draw(slotID int, previous *domain.Problem) domain.Problem {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.drawLocked(slotID)
	for attempt := 0; previous != nil && repeats(p, *previous); attempt++ {
		if attempt == maxRedraws {
			g.log.Debugf("slot %d: accepting repeat of %q after %d redraws", slotID, previous.DisplayText, maxRedraws)
			break
		}
		p = g.drawLocked(slotID)
	}
	return p
}

// GenerateSet draws problems 1..n, each chained to the one before it.
func (g *Generator) GenerateSet(n int) []domain.Problem {
	problems := make([]domain.Problem, 0, n)
	var prev *domain.Problem
	for id := 1; id <= n; id++ {
		problems = append(problems, g.Draw(id, prev))
		prev = &problems[len(problems)-1]
	}
	return problems
}

func (g *Generator) drawLocked(slotID int) domain.Problem {
	a := minOperand + g.rnd.Intn(maxOperand-minOperand+1)
	b := minOperand + g.rnd.Intn(maxOperand-minOperand+1)
	op := domain.Operators[g.rnd.Intn(len(domain.Operators))]
	// Both operators are known to Apply, so the error path is unreachable.
	p, _ := domain.NewProblem(slotID, op, a, b)
	return p
}

func repeats(p, previous domain.Problem) bool {
	return p.DisplayText == previous.DisplayText || p.CorrectAnswer == previous.CorrectAnswer
}
