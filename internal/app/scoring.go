package app

import "arith-recall/internal/domain"

// BuildReport projects a finished session into its report.
func BuildReport(s SessionState) (domain.Report, error) {
	if s.IsRunning() || s.EndedAt.IsZero() || len(s.Problems) == 0 {
		return domain.Report{}, domain.ErrReportUnavailable
	}

	details := make([]domain.ProblemResult, len(s.Problems))
	correct := 0
	for i, p := range s.Problems {
		rec := s.Records[i]
		if ok, known := rec.IsCorrect(); ok && known {
			correct++
		}
		details[i] = domain.ProblemResult{Problem: p, Record: rec}
	}

	return domain.Report{
		TotalProblems: len(s.Problems),
		CorrectCount:  correct,
		Score:         s.Score,
		Accuracy:      float64(s.Score) / float64(domain.TotalProblems) * 100,
		TotalTimeMs:   s.EndedAt.Sub(s.StartedAt).Milliseconds(),
		Details:       details,
	}, nil
}
