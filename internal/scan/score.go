package scan

import (
	"math"
	"strconv"
	"strings"

	"github.com/tuanngo/preppath/internal/types"
)

// Answer is one submitted diagnostic answer.
type Answer struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
}

// Outcome is the scored result of one diagnostic submission.
type Outcome struct {
	ScorePercent   float64
	CorrectCount   int
	TotalQuestions int
	PerQuestion    []types.QuestionResult
}

// Score evaluates submitted answers against the served question set. A
// question's correct answer may be stored as the literal answer text or as a
// decimal index into its choices; for the index encoding a submission matches
// either the resolved choice text or the raw index string. Answers referencing
// unknown question ids count as incorrect rather than erroring.
// ScorePercent is 100*correct/total rounded to one decimal, 0 when no answers
// were submitted.
func Score(questions []types.Question, answers []Answer) Outcome {
	byID := make(map[string]types.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	outcome := Outcome{
		TotalQuestions: len(answers),
		PerQuestion:    make([]types.QuestionResult, 0, len(answers)),
	}
	for _, answer := range answers {
		result := types.QuestionResult{
			QuestionID: answer.QuestionID,
			Selected:   answer.SelectedAnswer,
		}
		if q, ok := byID[answer.QuestionID]; ok {
			result.QuestionText = q.Text
			result.Correct = IsCorrect(q, answer.SelectedAnswer)
		}
		if result.Correct {
			outcome.CorrectCount++
		}
		outcome.PerQuestion = append(outcome.PerQuestion, result)
	}

	if outcome.TotalQuestions > 0 {
		pct := 100 * float64(outcome.CorrectCount) / float64(outcome.TotalQuestions)
		outcome.ScorePercent = math.Round(pct*10) / 10
	}
	return outcome
}

// IsCorrect reports whether the selected answer matches the question's stored
// correct answer under either encoding. Comparison is exact after trimming.
func IsCorrect(q types.Question, selected string) bool {
	selected = strings.TrimSpace(selected)
	stored := strings.TrimSpace(q.CorrectAnswer)
	if stored == "" {
		return false
	}

	if idx, err := strconv.Atoi(stored); err == nil && idx >= 0 && idx < len(q.Choices) {
		if selected == stored {
			return true
		}
		return selected == strings.TrimSpace(q.Choices[idx])
	}
	return selected == stored
}

// AggregateMastery rolls per-question correctness up into per-area mastery
// levels. A question tagged with a valid area index counts toward that area;
// untagged questions distribute round-robin by position. Areas that received
// no questions are omitted. Levels: >=80% -> 5, >=60% -> 4, >=40% -> 3,
// >=20% -> 2, else 1.
func AggregateMastery(questions []types.Question, perQuestion []bool, areaList []string) []types.AreaMastery {
	if len(areaList) == 0 || len(questions) == 0 {
		return nil
	}

	correct := make([]int, len(areaList))
	total := make([]int, len(areaList))
	for i, q := range questions {
		if i >= len(perQuestion) {
			break
		}
		idx := i % len(areaList)
		if q.AreaIndex != nil && *q.AreaIndex >= 0 && *q.AreaIndex < len(areaList) {
			idx = *q.AreaIndex
		}
		total[idx]++
		if perQuestion[i] {
			correct[idx]++
		}
	}

	mastery := make([]types.AreaMastery, 0, len(areaList))
	for i, area := range areaList {
		if total[i] == 0 {
			continue
		}
		mastery = append(mastery, types.AreaMastery{
			Area:    area,
			Correct: correct[i],
			Total:   total[i],
			Level:   masteryLevel(correct[i], total[i]),
		})
	}
	return mastery
}

func masteryLevel(correct, total int) int {
	pct := 100 * float64(correct) / float64(total)
	switch {
	case pct >= 80:
		return 5
	case pct >= 60:
		return 4
	case pct >= 40:
		return 3
	case pct >= 20:
		return 2
	default:
		return 1
	}
}
