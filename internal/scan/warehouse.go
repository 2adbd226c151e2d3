package scan

import (
	"context"
	"math/rand"
	"strconv"
	"strings"

	"github.com/tuanngo/preppath/internal/types"
)

// MinWarehouseMatches is the sample size below which auto mode falls back to
// AI generation.
const MinWarehouseMatches = 5

// BankQuestion is one approved question from the curated warehouse. Exactly
// one of CorrectAnswer or CorrectIndex is expected to be set; both encodings
// survive into the served question so scoring can resolve either.
type BankQuestion struct {
	ID            string
	Text          string
	Type          types.QuestionType
	Choices       []string
	CorrectAnswer string
	CorrectIndex  *int
	Tags          []string
}

// QuestionBank lists approved warehouse questions.
type QuestionBank interface {
	ListApproved(ctx context.Context) ([]BankQuestion, error)
}

// SampleWarehouse picks up to limit questions relevant to the requirements: a
// question matches when one of its tags equals an extracted keyword or domain,
// or contains an extracted skill as a substring. When no question matches, the
// whole pool is sampled instead. The sample order is randomized.
func SampleWarehouse(ctx context.Context, bank QuestionBank, requirements *types.ExtractedRequirements, limit int) ([]types.Question, error) {
	if bank == nil || limit <= 0 {
		return nil, nil
	}

	pool, err := bank.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	matched := filterByRequirements(pool, requirements)
	if len(matched) == 0 {
		matched = pool
	}

	rand.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}

	questions := make([]types.Question, 0, len(matched))
	for _, bq := range matched {
		questions = append(questions, bq.ToQuestion())
	}
	return questions, nil
}

// ToQuestion converts a bank row into a servable question, preserving the
// answer encoding: an index-encoded answer becomes its decimal string.
func (bq BankQuestion) ToQuestion() types.Question {
	answer := bq.CorrectAnswer
	if answer == "" && bq.CorrectIndex != nil {
		answer = strconv.Itoa(*bq.CorrectIndex)
	}
	return types.Question{
		ID:            bq.ID,
		Text:          bq.Text,
		Type:          bq.Type,
		Choices:       bq.Choices,
		CorrectAnswer: answer,
	}
}

// filterByRequirements keeps questions whose tags overlap the extracted
// keywords, domains, or skills.
func filterByRequirements(pool []BankQuestion, requirements *types.ExtractedRequirements) []BankQuestion {
	if requirements == nil || requirements.IsEmpty() {
		return nil
	}

	exact := make(map[string]bool)
	for _, term := range requirements.KeywordTerms() {
		exact[strings.ToLower(term)] = true
	}
	for _, name := range requirements.DomainNames() {
		exact[strings.ToLower(name)] = true
	}

	skills := make([]string, 0, len(requirements.Skills))
	for _, name := range requirements.SkillNames() {
		skills = append(skills, strings.ToLower(name))
	}

	var matched []BankQuestion
	for _, bq := range pool {
		if tagsMatch(bq.Tags, exact, skills) {
			matched = append(matched, bq)
		}
	}
	return matched
}

func tagsMatch(tags []string, exact map[string]bool, skills []string) bool {
	joined := strings.ToLower(strings.Join(tags, " "))
	for _, tag := range tags {
		if exact[strings.ToLower(tag)] {
			return true
		}
	}
	for _, skill := range skills {
		if skill != "" && strings.Contains(joined, skill) {
			return true
		}
	}
	return false
}
