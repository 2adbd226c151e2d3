package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanngo/preppath/internal/types"
)

func TestPrintRequirements(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRequirements(&types.ExtractedRequirements{
		Meta: &types.JobMeta{Company: "Acme", Title: "Backend Engineer"},
		Skills: []types.SkillRequirement{
			{Name: "Go", Level: "senior"},
			{Name: "PostgreSQL"},
		},
		Domains:  []types.DomainRequirement{{Name: "Payments"}},
		Keywords: []types.KeywordRequirement{{Term: "gRPC"}, {Term: "Kafka"}},
		Fit:      &types.ProfileFit{Level: 4, Label: "Strong match"},
	})

	out := buf.String()
	assert.Contains(t, out, "EXTRACTED REQUIREMENTS")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Go (senior)")
	assert.Contains(t, out, "Payments")
	assert.Contains(t, out, "gRPC, Kafka")
	assert.Contains(t, out, "Profile fit: 4/5 (Strong match)")
}

func TestPrintRequirementsNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRequirements(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRequirementsTruncatesSkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	skills := make([]types.SkillRequirement, 8)
	for i := range skills {
		skills[i] = types.SkillRequirement{Name: "Skill"}
	}
	p.PrintRequirements(&types.ExtractedRequirements{Skills: skills})

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintKnowledgeAreas(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintKnowledgeAreas([]string{"Concurrency", "SQL tuning"})

	out := buf.String()
	assert.Contains(t, out, "KNOWLEDGE AREAS")
	assert.Contains(t, out, "1. Concurrency")
	assert.Contains(t, out, "2. SQL tuning")
}

func TestPrintKnowledgeAreasEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintKnowledgeAreas(nil)
	assert.Empty(t, buf.String())
}

func TestPrintMastery(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMastery([]types.AreaMastery{
		{Area: "Go", Correct: 3, Total: 4, Level: 4},
	})

	out := buf.String()
	assert.Contains(t, out, "AREA MASTERY")
	assert.Contains(t, out, "Level 4/5 (3/4 correct)")
}

func TestPrintMasteryEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMastery(nil)
	assert.Contains(t, buf.String(), "NO SCORED AREAS")
}
