package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tuanngo/preppath/internal/scan"
	"github.com/tuanngo/preppath/internal/types"
)

// ListApproved returns the approved question-warehouse pool. Curation (adding
// and approving questions) happens outside this service; this is the read
// side feeding diagnostic sampling.
func (db *DB) ListApproved(ctx context.Context) ([]scan.BankQuestion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, question_text, question_type, choices, correct_answer, correct_index, tags
		 FROM warehouse_questions WHERE approved = TRUE`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouse questions: %w", err)
	}
	defer rows.Close()

	var questions []scan.BankQuestion
	for rows.Next() {
		var bq scan.BankQuestion
		var qType string
		var choicesJSON, tagsJSON []byte
		var correctAnswer *string

		if err := rows.Scan(&bq.ID, &bq.Text, &qType, &choicesJSON, &correctAnswer, &bq.CorrectIndex, &tagsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse question: %w", err)
		}
		bq.Type = types.QuestionType(qType)
		if correctAnswer != nil {
			bq.CorrectAnswer = *correctAnswer
		}
		if choicesJSON != nil {
			_ = json.Unmarshal(choicesJSON, &bq.Choices)
		}
		if tagsJSON != nil {
			_ = json.Unmarshal(tagsJSON, &bq.Tags)
		}
		questions = append(questions, bq)
	}
	return questions, nil
}
