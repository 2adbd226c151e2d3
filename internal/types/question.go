package types

// QuestionType enumerates the diagnostic question formats.
type QuestionType string

// Question type constants
const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
)

// Question is one diagnostic (memory scan) item. CorrectAnswer is either the
// literal answer text or a decimal index into Choices; scoring supports both
// encodings. AreaIndex, when present, ties the question to one of the
// preparation's knowledge areas.
type Question struct {
	ID            string       `json:"id"`
	Text          string       `json:"question_text"`
	Type          QuestionType `json:"question_type"`
	Choices       []string     `json:"choices,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	AreaIndex     *int         `json:"knowledge_area,omitempty"`
}

// DisplayQuestion is the answer-stripped projection returned to clients.
type DisplayQuestion struct {
	ID      string       `json:"id"`
	Text    string       `json:"question_text"`
	Type    QuestionType `json:"question_type"`
	Choices []string     `json:"choices,omitempty"`
}

// Display returns the client-safe projection of q.
func (q Question) Display() DisplayQuestion {
	choices := make([]string, len(q.Choices))
	copy(choices, q.Choices)
	return DisplayQuestion{
		ID:      q.ID,
		Text:    q.Text,
		Type:    q.Type,
		Choices: choices,
	}
}

// RehearsalQuestion is an open-ended, unscored practice prompt.
type RehearsalQuestion struct {
	ID   string `json:"id"`
	Text string `json:"question_text"`
}

// QuestionResult records per-question correctness from one scan submission.
type QuestionResult struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text,omitempty"`
	Selected     string `json:"selected_answer"`
	Correct      bool   `json:"is_correct"`
}

// AreaMastery summarizes one knowledge area's estimated competence on a
// 5-level scale derived from the correctness ratio.
type AreaMastery struct {
	Area    string `json:"area"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Level   int    `json:"level"`
}
