package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tuanngo/preppath/internal/preparation"
	"github.com/tuanngo/preppath/internal/types"
)

// CreateAnalysis stores a JD analysis with its extracted requirements as JSONB.
func (db *DB) CreateAnalysis(ctx context.Context, analysis *types.JDAnalysis) error {
	requirementsJSON, err := json.Marshal(analysis.Requirements)
	if err != nil {
		return fmt.Errorf("failed to marshal requirements: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO jd_analyses (id, user_id, raw_text, source_file, interview_date, extracted_requirements, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		analysis.ID, analysis.UserID, analysis.RawText, analysis.SourceFile,
		analysis.InterviewDate, requirementsJSON, analysis.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create jd analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves a JD analysis by ID.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*types.JDAnalysis, error) {
	var a types.JDAnalysis
	var requirementsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, raw_text, COALESCE(source_file, ''), interview_date, extracted_requirements, created_at
		 FROM jd_analyses WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.UserID, &a.RawText, &a.SourceFile, &a.InterviewDate, &requirementsJSON, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &preparation.ErrNotFound{Kind: "jd_analysis", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to get jd analysis: %w", err)
	}

	if requirementsJSON != nil {
		_ = json.Unmarshal(requirementsJSON, &a.Requirements)
	}
	return &a, nil
}

// CreatePreparation stores a new preparation.
func (db *DB) CreatePreparation(ctx context.Context, prep *types.Preparation) error {
	areasJSON, questionsJSON, resultJSON, err := marshalPreparation(prep)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO preparations (id, user_id, jd_analysis_id, status, knowledge_areas, questions, last_result, roadmap_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		prep.ID, prep.UserID, prep.AnalysisID, prep.Status,
		areasJSON, questionsJSON, resultJSON, prep.RoadmapID,
		prep.CreatedAt, prep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create preparation: %w", err)
	}
	return nil
}

// GetPreparation retrieves a preparation by ID.
func (db *DB) GetPreparation(ctx context.Context, id uuid.UUID) (*types.Preparation, error) {
	prep, err := scanPreparation(db.pool.QueryRow(ctx, selectPreparation+` WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &preparation.ErrNotFound{Kind: "preparation", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to get preparation: %w", err)
	}
	return prep, nil
}

// UpdatePreparation persists preparation state changes.
func (db *DB) UpdatePreparation(ctx context.Context, prep *types.Preparation) error {
	return db.updatePreparation(ctx, db.pool, prep)
}

// ListPreparationsByUser retrieves a user's preparations, newest first.
func (db *DB) ListPreparationsByUser(ctx context.Context, userID uuid.UUID) ([]types.Preparation, error) {
	rows, err := db.pool.Query(ctx, selectPreparation+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preparations: %w", err)
	}
	defer rows.Close()

	var preps []types.Preparation
	for rows.Next() {
		prep, err := scanPreparation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preparation: %w", err)
		}
		preps = append(preps, *prep)
	}
	return preps, nil
}

// WithPreparationLock runs fn with the preparation row locked
// (SELECT ... FOR UPDATE inside a transaction) and persists the mutated
// preparation when fn succeeds. This serializes the question-set
// check-then-write across concurrent requests.
func (db *DB) WithPreparationLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, prep *types.Preparation) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	prep, err := scanPreparation(tx.QueryRow(ctx, selectPreparation+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return &preparation.ErrNotFound{Kind: "preparation", ID: id.String()}
		}
		return fmt.Errorf("failed to lock preparation: %w", err)
	}

	if err := fn(ctx, prep); err != nil {
		return err
	}
	if err := db.updatePreparation(ctx, tx, prep); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SaveAssessment stores one scored submission with its answer rows.
func (db *DB) SaveAssessment(ctx context.Context, session *preparation.AssessmentSession) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO assessment_sessions (id, preparation_id, user_id, score_percent, correct_count, total_questions, report, taken_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		session.ID, session.PreparationID, session.UserID,
		session.ScorePercent, session.CorrectCount, session.TotalQuestions,
		session.Report, session.TakenAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment session: %w", err)
	}

	for _, answer := range session.Answers {
		_, err = tx.Exec(ctx,
			`INSERT INTO assessment_answers (id, session_id, question_id, question_text, selected_answer, is_correct)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), session.ID, answer.QuestionID, answer.QuestionText,
			answer.Selected, answer.Correct,
		)
		if err != nil {
			return fmt.Errorf("failed to save assessment answer: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// CreateRoadmap stores a roadmap and its tasks in one transaction.
func (db *DB) CreateRoadmap(ctx context.Context, roadmap *types.Roadmap) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO roadmaps (id, user_id, preparation_id, jd_analysis_id, interview_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		roadmap.ID, roadmap.UserID, roadmap.PreparationID, roadmap.AnalysisID,
		roadmap.InterviewDate, roadmap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create roadmap: %w", err)
	}

	for _, task := range roadmap.Tasks {
		refsJSON, err := json.Marshal(task.References)
		if err != nil {
			return fmt.Errorf("failed to marshal references: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO daily_tasks (id, roadmap_id, day_index, title, content, refs, sort_order, is_completed, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			task.ID, roadmap.ID, task.DayIndex, task.Title, task.Content,
			refsJSON, task.SortOrder, task.IsCompleted, task.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create daily task: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// GetRoadmap retrieves a roadmap with its tasks in day order.
func (db *DB) GetRoadmap(ctx context.Context, id uuid.UUID) (*types.Roadmap, error) {
	var r types.Roadmap
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, preparation_id, jd_analysis_id, interview_date, created_at
		 FROM roadmaps WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.PreparationID, &r.AnalysisID, &r.InterviewDate, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &preparation.ErrNotFound{Kind: "roadmap", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to get roadmap: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, roadmap_id, day_index, title, content, refs, sort_order, is_completed, completed_at, created_at
		 FROM daily_tasks WHERE roadmap_id = $1 ORDER BY sort_order ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t types.DailyTask
		var refsJSON []byte
		if err := rows.Scan(&t.ID, &t.RoadmapID, &t.DayIndex, &t.Title, &t.Content,
			&refsJSON, &t.SortOrder, &t.IsCompleted, &t.CompletedAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan daily task: %w", err)
		}
		if refsJSON != nil {
			_ = json.Unmarshal(refsJSON, &t.References)
		}
		r.Tasks = append(r.Tasks, t)
	}
	return &r, nil
}

const selectPreparation = `SELECT id, user_id, jd_analysis_id, status, knowledge_areas, questions, last_result, roadmap_id, created_at, updated_at
	 FROM preparations`

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreparation(row rowScanner) (*types.Preparation, error) {
	var p types.Preparation
	var areasJSON, questionsJSON, resultJSON []byte

	err := row.Scan(&p.ID, &p.UserID, &p.AnalysisID, &p.Status,
		&areasJSON, &questionsJSON, &resultJSON, &p.RoadmapID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if areasJSON != nil {
		_ = json.Unmarshal(areasJSON, &p.KnowledgeAreas)
	}
	if questionsJSON != nil {
		_ = json.Unmarshal(questionsJSON, &p.Questions)
	}
	if resultJSON != nil {
		_ = json.Unmarshal(resultJSON, &p.LastResult)
	}
	return &p, nil
}

// dbtx is satisfied by both the pool and an open transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (db *DB) updatePreparation(ctx context.Context, tx dbtx, prep *types.Preparation) error {
	areasJSON, questionsJSON, resultJSON, err := marshalPreparation(prep)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE preparations
		 SET jd_analysis_id = $2, status = $3, knowledge_areas = $4, questions = $5,
		     last_result = $6, roadmap_id = $7, updated_at = $8
		 WHERE id = $1`,
		prep.ID, prep.AnalysisID, prep.Status, areasJSON, questionsJSON,
		resultJSON, prep.RoadmapID, prep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update preparation: %w", err)
	}
	return nil
}

func marshalPreparation(prep *types.Preparation) (areasJSON, questionsJSON, resultJSON []byte, err error) {
	areasJSON, err = json.Marshal(prep.KnowledgeAreas)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal knowledge areas: %w", err)
	}
	questionsJSON, err = json.Marshal(prep.Questions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal questions: %w", err)
	}
	if prep.LastResult != nil {
		resultJSON, err = json.Marshal(prep.LastResult)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal last result: %w", err)
		}
	}
	return areasJSON, questionsJSON, resultJSON, nil
}
