// Package db provides PostgreSQL persistence for the preparation workflow.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tuanngo/preppath/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Profile loads the candidate profile for prompt personalization. A missing
// profile row is not an error; generation simply runs without candidate
// context.
func (db *DB) Profile(ctx context.Context, userID uuid.UUID) (*types.CandidateProfile, error) {
	var p types.CandidateProfile
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(role, ''), COALESCE(experience_years, 0),
		        COALESCE(skills_summary, ''), COALESCE(current_company, ''),
		        COALESCE(preferred_language, '')
		 FROM candidate_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.Role, &p.ExperienceYears, &p.SkillsSummary, &p.CurrentCompany, &p.PreferredLanguage)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}
