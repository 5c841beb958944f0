package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssessmentRepository handles persisted assessment data access. Generated
// links are stored as a JSONB array — they are only ever written and read as
// one unit, never queried individually.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// Insert persists a new assessment with its full link list.
func (r *AssessmentRepository) Insert(ctx context.Context, a *model.Assessment) error {
	links, err := json.Marshal(a.Links)
	if err != nil {
		return fmt.Errorf("marshal links: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO assessments (name, objective, creator_id, links)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.Name, a.Objective, a.CreatorID, links,
	).Scan(&a.ID, &a.CreatedAt)
}

// GetByID retrieves a single assessment.
func (r *AssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assessment, error) {
	a := &model.Assessment{}
	var links []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, objective, creator_id, links, created_at
		 FROM assessments WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Objective, &a.CreatorID, &links, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(links, &a.Links); err != nil {
		return nil, fmt.Errorf("unmarshal links: %w", err)
	}
	return a, nil
}

// ListByCreator retrieves the creator's assessments, newest first, paginated.
func (r *AssessmentRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]model.Assessment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM assessments WHERE creator_id = $1`, creatorID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, objective, creator_id, links, created_at
		 FROM assessments WHERE creator_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		creatorID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var assessments []model.Assessment
	for rows.Next() {
		var a model.Assessment
		var links []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.Objective, &a.CreatorID, &links, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(links, &a.Links); err != nil {
			return nil, 0, fmt.Errorf("unmarshal links: %w", err)
		}
		assessments = append(assessments, a)
	}
	return assessments, total, rows.Err()
}

// UpdateInfo renames or re-describes an assessment. Links are immutable.
func (r *AssessmentRepository) UpdateInfo(ctx context.Context, id uuid.UUID, name, objective string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE assessments SET name = $1, objective = $2 WHERE id = $3`,
		name, objective, id,
	)
	return err
}

// Delete removes an assessment record. The remote artifacts stay alive in
// the teacher's Google account; this only drops our bookkeeping.
func (r *AssessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	return err
}
