package repository

import (
	"context"
	"strconv"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const questionColumns = `id, question_text, option_a, option_b, option_c, option_d,
	        correct_option, weight, objective, skill, difficulty, creator_id, created_at`

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// FindByIDs retrieves all questions matching the given identifiers. Missing
// IDs are simply absent from the result; the caller decides whether that is
// an error.
func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
		&q.CorrectOption, &q.Weight, &q.Objective, &q.Skill, &q.Difficulty, &q.CreatorID, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// List retrieves questions with optional filters, newest first, paginated.
func (r *QuestionRepository) List(ctx context.Context, filter model.QuestionFilter, limit, offset int) ([]model.Question, int, error) {
	where := ""
	var args []interface{}

	addClause := func(clause, value string) {
		args = append(args, value)
		idx := strconv.Itoa(len(args))
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += clause + " $" + idx
	}

	if filter.Objective != "" {
		addClause("objective =", filter.Objective)
	}
	if filter.Skill != "" {
		addClause("skill =", filter.Skill)
	}
	if filter.Difficulty != "" {
		addClause("difficulty =", filter.Difficulty)
	}
	if filter.Search != "" {
		addClause("question_text ILIKE", "%"+filter.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + questionColumns + ` FROM questions` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (question_text, option_a, option_b, option_c, option_d,
		                        correct_option, weight, objective, skill, difficulty, creator_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		q.QuestionText, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.CorrectOption, q.Weight, q.Objective, q.Skill, q.Difficulty, q.CreatorID,
	).Scan(&q.ID, &q.CreatedAt)
}

// Update overwrites all editable fields of a question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET question_text = $1, option_a = $2, option_b = $3, option_c = $4, option_d = $5,
		     correct_option = $6, weight = $7, objective = $8, skill = $9, difficulty = $10
		 WHERE id = $11`,
		q.QuestionText, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.CorrectOption, q.Weight, q.Objective, q.Skill, q.Difficulty, q.ID,
	)
	return err
}

// Delete removes a question from the bank.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanQuestions(rows rowScanner) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
			&q.CorrectOption, &q.Weight, &q.Objective, &q.Skill, &q.Difficulty, &q.CreatorID, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
