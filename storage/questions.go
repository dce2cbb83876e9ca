package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vib1247-cyber/Codepulse/domain"
)

const questionColumns = "id, title, description, difficulty, topics, sample_input, sample_output, created_by, created_at"

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var q domain.Question
	err := row.Scan(
		&q.Id,
		&q.Title,
		&q.Description,
		&q.Difficulty,
		&q.Topics,
		&q.SampleInput,
		&q.SampleOutput,
		&q.CreatedBy,
		&q.CreatedAt,
	)
	return q, err
}

func (pgr *PostgresRepo) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	row := pgr.pool.QueryRow(ctx,
		`INSERT INTO questions(title, description, difficulty, topics, sample_input, sample_output, created_by)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+questionColumns,
		q.Title, q.Description, q.Difficulty, q.Topics, q.SampleInput, q.SampleOutput, q.CreatedBy)

	created, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.Question{}, err
		}
		return domain.Question{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return created, nil
}

func (pgr *PostgresRepo) GetQuestionById(ctx context.Context, id string) (domain.Question, error) {
	row := pgr.pool.QueryRow(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE id = $1", id)

	q, err := scanQuestion(row)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.Question{}, domain.ErrQuestionNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.Question{}, err
		default:
			return domain.Question{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}
	return q, nil
}

func (pgr *PostgresRepo) ListQuestions(ctx context.Context, filters domain.RoomFilters, limit, offset int) ([]domain.Question, error) {
	rows, err := pgr.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions
		 WHERE ($1 = '' OR difficulty = $1)
		   AND ($2 = '' OR $2 = ANY(topics))
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		filters.Difficulty, filters.Topic, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0, limit)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return questions, nil
}

// RandomQuestion picks one question honoring the filters.
// Returns ErrNoQuestionAvailable when nothing matches.
func (pgr *PostgresRepo) RandomQuestion(ctx context.Context, filters domain.RoomFilters) (domain.Question, error) {
	row := pgr.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions
		 WHERE ($1 = '' OR difficulty = $1)
		   AND ($2 = '' OR $2 = ANY(topics))
		 ORDER BY RANDOM()
		 LIMIT 1`,
		filters.Difficulty, filters.Topic)

	q, err := scanQuestion(row)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.Question{}, domain.ErrNoQuestionAvailable
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.Question{}, err
		default:
			return domain.Question{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}
	return q, nil
}
