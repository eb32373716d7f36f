package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/votease/api/internal/core/domain"
	"github.com/votease/api/internal/core/ports"
)

const uniqueViolation = "23505"

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// Create inserts the vote. The unique index on (poll_id, user_id) is the
// single point that enforces one vote per user per poll; a concurrent insert
// for the same pair loses with a unique violation.
func (r *voteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, poll_id, user_id, option, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, vote.ID, vote.PollID, vote.UserID, vote.Option, vote.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}

	return nil
}

func (r *voteRepository) GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	query := `
		SELECT id, poll_id, user_id, option, created_at
		FROM votes
		WHERE poll_id = $1 AND user_id = $2
	`
	var vote domain.Vote
	err := r.db.QueryRowContext(ctx, query, pollID, userID).Scan(
		&vote.ID, &vote.PollID, &vote.UserID, &vote.Option, &vote.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	return &vote, nil
}

func (r *voteRepository) Delete(ctx context.Context, pollID, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE poll_id = $1 AND user_id = $2`, pollID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	if affected == 0 {
		return domain.ErrVoteNotFound
	}

	return nil
}

func (r *voteRepository) DeleteByPoll(ctx context.Context, pollID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE poll_id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll votes: %w", err)
	}
	return nil
}

func (r *voteRepository) CountByOption(ctx context.Context, pollID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT option, COUNT(*)
		FROM votes
		WHERE poll_id = $1
		GROUP BY option
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var option string
		var count int
		if err := rows.Scan(&option, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[option] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}

	return counts, nil
}
