package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommunityRepository struct {
	pool *pgxpool.Pool
}

func NewCommunityRepository(pool *pgxpool.Pool) *CommunityRepository {
	return &CommunityRepository{pool: pool}
}

// CreateVote inserts a vote. A unique index on (account_id, UTC day) backs
// the one-vote-per-day rule, so two votes racing past the existence check
// cannot both land; the loser gets ErrAlreadyVoted.
func (r *CommunityRepository) CreateVote(ctx context.Context, vote domain.Vote) error {
	const stmt = `INSERT INTO votes (id, account_id, food_name, created_at) VALUES ($1, $2, $3, $4)`

	_, err := querierFrom(ctx, r.pool).Exec(ctx, stmt, vote.ID, vote.AccountID, vote.FoodName, vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyVoted
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create vote: %w", err)
	}
	return nil
}

func (r *CommunityRepository) HasVotedSince(ctx context.Context, accountID string, since time.Time) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM votes WHERE account_id = $1 AND created_at >= $2)`

	var voted bool
	if err := querierFrom(ctx, r.pool).QueryRow(ctx, query, accountID, since).Scan(&voted); err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("check vote: %w", err)
	}
	return voted, nil
}

func (r *CommunityRepository) SummarizeVotes(ctx context.Context) ([]domain.VoteCount, error) {
	const query = `
SELECT food_name, COUNT(*)
FROM votes
GROUP BY food_name
ORDER BY COUNT(*) DESC, food_name`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("summarize votes: %w", err)
	}
	defer rows.Close()

	var counts []domain.VoteCount
	for rows.Next() {
		var vc domain.VoteCount
		if err := rows.Scan(&vc.FoodName, &vc.Count); err != nil {
			return nil, fmt.Errorf("scan vote count: %w", err)
		}
		counts = append(counts, vc)
	}
	return counts, rows.Err()
}

func (r *CommunityRepository) CreateFeedback(ctx context.Context, fb domain.Feedback) error {
	const stmt = `INSERT INTO feedback (id, account_id, message, created_at) VALUES ($1, $2, $3, $4)`

	_, err := querierFrom(ctx, r.pool).Exec(ctx, stmt, fb.ID, fb.AccountID, fb.Message, fb.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

func (r *CommunityRepository) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	const query = `
SELECT f.id, f.account_id, a.name, f.message, f.created_at
FROM feedback f
JOIN accounts a ON a.id = f.account_id
ORDER BY f.created_at DESC`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var items []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.AccountID, &fb.StudentName, &fb.Message, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		items = append(items, fb)
	}
	return items, rows.Err()
}

func (r *CommunityRepository) DeleteFeedback(ctx context.Context, feedbackID string) error {
	const stmt = `DELETE FROM feedback WHERE id = $1`

	tag, err := querierFrom(ctx, r.pool).Exec(ctx, stmt, feedbackID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFeedbackNotFound
	}
	return nil
}
