package app

import (
	"context"
	"strings"
	"time"

	"github.com/canteenlab/kiosk-api/internal/clock"
	"github.com/canteenlab/kiosk-api/internal/domain"
)

type CommunityRepository interface {
	CreateVote(ctx context.Context, vote domain.Vote) error
	HasVotedSince(ctx context.Context, accountID string, since time.Time) (bool, error)
	SummarizeVotes(ctx context.Context) ([]domain.VoteCount, error)
	CreateFeedback(ctx context.Context, fb domain.Feedback) error
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
	DeleteFeedback(ctx context.Context, feedbackID string) error
}

// CommunityService covers the menu poll and free-text feedback.
type CommunityService struct {
	repo  CommunityRepository
	clock clock.Clock
}

func NewCommunityService(repo CommunityRepository, clk clock.Clock) *CommunityService {
	return &CommunityService{
		repo:  repo,
		clock: clk,
	}
}

// CastVote records one food vote per student per UTC day.
func (s *CommunityService) CastVote(ctx context.Context, actor domain.Actor, foodName string) (domain.Vote, error) {
	foodName = strings.TrimSpace(foodName)
	if foodName == "" {
		return domain.Vote{}, domain.ErrNameRequired
	}

	now := s.clock.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	voted, err := s.repo.HasVotedSince(ctx, actor.AccountID, dayStart)
	if err != nil {
		return domain.Vote{}, err
	}
	if voted {
		return domain.Vote{}, domain.ErrAlreadyVoted
	}

	vote := domain.Vote{
		ID:        newID(),
		AccountID: actor.AccountID,
		FoodName:  foodName,
		CreatedAt: now,
	}
	if err := s.repo.CreateVote(ctx, vote); err != nil {
		return domain.Vote{}, err
	}
	return vote, nil
}

func (s *CommunityService) VoteSummary(ctx context.Context, actor domain.Actor) ([]domain.VoteCount, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	return s.repo.SummarizeVotes(ctx)
}

func (s *CommunityService) LeaveFeedback(ctx context.Context, actor domain.Actor, message string) (domain.Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.Feedback{}, domain.ErrMessageRequired
	}

	fb := domain.Feedback{
		ID:        newID(),
		AccountID: actor.AccountID,
		Message:   message,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateFeedback(ctx, fb); err != nil {
		return domain.Feedback{}, err
	}
	return fb, nil
}

func (s *CommunityService) ListFeedback(ctx context.Context, actor domain.Actor) ([]domain.Feedback, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListFeedback(ctx)
}

func (s *CommunityService) DeleteFeedback(ctx context.Context, actor domain.Actor, feedbackID string) error {
	if !actor.CanManage() {
		return domain.ErrForbidden
	}
	return s.repo.DeleteFeedback(ctx, feedbackID)
}
