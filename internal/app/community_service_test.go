package app

import (
	"context"
	"testing"
	"time"

	"github.com/canteenlab/kiosk-api/internal/clock"
	"github.com/canteenlab/kiosk-api/internal/domain"
)

func TestCommunityService_CastVote(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)

	t.Run("records a vote", func(t *testing.T) {
		repo := newFakeCommunityRepo()
		svc := NewCommunityService(repo, clock.NewFixed(now))

		vote, err := svc.CastVote(context.Background(), studentActor, "  Laksa  ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if vote.FoodName != "Laksa" {
			t.Fatalf("expected trimmed food name, got %q", vote.FoodName)
		}
		if len(repo.votes) != 1 {
			t.Fatalf("expected 1 vote, got %d", len(repo.votes))
		}
	})

	t.Run("one vote per day", func(t *testing.T) {
		repo := newFakeCommunityRepo()
		svc := NewCommunityService(repo, clock.NewFixed(now))

		if _, err := svc.CastVote(context.Background(), studentActor, "Laksa"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := svc.CastVote(context.Background(), studentActor, "Satay"); err != domain.ErrAlreadyVoted {
			t.Fatalf("expected ErrAlreadyVoted, got %v", err)
		}
	})

	t.Run("yesterday's vote does not block today", func(t *testing.T) {
		repo := newFakeCommunityRepo()
		repo.votes = append(repo.votes, domain.Vote{
			ID:        "v1",
			AccountID: studentActor.AccountID,
			FoodName:  "Laksa",
			CreatedAt: now.AddDate(0, 0, -1),
		})
		svc := NewCommunityService(repo, clock.NewFixed(now))

		if _, err := svc.CastVote(context.Background(), studentActor, "Satay"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("blank food name", func(t *testing.T) {
		repo := newFakeCommunityRepo()
		svc := NewCommunityService(repo, clock.NewFixed(now))

		if _, err := svc.CastVote(context.Background(), studentActor, "   "); err != domain.ErrNameRequired {
			t.Fatalf("expected ErrNameRequired, got %v", err)
		}
	})
}

func TestCommunityService_Feedback(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)

	t.Run("records trimmed feedback", func(t *testing.T) {
		repo := newFakeCommunityRepo()
		svc := NewCommunityService(repo, clock.NewFixed(now))

		fb, err := svc.LeaveFeedback(context.Background(), studentActor, "  More vegetarian options please  ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if fb.Message != "More vegetarian options please" {
			t.Fatalf("unexpected message %q", fb.Message)
		}
	})

	t.Run("blank message is rejected", func(t *testing.T) {
		repo := newFakeCommunityRepo()
		svc := NewCommunityService(repo, clock.NewFixed(now))

		if _, err := svc.LeaveFeedback(context.Background(), studentActor, " "); err != domain.ErrMessageRequired {
			t.Fatalf("expected ErrMessageRequired, got %v", err)
		}
	})

	t.Run("listing and deletion are staff-only", func(t *testing.T) {
		repo := newFakeCommunityRepo()
		repo.feedback = append(repo.feedback, domain.Feedback{ID: "f1", Message: "hi"})
		svc := NewCommunityService(repo, clock.NewFixed(now))

		if _, err := svc.ListFeedback(context.Background(), studentActor); err != domain.ErrForbidden {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		items, err := svc.ListFeedback(context.Background(), staffActor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 feedback entry, got %d", len(items))
		}

		if err := svc.DeleteFeedback(context.Background(), studentActor, "f1"); err != domain.ErrForbidden {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if err := svc.DeleteFeedback(context.Background(), staffActor, "f1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(repo.feedback) != 0 {
			t.Fatalf("expected feedback deleted, got %d entries", len(repo.feedback))
		}
	})
}

type fakeCommunityRepo struct {
	votes    []domain.Vote
	feedback []domain.Feedback
}

func newFakeCommunityRepo() *fakeCommunityRepo {
	return &fakeCommunityRepo{}
}

func (f *fakeCommunityRepo) CreateVote(_ context.Context, vote domain.Vote) error {
	f.votes = append(f.votes, vote)
	return nil
}

func (f *fakeCommunityRepo) HasVotedSince(_ context.Context, accountID string, since time.Time) (bool, error) {
	for _, vote := range f.votes {
		if vote.AccountID == accountID && !vote.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCommunityRepo) SummarizeVotes(_ context.Context) ([]domain.VoteCount, error) {
	counts := make(map[string]int)
	for _, vote := range f.votes {
		counts[vote.FoodName]++
	}
	var summary []domain.VoteCount
	for name, count := range counts {
		summary = append(summary, domain.VoteCount{FoodName: name, Count: count})
	}
	return summary, nil
}

func (f *fakeCommunityRepo) CreateFeedback(_ context.Context, fb domain.Feedback) error {
	f.feedback = append(f.feedback, fb)
	return nil
}

func (f *fakeCommunityRepo) ListFeedback(_ context.Context) ([]domain.Feedback, error) {
	return f.feedback, nil
}

func (f *fakeCommunityRepo) DeleteFeedback(_ context.Context, feedbackID string) error {
	for i, fb := range f.feedback {
		if fb.ID == feedbackID {
			f.feedback = append(f.feedback[:i], f.feedback[i+1:]...)
			return nil
		}
	}
	return domain.ErrFeedbackNotFound
}
