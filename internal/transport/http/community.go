package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/canteenlab/kiosk-api/internal/domain"
)

// CommunityService is the minimal interface for vote and feedback endpoints.
type CommunityService interface {
	CastVote(ctx context.Context, actor domain.Actor, foodName string) (domain.Vote, error)
	VoteSummary(ctx context.Context, actor domain.Actor) ([]domain.VoteCount, error)
	LeaveFeedback(ctx context.Context, actor domain.Actor, message string) (domain.Feedback, error)
	ListFeedback(ctx context.Context, actor domain.Actor) ([]domain.Feedback, error)
	DeleteFeedback(ctx context.Context, actor domain.Actor, feedbackID string) error
}

// HandleVotes serves POST /votes (cast) and GET /votes (staff summary).
func HandleVotes(svc CommunityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req castVoteRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			vote, err := svc.CastVote(r.Context(), actor, req.FoodName)
			if err != nil {
				writeServiceError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(voteResponse{
				ID:        vote.ID,
				FoodName:  vote.FoodName,
				CreatedAt: vote.CreatedAt,
			})
		case http.MethodGet:
			counts, err := svc.VoteSummary(r.Context(), actor)
			if err != nil {
				writeServiceError(w, err)
				return
			}

			resp := make([]voteCountResponse, 0, len(counts))
			for _, vc := range counts {
				resp = append(resp, voteCountResponse{FoodName: vc.FoodName, Count: vc.Count})
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleFeedback serves POST /feedback and GET /feedback.
func HandleFeedback(svc CommunityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req leaveFeedbackRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			fb, err := svc.LeaveFeedback(r.Context(), actor, req.Message)
			if err != nil {
				writeServiceError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(newFeedbackResponse(fb))
		case http.MethodGet:
			items, err := svc.ListFeedback(r.Context(), actor)
			if err != nil {
				writeServiceError(w, err)
				return
			}

			resp := make([]feedbackResponse, 0, len(items))
			for _, fb := range items {
				resp = append(resp, newFeedbackResponse(fb))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleFeedbackActions serves DELETE /feedback/{id}.
func HandleFeedbackActions(svc CommunityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		feedbackID, ok := parseFeedbackPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		if err := svc.DeleteFeedback(r.Context(), actor, feedbackID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseFeedbackPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "feedback" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type castVoteRequest struct {
	FoodName string `json:"food_name"`
}

type voteResponse struct {
	ID        string    `json:"id"`
	FoodName  string    `json:"food_name"`
	CreatedAt time.Time `json:"created_at"`
}

type voteCountResponse struct {
	FoodName string `json:"food_name"`
	Count    int    `json:"count"`
}

type leaveFeedbackRequest struct {
	Message string `json:"message"`
}

type feedbackResponse struct {
	ID          string    `json:"id"`
	StudentName string    `json:"student_name,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

func newFeedbackResponse(fb domain.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:          fb.ID,
		StudentName: fb.StudentName,
		Message:     fb.Message,
		CreatedAt:   fb.CreatedAt,
	}
}
