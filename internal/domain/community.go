package domain

import "time"

// Vote records a student's daily pick for the canteen menu poll.
type Vote struct {
	ID        string
	AccountID string
	FoodName  string
	CreatedAt time.Time
}

// VoteCount is one row of the vote summary.
type VoteCount struct {
	FoodName string
	Count    int
}

// Feedback is a free-text message left by a student.
type Feedback struct {
	ID          string
	AccountID   string
	StudentName string
	Message     string
	CreatedAt   time.Time
}
