package domain

import "errors"

var (
	ErrInvalidCart         = errors.New("invalid cart data")
	ErrEmptyOrder          = errors.New("no valid items in cart")
	ErrNoUnpaidOrders      = errors.New("no unpaid orders found")
	ErrAccountFrozen       = errors.New("account is frozen")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountNotFound     = errors.New("account not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrFeedbackNotFound    = errors.New("feedback not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidID           = errors.New("invalid id")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyVoted        = errors.New("already voted today")
	ErrNameRequired        = errors.New("name is required")
	ErrMessageRequired     = errors.New("message is required")
)
