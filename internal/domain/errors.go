package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid state")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimum        = errors.New("amount below minimum payout")
	ErrLimitReached        = errors.New("coupon usage limit reached")
	ErrExpired             = errors.New("coupon expired")
	ErrNotStarted          = errors.New("coupon not started")
	ErrMinimumNotMet       = errors.New("minimum purchase not met")
	ErrConcurrencyConflict = errors.New("concurrency conflict, retry")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidTier         = errors.New("tier table must not lower the rate as earnings grow")
	ErrInvalidInput        = errors.New("invalid input")
	ErrAlreadyExists       = errors.New("already exists")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
