package services

import "errors"

// Business-rule rejections surfaced verbatim to the caller. Handlers map
// these onto HTTP statuses; anything else is treated as an internal error.
var (
	ErrInvalidTransition   = errors.New("illegal booking status transition")
	ErrPaymentRequired     = errors.New("booking has no captured payment")
	ErrWorkerUnavailable   = errors.New("worker is not available for this booking")
	ErrArtifactsMissing    = errors.New("before and after photos are required to complete a job")
	ErrCheckInRequired     = errors.New("worker has not checked in")
	ErrAlreadyRefunded     = errors.New("booking has already been refunded")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponNotYetValid   = errors.New("coupon is not valid yet")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
	ErrMinimumAmountNotMet = errors.New("order amount below coupon minimum")
	ErrServiceUnavailable  = errors.New("service is not available for booking")
	ErrNotBookingWorker    = errors.New("worker is not assigned to this booking")
)
