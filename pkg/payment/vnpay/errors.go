package vnpay

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid vnpay configuration")

	// ErrInvalidAmount is returned when the payment amount is not positive
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrInvalidTxnRef is returned when the transaction reference is empty
	ErrInvalidTxnRef = errors.New("invalid transaction reference")

	// ErrChecksumMismatch is returned when a callback signature does not verify
	ErrChecksumMismatch = errors.New("secure hash mismatch")

	// ErrPaymentFailed is returned when the gateway reports a non-success response code
	ErrPaymentFailed = errors.New("gateway reported payment failure")
)
