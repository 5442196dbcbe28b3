package model

import "errors"

// Sentinel errors for the borrow/repay cycle. Every failure aborts the whole
// operation; callers must never settle partially.
var (
	// ErrUnsupportedNetwork means no network entry is registered under the
	// requested network name.
	ErrUnsupportedNetwork = errors.New("unsupported network")

	// ErrPoolNotFound means the factory has no pair for the asset pair.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrInvalidCallback means the callback selector does not match the
	// flash-loan callback signature.
	ErrInvalidCallback = errors.New("invalid callback selector")

	// ErrMalformedPayload means the callback payload failed to decode.
	ErrMalformedPayload = errors.New("malformed callback payload")

	// ErrArithmeticOverflow means a repay amount does not fit in uint256.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)
