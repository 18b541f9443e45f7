package auth

import "errors"

var (
	// ErrNonceNotFound: no unconsumed challenge exists for the wallet.
	ErrNonceNotFound = errors.New("nonce not found or expired")

	// ErrNonceExpired: the challenge outlived its max age before being signed.
	ErrNonceExpired = errors.New("nonce expired")

	ErrInvalidSignature = errors.New("invalid signature")

	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)
