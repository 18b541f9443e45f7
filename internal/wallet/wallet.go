// Package wallet implements Solana wallet ownership checks: base58-encoded
// Ed25519 public keys, detached signature verification, and the self-describing
// challenge text clients sign to prove key possession.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcutil/base58"
)

const noncePrefix = "Sign this message to authenticate with SpinVault: "

// DefaultNonceMaxAge bounds how long an issued challenge stays signable.
const DefaultNonceMaxAge = 5 * time.Minute

// VerifySignature reports whether signature is a valid detached Ed25519
// signature of message by the keypair encoded in walletAddress.
//
// walletAddress is a base58 public key, signature a base58 signature.
// Malformed input of any kind yields false; this func never panics and never
// distinguishes "could not verify" from "verified false".
func VerifySignature(walletAddress, signature, message string) bool {
	pubKey := base58.Decode(walletAddress)
	if len(pubKey) != ed25519.PublicKeySize {
		return false
	}

	sig := base58.Decode(signature)
	if len(sig) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(pubKey), []byte(message), sig)
}

// NewNonce builds a challenge string embedding the issuance time (unix
// millis) and 128 bits of randomness.
func NewNonce(now time.Time) (string, error) {
	entropy := make([]byte, 16)

	_, err := rand.Read(entropy)
	if err != nil {
		return "", fmt.Errorf("nonce entropy: %w", err)
	}

	return fmt.Sprintf("%s%d-%s", noncePrefix, now.UnixMilli(), hex.EncodeToString(entropy)), nil
}

// NonceFresh extracts the timestamp embedded in nonce and reports whether it
// was issued within maxAge of now. Malformed nonce text is not fresh.
func NonceFresh(nonce string, maxAge time.Duration, now time.Time) bool {
	issuedAt, ok := nonceIssuedAt(nonce)
	if !ok {
		return false
	}

	age := now.Sub(issuedAt)

	return age >= 0 && age <= maxAge
}

func nonceIssuedAt(nonce string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(nonce, noncePrefix)
	if !ok {
		return time.Time{}, false
	}

	ts, _, ok := strings.Cut(rest, "-")
	if !ok {
		return time.Time{}, false
	}

	millis, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	return time.UnixMilli(millis), true
}
