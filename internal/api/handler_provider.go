package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// HandlerProvider wires the core services into HTTP handlers.
type HandlerProvider struct {
	auth    AuthService
	spin    SpinService
	payment PaymentService
	users   UserReader
}

func NewHandler(authSvc AuthService, spinSvc SpinService, paymentSvc PaymentService, userReader UserReader) *HandlerProvider {
	return &HandlerProvider{
		auth:    authSvc,
		spin:    spinSvc,
		payment: paymentSvc,
		users:   userReader,
	}
}

// decodeBody reads a JSON request body into dst, rejecting unknown fields and
// bodies over 1MB. It writes the error response itself and reports success.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")

		return false
	}

	return true
}
