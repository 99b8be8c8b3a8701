package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/session"
)

// squareParam decodes a square given either as an index or by name.
type squareParam core.Square

func (s *squareParam) UnmarshalJSON(data []byte) error {
	var idx int
	if err := json.Unmarshal(data, &idx); err == nil {
		sq, err := core.SquareFromIndex(idx)
		if err != nil {
			return err
		}
		*s = squareParam(sq)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidSquare, data)
	}
	sq, err := core.ParseSquare(name)
	if err != nil {
		return err
	}
	*s = squareParam(sq)
	return nil
}

func parseSquare(s string) (core.Square, error) {
	if idx, err := strconv.Atoi(s); err == nil {
		return core.SquareFromIndex(idx)
	}
	return core.ParseSquare(s)
}

// seatToken reads the bearer token from the Authorization header.
func seatToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// requestID prefers the Idempotency-Key header over the body field.
func requestID(r *http.Request, fromBody string) string {
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		return key
	}
	return fromBody
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithSessionError(w http.ResponseWriter, err error) {
	respondWithError(w, statusFor(err), err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		code = http.StatusInternalServerError
		response = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// statusFor maps session and rule errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrGameExists):
		return http.StatusConflict
	case errors.Is(err, session.ErrAtCapacity):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrInvalidSeat), errors.Is(err, session.ErrExpiredSeat):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrWrongSeat):
		return http.StatusForbidden
	case errors.Is(err, session.ErrNotRunning):
		return http.StatusConflict
	case errors.Is(err, core.ErrEmptySquare),
		errors.Is(err, core.ErrNotThisTurn),
		errors.Is(err, core.ErrIllegalMove),
		errors.Is(err, core.ErrInvalidPromotion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidSquare),
		errors.Is(err, core.ErrSameSquare),
		errors.Is(err, core.ErrInvalidPieceType),
		errors.Is(err, core.ErrInvalidTeam),
		errors.Is(err, core.ErrMalformedState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
