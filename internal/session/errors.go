package session

import "errors"

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already hosted")
	ErrAtCapacity   = errors.New("server at capacity")
	ErrNotRunning   = errors.New("game is not accepting moves")
	ErrWrongSeat    = errors.New("seat does not control this piece")
)
