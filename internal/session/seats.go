package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
)

var (
	ErrInvalidSeat = errors.New("invalid seat token")
	ErrExpiredSeat = errors.New("seat token has expired")
)

// Seat is what a verified seat token grants: the right to move one team's
// pieces in one game.
type Seat struct {
	GameID string
	Team   core.Team
}

type seatClaims struct {
	GameID string `json:"gid"`
	Team   int    `json:"team"`
	jwt.RegisteredClaims
}

// SeatIssuer signs and verifies HS256 seat tokens.
type SeatIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSeatIssuer returns an issuer. A zero ttl issues tokens without expiry.
func NewSeatIssuer(secret string, ttl time.Duration) (*SeatIssuer, error) {
	if secret == "" {
		return nil, errors.New("seat secret must not be empty")
	}
	return &SeatIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue creates a token for team in gameID.
func (s *SeatIssuer) Issue(gameID string, team core.Team) (string, error) {
	if !team.Valid() {
		return "", core.ErrInvalidTeam
	}
	now := s.now()
	claims := seatClaims{
		GameID: gameID,
		Team:   int(team),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   team.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a token and returns the seat it grants.
func (s *SeatIssuer) Verify(tokenString string) (Seat, error) {
	if tokenString == "" {
		return Seat{}, ErrInvalidSeat
	}
	token, err := jwt.ParseWithClaims(tokenString, &seatClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSeat
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Seat{}, ErrExpiredSeat
		}
		return Seat{}, ErrInvalidSeat
	}

	claims, ok := token.Claims.(*seatClaims)
	if !ok || !token.Valid {
		return Seat{}, ErrInvalidSeat
	}
	team := core.Team(claims.Team)
	if claims.Team < 0 || !team.Valid() || claims.GameID == "" {
		return Seat{}, ErrInvalidSeat
	}
	return Seat{GameID: claims.GameID, Team: team}, nil
}
