package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/monitoring"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/session"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/testutil"
)

// promotionDiagram is the JSON string literal of the shared promotion position.
var promotionDiagram = func() string {
	b, _ := json.Marshal(testutil.PromotionDiagram)
	return string(b)
}()

func newTestHandler(t *testing.T) (*Handler, *session.Manager) {
	t.Helper()
	seats, err := session.NewSeatIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	manager := session.NewManager(session.DefaultConfig(), nil, seats, testutil.NopLogger())
	return NewHandler(manager, DefaultOptions(), testutil.NopLogger()), manager
}

type request struct {
	method  string
	path    string
	body    string
	token   string
	headers map[string]string
}

func do(t *testing.T, h *Handler, req request) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.Handler().ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createGame(t *testing.T, h *Handler, body string) createGameResponse {
	t.Helper()
	w := do(t, h, request{method: "POST", path: "/api/games", body: body})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[createGameResponse](t, w)
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	createGame(t, h, "")

	w := do(t, h, request{method: "GET", path: "/health"})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["games"])
}

func TestHealth_WithMonitor(t *testing.T) {
	_, manager := newTestHandler(t)
	monitor := monitoring.NewGoroutineMonitor(monitoring.DefaultConfig(), testutil.NopLogger())
	monitor.RegisterGauge("games", manager.Count)
	h := NewHandler(manager, Options{Monitor: monitor}, testutil.NopLogger())

	createGame(t, h, "")
	monitor.Check()

	w := do(t, h, request{method: "GET", path: "/health"})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Goroutines monitoring.GoroutineMetrics `json:"goroutines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Positive(t, body.Goroutines.Current)
	assert.Equal(t, 1, body.Goroutines.ComponentCounts["games"])
}

func TestCreateAndGetGame(t *testing.T) {
	h, _ := newTestHandler(t)

	created := createGame(t, h, "")
	assert.NotEmpty(t, created.Game.ID)
	assert.Equal(t, "white", created.Game.Turn)
	assert.Equal(t, "Running", created.Game.Phase)
	assert.NotEmpty(t, created.Seats["white"])
	assert.NotEmpty(t, created.Seats["black"])

	w := do(t, h, request{method: "GET", path: "/api/games/" + created.Game.ID})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[gameResponse](t, w)
	assert.Equal(t, created.Game.ID, got.Game.ID)
	assert.Equal(t, "K", got.Game.Board[3])
	assert.Equal(t, "q", got.Game.Board[59])
	assert.Equal(t, "", got.Game.Board[27])

	w = do(t, h, request{method: "GET", path: "/api/games/missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Error, "not found")
}

func TestCreateGame_CustomPosition(t *testing.T) {
	h, _ := newTestHandler(t)

	created := createGame(t, h, `{"diagram":`+promotionDiagram+`,"turn":"black","castle_forfeited":{"white":true}}`)
	assert.Equal(t, "black", created.Game.Turn)
	assert.True(t, created.Game.CastleForfeited["white"])
	assert.Equal(t, "P", created.Game.Board[49])

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"diagram":`},
		{"unknown field", `{"board":"x"}`},
		{"short diagram", `{"diagram":"k"}`},
		{"bad turn", `{"diagram":` + promotionDiagram + `,"turn":"red"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, request{method: "POST", path: "/api/games", body: tt.body})
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestListGames(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, request{method: "GET", path: "/api/games"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[listGamesResponse](t, w).Games)

	createGame(t, h, "")
	createGame(t, h, "")
	w = do(t, h, request{method: "GET", path: "/api/games"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[listGamesResponse](t, w).Games, 2)
}

func TestLegalMoves(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createGame(t, h, "").Game.ID

	for _, square := range []string{"b1", "1"} {
		w := do(t, h, request{method: "GET", path: "/api/games/" + id + "/moves/" + square})
		require.Equal(t, http.StatusOK, w.Code, square)
		resp := decode[legalMovesResponse](t, w)
		assert.Equal(t, "b1", resp.Square)
		assert.Equal(t, []string{"c3", "a3"}, resp.Moves)
		assert.Equal(t, []int{18, 16}, resp.Indices)
	}

	// Black pieces have no moves while White is to move.
	w := do(t, h, request{method: "GET", path: "/api/games/" + id + "/moves/b8"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[legalMovesResponse](t, w).Moves)

	for _, square := range []string{"z9", "64", "-1"} {
		w := do(t, h, request{method: "GET", path: "/api/games/" + id + "/moves/" + square})
		assert.Equal(t, http.StatusBadRequest, w.Code, square)
	}

	w = do(t, h, request{method: "GET", path: "/api/games/missing/moves/e2"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMove(t *testing.T) {
	h, _ := newTestHandler(t)
	created := createGame(t, h, "")
	path := "/api/games/" + created.Game.ID + "/move"
	white, black := created.Seats["white"], created.Seats["black"]

	tests := []struct {
		name  string
		body  string
		token string
		want  int
	}{
		{"no seat", `{"from":"e2","to":"e4"}`, "", http.StatusUnauthorized},
		{"bad seat", `{"from":"e2","to":"e4"}`, "garbage", http.StatusUnauthorized},
		{"wrong seat", `{"from":"e2","to":"e4"}`, black, http.StatusForbidden},
		{"illegal", `{"from":"e2","to":"e5"}`, white, http.StatusUnprocessableEntity},
		{"empty square", `{"from":"e4","to":"e5"}`, white, http.StatusUnprocessableEntity},
		{"same square", `{"from":"e2","to":"e2"}`, white, http.StatusBadRequest},
		{"missing to", `{"from":"e2"}`, white, http.StatusBadRequest},
		{"bad square", `{"from":"e2","to":"e9"}`, white, http.StatusBadRequest},
		{"index out of range", `{"from":12,"to":64}`, white, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, request{method: "POST", path: path, body: tt.body, token: tt.token})
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	move := request{
		method:  "POST",
		path:    path,
		body:    `{"from":"e2","to":28}`,
		token:   white,
		headers: map[string]string{"Idempotency-Key": "first"},
	}
	w := do(t, h, move)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[moveResponse](t, w)
	assert.Equal(t, "e2", resp.Result.From)
	assert.Equal(t, "e4", resp.Result.To)
	assert.Equal(t, "white pawn", resp.Result.Piece)
	assert.Equal(t, "black", resp.Game.Turn)
	assert.Equal(t, 1, resp.Game.Plies)

	// Retrying with the same key replays the result without moving again.
	w = do(t, h, move)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	replay := decode[moveResponse](t, w)
	assert.Equal(t, resp.Result, replay.Result)
	assert.Equal(t, 1, replay.Game.Plies)

	w = do(t, h, request{method: "POST", path: path, body: `{"from":"d2","to":"d4"}`, token: white})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPromote(t *testing.T) {
	h, _ := newTestHandler(t)
	created := createGame(t, h, `{"diagram":`+promotionDiagram+`}`)
	id, white, black := created.Game.ID, created.Seats["white"], created.Seats["black"]

	w := do(t, h, request{method: "POST", path: "/api/games/" + id + "/move", body: `{"from":"b7","to":"b8"}`, token: white})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	moved := decode[moveResponse](t, w)
	assert.True(t, moved.Result.Promotable)
	assert.Equal(t, "black", moved.Game.Turn)

	path := "/api/games/" + id + "/promote"
	w = do(t, h, request{method: "POST", path: path, body: `{"square":"b8","piece":"queen"}`, token: white})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "white must wait for its turn")

	w = do(t, h, request{method: "POST", path: "/api/games/" + id + "/move", body: `{"from":"h8","to":"h7"}`, token: black})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, request{method: "POST", path: path, body: `{"square":"b8","piece":"dragon"}`, token: white})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, request{method: "POST", path: path, body: `{"piece":"queen"}`, token: white})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, request{method: "POST", path: path, body: `{"square":"b8","piece":"king"}`, token: white})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, request{method: "POST", path: path, body: `{"square":57,"piece":"knight"}`, token: white})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	game := decode[gameResponse](t, w).Game
	assert.Equal(t, "N", game.Board[57])
	assert.Equal(t, "white", game.Turn)
	assert.Equal(t, "normal", game.Status["black"])
}

func TestSeatToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer ", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", tt.header)
		assert.Equal(t, tt.want, seatToken(r), tt.header)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{session.ErrGameNotFound, http.StatusNotFound},
		{session.ErrAtCapacity, http.StatusServiceUnavailable},
		{session.ErrNotRunning, http.StatusConflict},
		{session.ErrExpiredSeat, http.StatusUnauthorized},
		{core.WrapMoveError(11, 35, core.ErrIllegalMove), http.StatusUnprocessableEntity},
		{core.ErrInvalidPieceType, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
