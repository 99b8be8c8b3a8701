package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/monitoring"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/session"
)

const maxBodyBytes = 64 << 10

// Options tunes the HTTP surface.
type Options struct {
	// AllowedOrigins for CORS and websocket upgrades. "*" allows any origin.
	AllowedOrigins []string
	// StreamBuffer is the per-watcher event queue length.
	StreamBuffer int
	// PingInterval between websocket keepalive pings.
	PingInterval time.Duration
	// Monitor, when set, adds goroutine metrics to /health.
	Monitor *monitoring.GoroutineMonitor
}

// DefaultOptions returns options suitable for local development.
func DefaultOptions() Options {
	return Options{
		AllowedOrigins: []string{"*"},
		StreamBuffer:   64,
		PingInterval:   30 * time.Second,
	}
}

// Handler serves the REST and websocket API over a session manager.
type Handler struct {
	manager  *session.Manager
	opts     Options
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates the HTTP API handler.
func NewHandler(manager *session.Manager, opts Options, logger zerolog.Logger) *Handler {
	if opts.StreamBuffer <= 0 {
		opts.StreamBuffer = DefaultOptions().StreamBuffer
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = DefaultOptions().PingInterval
	}
	h := &Handler{
		manager: manager,
		opts:    opts,
		logger:  logger.With().Str("component", "HTTPAPI").Logger(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(h.logRequests)

	router.HandleFunc("/ws/games/{id}", h.watchGame).Methods("GET")

	api := router.PathPrefix("/api/games").Subrouter()
	api.HandleFunc("", h.createGame).Methods("POST")
	api.HandleFunc("", h.listGames).Methods("GET")
	api.HandleFunc("/{id}", h.getGame).Methods("GET")
	api.HandleFunc("/{id}/moves/{square}", h.legalMoves).Methods("GET")
	api.HandleFunc("/{id}/move", h.move).Methods("POST")
	api.HandleFunc("/{id}/promote", h.promote).Methods("POST")

	router.HandleFunc("/health", h.health).Methods("GET")
	return router
}

// Handler returns the router wrapped in the CORS policy.
func (h *Handler) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: h.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Idempotency-Key"},
	})
	return c.Handler(h.Router())
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

type createGameResponse struct {
	Game  session.GameView  `json:"game"`
	Seats map[string]string `json:"seats"`
}

type gameResponse struct {
	Game session.GameView `json:"game"`
}

type listGamesResponse struct {
	Games []session.GameView `json:"games"`
}

type legalMovesResponse struct {
	Square  string   `json:"square"`
	Moves   []string `json:"moves"`
	Indices []int    `json:"indices"`
}

type moveResponse struct {
	Result session.MoveView `json:"result"`
	Game   session.GameView `json:"game"`
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	var pos session.Position
	// An empty body creates a game from the standard opening.
	if err := decodeBody(w, r, &pos); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts, err := pos.Options()
	if err != nil {
		respondWithSessionError(w, err)
		return
	}

	info, seats, err := h.manager.Create(r.Context(), opts)
	if err != nil {
		respondWithSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, createGameResponse{
		Game: info.View(),
		Seats: map[string]string{
			core.White.String(): seats.White,
			core.Black.String(): seats.Black,
		},
	})
}

func (h *Handler) listGames(w http.ResponseWriter, r *http.Request) {
	infos := h.manager.List()
	resp := listGamesResponse{Games: make([]session.GameView, 0, len(infos))}
	for _, info := range infos {
		resp.Games = append(resp.Games, info.View())
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	info, err := h.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		respondWithSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, gameResponse{Game: info.View()})
}

func (h *Handler) legalMoves(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sq, err := parseSquare(vars["square"])
	if err != nil {
		respondWithSessionError(w, err)
		return
	}

	moves, err := h.manager.LegalMoves(vars["id"], int(sq))
	if err != nil {
		respondWithSessionError(w, err)
		return
	}
	resp := legalMovesResponse{
		Square:  sq.String(),
		Moves:   make([]string, 0, moves.Len()),
		Indices: make([]int, 0, moves.Len()),
	}
	for _, to := range moves.Squares() {
		resp.Moves = append(resp.Moves, to.String())
		resp.Indices = append(resp.Indices, int(to))
	}
	respondWithJSON(w, http.StatusOK, resp)
}

type moveRequest struct {
	From      *squareParam `json:"from"`
	To        *squareParam `json:"to"`
	RequestID string       `json:"request_id"`
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.From == nil || req.To == nil {
		respondWithError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	id := mux.Vars(r)["id"]
	result, err := h.manager.Move(r.Context(), session.MoveRequest{
		GameID:    id,
		SeatToken: seatToken(r),
		RequestID: requestID(r, req.RequestID),
		From:      int(*req.From),
		To:        int(*req.To),
	})
	if err != nil {
		respondWithSessionError(w, err)
		return
	}

	info, err := h.manager.Get(id)
	if err != nil {
		respondWithSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, moveResponse{
		Result: session.NewMoveView(result),
		Game:   info.View(),
	})
}

type promoteRequest struct {
	Square    *squareParam `json:"square"`
	Piece     string       `json:"piece"`
	RequestID string       `json:"request_id"`
}

func (h *Handler) promote(w http.ResponseWriter, r *http.Request) {
	var req promoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Square == nil {
		respondWithError(w, http.StatusBadRequest, "square is required")
		return
	}
	typ, err := core.ParsePieceType(req.Piece)
	if err != nil {
		respondWithSessionError(w, err)
		return
	}

	id := mux.Vars(r)["id"]
	err = h.manager.Promote(r.Context(), session.PromoteRequest{
		GameID:    id,
		SeatToken: seatToken(r),
		RequestID: requestID(r, req.RequestID),
		Square:    int(*req.Square),
		Type:      typ,
	})
	if err != nil {
		respondWithSessionError(w, err)
		return
	}

	info, err := h.manager.Get(id)
	if err != nil {
		respondWithSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, gameResponse{Game: info.View()})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status": "ok",
		"games":  h.manager.Count(),
	}
	if h.opts.Monitor != nil {
		body["goroutines"] = h.opts.Monitor.GetMetrics()
	}
	respondWithJSON(w, http.StatusOK, body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
