package chessserver

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/session"
)

// Server implements ChessService on top of a session manager.
type Server struct {
	manager *session.Manager
	logger  zerolog.Logger

	// streamBuffer is the per-watcher event queue length.
	streamBuffer int
}

// NewServer creates a new chess gRPC server
func NewServer(manager *session.Manager, logger zerolog.Logger) *Server {
	return &Server{
		manager:      manager,
		logger:       logger.With().Str("component", "ChessServer").Logger(),
		streamBuffer: 32,
	}
}

// CreateGame opens a game. An optional "diagram" starts from a custom
// position; "turn" and "castle_forfeited" adjust it.
func (s *Server) CreateGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	opts, err := createOptions(req)
	if err != nil {
		return nil, err
	}

	info, seats, err := s.manager.Create(ctx, opts)
	if err != nil {
		return nil, statusError(err)
	}

	s.logger.Info().
		Str("game_id", info.ID).
		Bool("custom", opts.State != nil).
		Msg("Created game")

	out, err := toStruct(map[string]interface{}{
		"game": info.View(),
		"seats": map[string]string{
			core.White.String(): seats.White,
			core.Black.String(): seats.Black,
		},
	})
	if err != nil {
		return nil, internalError("encode game", err)
	}
	return out, nil
}

func createOptions(req *structpb.Struct) (session.CreateOptions, error) {
	pos := session.Position{
		Diagram: stringField(req, "diagram"),
		Turn:    stringField(req, "turn"),
	}
	if forfeits := req.GetFields()["castle_forfeited"].GetStructValue(); forfeits != nil {
		pos.CastleForfeited = make(map[string]bool, len(forfeits.GetFields()))
		for name, v := range forfeits.GetFields() {
			pos.CastleForfeited[name] = v.GetBoolValue()
		}
	}
	opts, err := pos.Options()
	if err != nil {
		return session.CreateOptions{}, statusError(err)
	}
	return opts, nil
}

// GetGame returns the current view of a game
func (s *Server) GetGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "game_id")
	if err != nil {
		return nil, err
	}
	info, err := s.manager.Get(id)
	if err != nil {
		return nil, statusError(err)
	}
	out, err := gameResponse(info)
	if err != nil {
		return nil, internalError("encode game", err)
	}
	return out, nil
}

// LegalMoves lists the destinations Move would accept from "square"
func (s *Server) LegalMoves(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "game_id")
	if err != nil {
		return nil, err
	}
	sq, err := squareField(req, "square")
	if err != nil {
		return nil, err
	}
	if _, err := core.SquareFromIndex(sq); err != nil {
		return nil, statusError(err)
	}

	moves, err := s.manager.LegalMoves(id, sq)
	if err != nil {
		return nil, statusError(err)
	}

	names := make([]string, 0, moves.Len())
	indices := make([]int, 0, moves.Len())
	for _, to := range moves.Squares() {
		names = append(names, to.String())
		indices = append(indices, int(to))
	}
	out, err := toStruct(map[string]interface{}{
		"square":  core.Square(sq).String(),
		"moves":   names,
		"indices": indices,
	})
	if err != nil {
		return nil, internalError("encode moves", err)
	}
	return out, nil
}

// Move submits a move for the seat in "seat_token"
func (s *Server) Move(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "game_id")
	if err != nil {
		return nil, err
	}
	from, err := squareField(req, "from")
	if err != nil {
		return nil, err
	}
	to, err := squareField(req, "to")
	if err != nil {
		return nil, err
	}

	result, err := s.manager.Move(ctx, session.MoveRequest{
		GameID:    id,
		SeatToken: stringField(req, "seat_token"),
		RequestID: stringField(req, "request_id"),
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, statusError(err)
	}
	return s.resultResponse(id, result)
}

// Promote replaces a pawn on its far rank with "piece"
func (s *Server) Promote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "game_id")
	if err != nil {
		return nil, err
	}
	sq, err := squareField(req, "square")
	if err != nil {
		return nil, err
	}
	piece, err := requiredString(req, "piece")
	if err != nil {
		return nil, err
	}
	typ, err := core.ParsePieceType(piece)
	if err != nil {
		return nil, statusError(err)
	}

	err = s.manager.Promote(ctx, session.PromoteRequest{
		GameID:    id,
		SeatToken: stringField(req, "seat_token"),
		RequestID: stringField(req, "request_id"),
		Square:    sq,
		Type:      typ,
	})
	if err != nil {
		return nil, statusError(err)
	}

	info, err := s.manager.Get(id)
	if err != nil {
		return nil, statusError(err)
	}
	out, err := gameResponse(info)
	if err != nil {
		return nil, internalError("encode game", err)
	}
	return out, nil
}

func (s *Server) resultResponse(id string, result game.MoveResult) (*structpb.Struct, error) {
	info, err := s.manager.Get(id)
	if err != nil {
		return nil, statusError(err)
	}
	out, err := toStruct(map[string]interface{}{
		"result": session.NewMoveView(result),
		"game":   info.View(),
	})
	if err != nil {
		return nil, internalError("encode move", err)
	}
	return out, nil
}
