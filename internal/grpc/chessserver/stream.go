package chessserver

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/events"
)

// SnapshotType tags the first WatchGame message, which carries the full game.
const SnapshotType = "snapshot"

// WatchGame streams a snapshot followed by every event of the game until the
// client leaves or the game is removed.
func (s *Server) WatchGame(req *structpb.Struct, stream WatchGameServer) error {
	id, err := requiredString(req, "game_id")
	if err != nil {
		return err
	}

	logger := s.logger.With().Str("game_id", id).Logger()
	updates := make(chan *structpb.Struct, s.streamBuffer)

	cancel, done, err := s.manager.Watch(id, func(e events.Event) {
		msg, err := toStruct(e)
		if err != nil {
			logger.Error().Err(err).Str("event_type", e.Type()).Msg("Failed to encode event")
			return
		}
		// Non-blocking send to avoid blocking the game
		select {
		case updates <- msg:
		default:
			logger.Warn().Str("event_type", e.Type()).Msg("Stream update channel full, dropping update")
		}
	})
	if err != nil {
		return statusError(err)
	}
	defer cancel()

	info, err := s.manager.Get(id)
	if err != nil {
		return statusError(err)
	}
	initial, err := toStruct(map[string]interface{}{
		"type":    SnapshotType,
		"game_id": id,
		"game":    info.View(),
	})
	if err != nil {
		return internalError("encode game", err)
	}
	if err := stream.Send(initial); err != nil {
		logger.Error().Err(err).Msg("Failed to send initial game state")
		return err
	}

	logger.Info().Msg("Watcher connected")
	for {
		select {
		case msg := <-updates:
			if err := stream.Send(msg); err != nil {
				logger.Error().Err(err).Msg("Stream error")
				return err
			}
		case <-done:
			logger.Info().Msg("Game removed, closing stream")
			return nil
		case <-stream.Context().Done():
			logger.Info().Msg("Stream closed by client")
			return nil
		}
	}
}
