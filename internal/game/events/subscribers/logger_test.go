package subscribers_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/events"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/events/subscribers"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeGameCreated))
	assert.True(t, logSub.InterestedIn(events.TypeMoveCommitted))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "GameCreatedEvent",
			event: events.NewGameCreatedEvent("game-1", "white", true),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "white", logLine["turn"])
				assert.Equal(t, true, logLine["custom"])
			},
		},
		{
			name: "MoveCommittedEvent",
			event: events.NewMoveCommittedEvent("game-1", events.MoveCommittedEvent{
				Team:          "white",
				Piece:         "white pawn",
				From:          "e4",
				To:            "d5",
				Captured:      "d5",
				CapturedPiece: "black pawn",
				Ply:           3,
			}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "e4", logLine["from"])
				assert.Equal(t, "d5", logLine["to"])
				assert.Equal(t, "black pawn", logLine["captured"])
				assert.Equal(t, float64(3), logLine["ply"])
			},
		},
		{
			name:  "MoveRejectedEvent",
			event: events.NewMoveRejectedEvent("game-1", "black", 48, 24, "illegal move"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(48), logLine["from"])
				assert.Equal(t, "illegal move", logLine["reason"])
			},
		},
		{
			name:  "CastleCommittedEvent",
			event: events.NewCastleCommittedEvent("game-1", "white", "h1", "d1"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "h1", logLine["king_square"])
				assert.Equal(t, "d1", logLine["rook_square"])
			},
		},
		{
			name:  "PawnPromotedEvent",
			event: events.NewPawnPromotedEvent("game-1", "white", "b8", "queen"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "queen", logLine["new_type"])
			},
		},
		{
			name:  "StatusChangedEvent",
			event: events.NewStatusChangedEvent("game-1", "black", "normal", "check"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "check", logLine["status"])
				assert.Equal(t, "normal", logLine["previous"])
			},
		},
		{
			name:  "GameEndedEvent",
			event: events.NewGameEndedEvent("game-1", "white", "mate", 7),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "white", logLine["winner"])
				assert.Equal(t, float64(7), logLine["plies"])
			},
		},
		{
			name:  "StateTransitionEvent",
			event: events.NewStateTransitionEvent("game-1", "Running", "Ended", "mate"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "Running", logLine["from_phase"])
				assert.Equal(t, "Ended", logLine["to_phase"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("event-logger", zerolog.New(&buf), zerolog.InfoLevel)

			logSub.HandleEvent(tc.event)

			lines := decodeLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, "Game event", lines[0]["message"])
			assert.Equal(t, tc.event.Type(), lines[0]["event_type"])
			assert.Equal(t, "game-1", lines[0]["game_id"])
			assert.Equal(t, "event_logger", lines[0]["subscriber"])
			tc.check(t, lines[0])
		})
	}
}

func TestLoggerSubscriberWithFilter(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("filtered-logger", zerolog.New(&buf), zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeGameCreated, events.TypeGameEnded})

	assert.True(t, logSub.InterestedIn(events.TypeGameCreated))
	assert.False(t, logSub.InterestedIn(events.TypeMoveCommitted))

	bus := events.NewEventBus(zerolog.Nop())
	bus.Subscribe(logSub)
	bus.Publish(events.NewGameCreatedEvent("g", "white", false))
	bus.Publish(events.NewMoveRejectedEvent("g", "white", 0, 0, "same square"))
	bus.Publish(events.NewGameEndedEvent("g", "white", "mate", 3))

	assert.Len(t, decodeLines(t, &buf), 2)

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeMoveCommitted))
}

func TestLoggerSubscriberLogLevels(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel zerolog.Level
		expected string
	}{
		{"Debug", zerolog.DebugLevel, "debug"},
		{"Info", zerolog.InfoLevel, "info"},
		{"Warn", zerolog.WarnLevel, "warn"},
		{"Error", zerolog.ErrorLevel, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(tc.logLevel)
			logSub := subscribers.NewLoggerSubscriber("level-logger", logger, tc.logLevel)

			logSub.HandleEvent(events.NewGameCreatedEvent("g", "white", false))

			lines := decodeLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, tc.expected, lines[0]["level"])
		})
	}
}

func TestLoggerSubscriberDevelopmentMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev-logger", zerolog.New(&buf), zerolog.InfoLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewPawnPromotedEvent("g", "black", "a1", "knight"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	data, ok := lines[0]["event_data"].(map[string]interface{})
	require.True(t, ok, "event_data should be embedded JSON")
	assert.Equal(t, "a1", data["square"])
	assert.Equal(t, events.TypePawnPromoted, data["type"])
}
