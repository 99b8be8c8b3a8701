package chessserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/session"
)

// toStruct converts any JSON-encodable value into a Struct.
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func stringField(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

func requiredString(in *structpb.Struct, name string) (string, error) {
	s := stringField(in, name)
	if s == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return s, nil
}

// squareField accepts either a square index (number) or an algebraic name.
func squareField(in *structpb.Struct, name string) (int, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) {
			return 0, status.Errorf(codes.InvalidArgument, "%s: %v is not an integer", name, n)
		}
		return int(n), nil
	case *structpb.Value_StringValue:
		sq, err := core.ParseSquare(kind.StringValue)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "%s: %v", name, err)
		}
		return int(sq), nil
	default:
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number or a square name", name)
	}
}

// statusError maps session and rule errors onto gRPC codes.
func statusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codeFor(err), err.Error())
}

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		return codes.NotFound
	case errors.Is(err, session.ErrGameExists):
		return codes.AlreadyExists
	case errors.Is(err, session.ErrAtCapacity):
		return codes.ResourceExhausted
	case errors.Is(err, session.ErrInvalidSeat), errors.Is(err, session.ErrExpiredSeat):
		return codes.Unauthenticated
	case errors.Is(err, session.ErrWrongSeat):
		return codes.PermissionDenied
	case errors.Is(err, session.ErrNotRunning),
		errors.Is(err, core.ErrEmptySquare),
		errors.Is(err, core.ErrNotThisTurn),
		errors.Is(err, core.ErrIllegalMove),
		errors.Is(err, core.ErrInvalidPromotion):
		return codes.FailedPrecondition
	case errors.Is(err, core.ErrInvalidSquare),
		errors.Is(err, core.ErrSameSquare),
		errors.Is(err, core.ErrInvalidPieceType),
		errors.Is(err, core.ErrInvalidTeam),
		errors.Is(err, core.ErrMalformedState):
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

func gameResponse(info session.Info) (*structpb.Struct, error) {
	return toStruct(map[string]interface{}{"game": info.View()})
}

func internalError(what string, err error) error {
	return status.Error(codes.Internal, fmt.Sprintf("%s: %v", what, err))
}
