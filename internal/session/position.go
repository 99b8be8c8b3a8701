package session

import (
	"fmt"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/setup"
)

// Position is the transport form of a custom starting position.
type Position struct {
	Diagram         string          `json:"diagram"`
	Turn            string          `json:"turn,omitempty"`
	CastleForfeited map[string]bool `json:"castle_forfeited,omitempty"`
}

// Options parses the position. An empty diagram selects the standard opening
// and ignores the other fields.
func (p Position) Options() (CreateOptions, error) {
	if p.Diagram == "" {
		return CreateOptions{}, nil
	}

	gs, err := setup.FromDiagram(p.Diagram)
	if err != nil {
		return CreateOptions{}, fmt.Errorf("diagram: %w", err)
	}
	if p.Turn != "" {
		team, err := core.ParseTeam(p.Turn)
		if err != nil {
			return CreateOptions{}, fmt.Errorf("turn: %w", err)
		}
		gs.Turn = team
	}
	for name, forfeited := range p.CastleForfeited {
		team, err := core.ParseTeam(name)
		if err != nil {
			return CreateOptions{}, fmt.Errorf("castle_forfeited: %w", err)
		}
		gs.CastleForfeited[team] = forfeited
	}
	return CreateOptions{State: &gs}, nil
}
