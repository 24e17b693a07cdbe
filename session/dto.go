package session

import (
	"github.com/gorgonia/uttt/game"
	"github.com/gorgonia/uttt/game/ut3"
	"github.com/gorgonia/uttt/mcts"
	"github.com/pkg/errors"
)

// MoveDTO is a move on the wire. An empty player is the player to move.
type MoveDTO struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Player string `json:"player,omitempty"`
}

func moveToDTO(m ut3.Move) *MoveDTO {
	return &MoveDTO{X: int(m.X), Y: int(m.Y), Player: playerToDTO(m.Player)}
}

// move converts the DTO to a move for the given player to move.
func (d *MoveDTO) move(toMove game.Player) (ut3.Move, error) {
	if d.X < 0 || d.X >= ut3.Size || d.Y < 0 || d.Y >= ut3.Size {
		return ut3.Move{}, errors.Wrapf(ut3.ErrOutOfBounds, "(%d, %d)", d.X, d.Y)
	}
	p := toMove
	if d.Player != "" {
		var err error
		if p, err = game.ParsePlayer(d.Player); err != nil {
			return ut3.Move{}, err
		}
	}
	return ut3.NewMove(p, d.X, d.Y), nil
}

func playerToDTO(p game.Player) string {
	switch p {
	case game.Cross:
		return "X"
	case game.Nought:
		return "O"
	}
	return ""
}

// CoordDTO is a subgrid coordinate on the wire.
type CoordDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ChildDTO describes one candidate move of a search.
type ChildDTO struct {
	Move     MoveDTO `json:"move"`
	Expanded bool    `json:"expanded"`
	Visits   uint32  `json:"visits,omitempty"`
	Wins     uint32  `json:"wins,omitempty"`
	WinRate  float32 `json:"win_rate,omitempty"`
}

// StatsDTO describes a search.
type StatsDTO struct {
	Iterations int        `json:"iterations"`
	Elapsed    Duration   `json:"elapsed"`
	Nodes      int        `json:"nodes"`
	Visits     uint32     `json:"visits"`
	Wins       uint32     `json:"wins"`
	Children   []ChildDTO `json:"children"`
}

func statsToDTO(s mcts.Statistics) *StatsDTO {
	retVal := &StatsDTO{
		Visits:   s.Visits,
		Wins:     s.Wins,
		Children: make([]ChildDTO, 0, len(s.Children)),
	}
	for _, ch := range s.Children {
		retVal.Children = append(retVal.Children, ChildDTO{
			Move:     *moveToDTO(ch.Move),
			Expanded: ch.Expanded,
			Visits:   ch.Visits,
			Wins:     ch.Wins,
			WinRate:  ch.WinRate(),
		})
	}
	return retVal
}

// Request asks a session to play Move, if any, and then to generate and play a reply if Generate is set.
type Request struct {
	Move     *MoveDTO `json:"move,omitempty"`
	Generate bool     `json:"generate,omitempty"`
	Budget   Duration `json:"budget,omitempty"`
}

// Response describes the session after a Request. Move is the generated move.
type Response struct {
	Session    string    `json:"session"`
	Move       *MoveDTO  `json:"move,omitempty"`
	Statistics *StatsDTO `json:"statistics,omitempty"`
	Outcome    string    `json:"outcome"`
	ToMove     string    `json:"to_move,omitempty"`
	Active     *CoordDTO `json:"active,omitempty"` // nil when any subgrid may be played
	Error      string    `json:"error,omitempty"`
}
