package session

import (
	"encoding/json"
	"time"

	"github.com/gorgonia/uttt/mcts"
	"github.com/pkg/errors"
)

// Config configures a Session.
type Config struct {
	MCTS mcts.Config

	// Budget is the search budget of a Generate request that does not name one.
	Budget time.Duration

	// OverrunFactor resets the search tree after a search that took longer than
	// OverrunFactor times its budget. 0 disables it.
	OverrunFactor float64

	// PruneOnAdvance drops the parts of the search tree the game can no longer reach after every move.
	PruneOnAdvance bool
}

func DefaultConfig() Config {
	return Config{
		MCTS:           mcts.DefaultConfig(),
		Budget:         time.Second,
		OverrunFactor:  2,
		PruneOnAdvance: true,
	}
}

func (c Config) IsValid() bool {
	return c.MCTS.IsValid() && c.Budget > 0 && (c.OverrunFactor == 0 || c.OverrunFactor >= 1)
}

// Duration is a time.Duration that is written to JSON as a string such as "1.5s".
// Plain numbers are read as milliseconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(time.Duration(d).String()) }

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = Duration(time.Duration(x * float64(time.Millisecond)))
	case string:
		dur, err := time.ParseDuration(x)
		if err != nil {
			return errors.WithMessagef(err, "unable to parse duration %q", x)
		}
		*d = Duration(dur)
	default:
		return errors.Errorf("invalid duration %s", b)
	}
	return nil
}
