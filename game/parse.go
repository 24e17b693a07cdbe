package game

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseCoord parses a coordinate written as a column letter followed by a
// 1-based row ("e5"), or as two comma separated integers ("4,4"). Numbers
// that do not fit a Coord are rejected; bounds of a board are the board's to check.
func ParseCoord(s string) (Coord, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Coord{}, errors.New("empty coordinate")
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		x, err := strconv.ParseInt(strings.TrimSpace(s[:i]), 10, 8)
		if err != nil {
			return Coord{}, errors.WithMessagef(err, "unable to parse x of %q", s)
		}
		y, err := strconv.ParseInt(strings.TrimSpace(s[i+1:]), 10, 8)
		if err != nil {
			return Coord{}, errors.WithMessagef(err, "unable to parse y of %q", s)
		}
		return Coord{X: int8(x), Y: int8(y)}, nil
	}
	col := s[0]
	if col < 'a' || col > 'z' {
		return Coord{}, errors.Errorf("invalid column in %q", s)
	}
	row, err := strconv.ParseInt(s[1:], 10, 8)
	if err != nil {
		return Coord{}, errors.WithMessagef(err, "unable to parse row of %q", s)
	}
	if row < 1 {
		return Coord{}, errors.Errorf("invalid row in %q", s)
	}
	return Coord{X: int8(col - 'a'), Y: int8(row - 1)}, nil
}

// ParsePlayer parses a player name. It accepts "x"/"cross"/"b"/"black" for
// Cross and "o"/"nought"/"w"/"white" for Nought, in any case.
func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "cross", "b", "black":
		return Cross, nil
	case "o", "nought", "w", "white":
		return Nought, nil
	}
	return None, errors.Errorf("unknown player %q", s)
}
