package uttt

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// Statistics is the running record of every agent, one entry per game played.
type Statistics struct {
	Creation []string
	Wins     map[string][]float32
	Losses   map[string][]float32
	Draws    map[string][]float32
}

func makeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 64),
		Wins:     make(map[string][]float32),
		Losses:   make(map[string][]float32),
		Draws:    make(map[string][]float32),
	}
}

func (s *Statistics) update(A *Agent) {
	A.mu.Lock()
	defer A.mu.Unlock()
	aname := A.name

	if _, ok := s.Wins[aname]; !ok {
		s.Creation = append(s.Creation, aname)
	}

	s.Wins[aname] = append(s.Wins[aname], A.Wins)
	s.Losses[aname] = append(s.Losses[aname], A.Loss)
	s.Draws[aname] = append(s.Draws[aname], A.Draw)
}

// WinRate returns the win rate of the named agent after the last game it played.
func (s *Statistics) WinRate(agent string) float32 {
	wins := s.Wins[agent]
	if len(wins) == 0 {
		return 0
	}
	j := len(wins) - 1
	return winRate(wins[j], s.Losses[agent][j], s.Draws[agent][j])
}

func winRate(win, loss, draw float32) float32 {
	if total := win + loss + draw; total > 0 {
		return win / total
	}
	return 0
}

// Write writes the statistics as CSV: a header of agent names, then one row per recorded game with the
// running win rate of the agent in its column.
func (s *Statistics) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Creation); err != nil {
		return err
	}
	var records [][]string
	for i, agent := range s.Creation {
		for j, win := range s.Wins[agent] {
			record := make([]string, len(s.Creation))
			rate := winRate(win, s.Losses[agent][j], s.Draws[agent][j])
			record[i] = strconv.FormatFloat(float64(rate), 'f', 3, 32)
			records = append(records, record)
		}
	}
	// WriteAll flushes
	return cw.WriteAll(records)
}

// Dump writes the statistics to the named file.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Write(f)
}
