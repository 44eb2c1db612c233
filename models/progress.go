package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// UserProgress holds the per-user gamification record. Name is a cached
// display name refreshed on each event; identity is always the user ID the
// record is keyed by.
type UserProgress struct {
	Name    string `json:"name"`
	Credits int    `json:"credits"`
	XP      int    `json:"xp"`
	Level   Level  `json:"level"`
}

// Level is either a numeric level or the terminal Master level. Master is
// greater than every numeric level and has no further progression.
type Level struct {
	number int
	master bool
}

// Master is the terminal level at the top of the threshold table.
var Master = Level{master: true}

// NumericLevel returns a regular numbered level.
func NumericLevel(n int) Level {
	return Level{number: n}
}

// IsMaster reports whether l is the terminal level.
func (l Level) IsMaster() bool {
	return l.master
}

// Number returns the numeric value of a non-Master level.
func (l Level) Number() int {
	return l.number
}

// Less reports whether l sorts before other. Master compares greater than
// every numeric level and equal to itself.
func (l Level) Less(other Level) bool {
	if l.master {
		return false
	}
	if other.master {
		return true
	}
	return l.number < other.number
}

func (l Level) String() string {
	if l.master {
		return "Master"
	}
	return strconv.Itoa(l.number)
}

// MarshalJSON writes numeric levels as JSON numbers and Master as the string
// "Master", keeping the persisted file layout external stats readers expect.
func (l Level) MarshalJSON() ([]byte, error) {
	if l.master {
		return json.Marshal("Master")
	}
	return json.Marshal(l.number)
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*l = Level{number: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("level must be a number or \"Master\": %w", err)
	}
	if s != "Master" {
		return fmt.Errorf("unknown level %q", s)
	}
	*l = Master
	return nil
}
