// Package seating models the fixed 12x4 cabin layout of the flight: seat
// coordinates, the per-column fare table and the occupancy chart derived
// from the stored reservations.
package seating

import (
	"errors"
	"fmt"
	"strings"
)

// Cabin dimensions. Rows and columns are 0-indexed everywhere inside the
// service; only user-facing messages shift them to 1-indexed.
const (
	Rows = 12
	Cols = 4
)

// ErrSeatOutOfRange is returned for any seat outside the cabin layout.
var ErrSeatOutOfRange = errors.New("seat out of range")

// Seat identifies a position in the cabin.
type Seat struct {
	Row int `json:"row"`
	Col int `json:"column"`
}

// Validate reports whether the seat lies inside the cabin.
func (s Seat) Validate() error {
	if s.Row < 0 || s.Row >= Rows || s.Col < 0 || s.Col >= Cols {
		return fmt.Errorf("%w: row=%d column=%d", ErrSeatOutOfRange, s.Row, s.Col)
	}
	return nil
}

// Status marks a chart cell.
type Status uint8

const (
	Free Status = iota
	Occupied
)

// String returns the single-letter marker used on the printed chart.
func (s Status) String() string {
	if s == Occupied {
		return "X"
	}
	return "O"
}

// MarshalText lets charts encode as arrays of "O"/"X" markers.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Chart is the occupancy grid. It is a value type so every caller owns its
// copy; charts are rebuilt from the store for each request.
type Chart [Rows][Cols]Status

// Build marks every given seat as occupied on an otherwise free chart.
// Marking the same seat twice is a no-op. Any seat outside the cabin
// rejects the whole input.
func Build(occupied []Seat) (Chart, error) {
	var c Chart
	for _, s := range occupied {
		if err := s.Validate(); err != nil {
			return Chart{}, err
		}
		c[s.Row][s.Col] = Occupied
	}
	return c, nil
}

// IsOccupied reports whether s is taken. Seats outside the cabin are never
// occupied.
func (c Chart) IsOccupied(s Seat) bool {
	if s.Validate() != nil {
		return false
	}
	return c[s.Row][s.Col] == Occupied
}

// OccupiedCount returns the number of taken seats.
func (c Chart) OccupiedCount() int {
	n := 0
	for r := range c {
		for _, st := range c[r] {
			if st == Occupied {
				n++
			}
		}
	}
	return n
}

// FreeCount returns the number of seats still available.
func (c Chart) FreeCount() int { return Rows*Cols - c.OccupiedCount() }

// Lines renders each row as "(O,O,X,O)".
func (c Chart) Lines() []string {
	out := make([]string, 0, Rows)
	cells := make([]string, Cols)
	for r := range c {
		for col, st := range c[r] {
			cells[col] = st.String()
		}
		out = append(out, "("+strings.Join(cells, ",")+")")
	}
	return out
}
