package seating

import "fmt"

// columnPrices holds the fare in dollars for each seat column. Window seats
// (0 and 3) cost the most, the middle-right seat the least.
var columnPrices = [Cols]int{100, 75, 50, 100}

// Price returns the fare for a seat in the given column. Fares do not
// depend on the row.
func Price(col int) (int, error) {
	if col < 0 || col >= Cols {
		return 0, fmt.Errorf("%w: column=%d", ErrSeatOutOfRange, col)
	}
	return columnPrices[col], nil
}

// CostMatrix returns the fare of every seat in the cabin.
func CostMatrix() [Rows][Cols]int {
	var m [Rows][Cols]int
	for r := range m {
		m[r] = columnPrices
	}
	return m
}
