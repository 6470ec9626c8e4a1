package schedule

import "fmt"

// Move relocates the match at index from to index to, the way an operator
// drags a row. The set of occupied cells is fixed: after the splice, the
// match at position k takes the k-th of the original cells (in list order),
// so only the matches between from and to change field or time. Rest rules
// are not re-checked; use RestViolations on the result.
func Move(matches []Match, from, to int) ([]Match, error) {
	if from < 0 || from >= len(matches) {
		return nil, fmt.Errorf("move from %d: index out of range [0,%d)", from, len(matches))
	}
	if to < 0 || to >= len(matches) {
		return nil, fmt.Errorf("move to %d: index out of range [0,%d)", to, len(matches))
	}

	cells := make([]Cell, len(matches))
	for i, m := range matches {
		cells[i] = m.Cell
	}

	reordered := make([]Match, 0, len(matches))
	reordered = append(reordered, matches[:from]...)
	reordered = append(reordered, matches[from+1:]...)
	moved := matches[from]
	reordered = append(reordered[:to], append([]Match{moved}, reordered[to:]...)...)

	for k := range reordered {
		reordered[k].Cell = cells[k]
	}
	return reordered, nil
}
