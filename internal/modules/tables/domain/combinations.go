package domain

// FindCombinations proposes table groupings for a party drawn from the
// currently available tables. Parties that fit a single table get every
// available table as its own singleton group; larger parties get every
// contiguous run of ceil(partySize/capacity) tables in list order.
//
// The run is taken over the available list, not over the floor geometry:
// table-number adjacency is a heuristic stand-in for physical adjacency.
func FindCombinations(partySize int, available []int) [][]int {
	if partySize <= 0 || len(available) == 0 {
		return nil
	}

	needed := (partySize + TableCapacity - 1) / TableCapacity
	if needed <= 1 {
		groups := make([][]int, 0, len(available))
		for _, table := range available {
			groups = append(groups, []int{table})
		}
		return groups
	}

	if needed > len(available) {
		return nil
	}
	groups := make([][]int, 0, len(available)-needed+1)
	for start := 0; start+needed <= len(available); start++ {
		group := make([]int, needed)
		copy(group, available[start:start+needed])
		groups = append(groups, group)
	}
	return groups
}
