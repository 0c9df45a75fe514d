package reflect

import "sort"

// LinkResult is the renumbered vertex-output/fragment-input interface
// produced by dead-input elimination and re-packing.
type LinkResult struct {
	// KeptLocations maps an original interface location to its new,
	// contiguous-from-0 location.
	KeptLocations map[int]int
}

// LinkStages drops fragment input locations that the vertex stage
// never produces as an output, then renumbers the surviving locations
// contiguously starting at 0, applying the same renumbering to the
// vertex stage's matching outputs so the interface stays bound.
func LinkStages(vertex, fragment declarations) LinkResult {
	var kept []int
	for loc := range fragment.inputLocs {
		if vertex.outputLocs[loc] {
			kept = append(kept, loc)
		}
	}
	sort.Ints(kept)

	remap := make(map[int]int, len(kept))
	for i, loc := range kept {
		remap[loc] = i
	}
	return LinkResult{KeptLocations: remap}
}
