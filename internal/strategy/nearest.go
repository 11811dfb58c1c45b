package strategy

import (
	"math"

	"clipalign/internal/align"
)

const (
	// nnCeiling rejects candidate matches whose raw distance exceeds this.
	nnCeiling = 10.0
	// nnBoundaryWindow marks reference points counted as boundary-adjacent.
	nnBoundaryWindow = 1.0
)

// NearestNeighbor greedily matches each reference point to the closest
// not-yet-used edited point, adjusted by weight, boundary proximity, and
// travel-direction continuity. It is the cheap O(n*m) pass the orchestrator
// always runs first.
type NearestNeighbor struct{}

func (NearestNeighbor) Name() string { return "nearest_neighbor" }

func (NearestNeighbor) Applicable(refCount, editCount int) bool {
	return refCount > 0 && editCount > 0
}

func (s NearestNeighbor) Run(in Input) ([]align.Pair, error) {
	used := make([]bool, len(in.Edited))
	var pairs []align.Pair
	lastRef, lastEdit := -1, -1

	for i, refTime := range in.Ref {
		bestJ := -1
		bestScore := math.Inf(1)
		for j, editTime := range in.Edited {
			if used[j] {
				continue
			}
			distance := math.Abs(refTime - editTime)
			if distance > nnCeiling {
				continue
			}

			score := distance
			if in.weightAt(i) > 1 {
				score *= 0.7
			}
			if in.nearBoundary(refTime, nnBoundaryWindow) {
				score *= 0.3
			}
			if lastRef >= 0 {
				refDir := refTime - in.Ref[lastRef]
				editDir := editTime - in.Edited[lastEdit]
				if refDir*editDir > 0 {
					score *= 0.8
				} else if refDir*editDir < 0 {
					score *= 1.5
				}
			}

			if score < bestScore {
				bestScore = score
				bestJ = j
			}
		}
		if bestJ < 0 {
			continue
		}
		used[bestJ] = true
		pairs = append(pairs, align.Pair{
			RefIndex:  i,
			EditIndex: bestJ,
			Distance:  math.Abs(refTime - in.Edited[bestJ]),
		})
		lastRef, lastEdit = i, bestJ
	}

	return pairs, nil
}
