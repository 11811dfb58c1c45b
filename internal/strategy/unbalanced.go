package strategy

import (
	"math"
	"sort"

	"clipalign/internal/align"
)

const (
	// unbalancedAnchorCeiling is the relaxed distance ceiling for the
	// boundary/high-weight anchor pass.
	unbalancedAnchorCeiling = 3.0
	// unbalancedAnchorWeight marks reference points treated as anchors.
	unbalancedAnchorWeight = 1.5
	// unbalancedImprovement is the minimum relative gain a neighborhood
	// replacement must offer.
	unbalancedImprovement = 0.3
)

// Unbalanced aligns sequences of unequal cardinality in three passes: anchor
// the boundary and high-weight reference points first, fill the remainder by
// nearest-available match with a sequence-order penalty, then locally replace
// poor matches.
type Unbalanced struct{}

func (Unbalanced) Name() string { return "unbalanced" }

func (Unbalanced) Applicable(refCount, editCount int) bool {
	return refCount > 0 && editCount > 0 && refCount != editCount
}

func (s Unbalanced) Run(in Input) ([]align.Pair, error) {
	m, n := len(in.Ref), len(in.Edited)
	used := make([]bool, n)
	matched := make(map[int]int, m) // ref index -> edited index

	// Pass 1: anchors get first pick under a relaxed ceiling.
	for i, refTime := range in.Ref {
		if in.weightAt(i) < unbalancedAnchorWeight && !in.nearBoundary(refTime, nnBoundaryWindow) {
			continue
		}
		if j := nearestUnused(refTime, in.Edited, used, unbalancedAnchorCeiling); j >= 0 {
			used[j] = true
			matched[i] = j
		}
	}

	// Pass 2: everything else. Candidates are ranked globally so a weak
	// early reference point cannot steal a later point's best match; the
	// score carries a sequence-order penalty.
	type candidate struct {
		i, j  int
		score float64
	}
	var candidates []candidate
	for i, refTime := range in.Ref {
		if _, ok := matched[i]; ok {
			continue
		}
		refPos := float64(i) / math.Max(1, float64(m-1))
		for j, editTime := range in.Edited {
			if used[j] {
				continue
			}
			distance := math.Abs(refTime - editTime)
			if distance > nnCeiling {
				continue
			}
			editPos := float64(j) / math.Max(1, float64(n-1))
			candidates = append(candidates, candidate{
				i:     i,
				j:     j,
				score: distance * (1 + math.Abs(refPos-editPos)),
			})
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score < candidates[b].score
		}
		if candidates[a].i != candidates[b].i {
			return candidates[a].i < candidates[b].i
		}
		return candidates[a].j < candidates[b].j
	})
	for _, c := range candidates {
		if _, ok := matched[c.i]; ok {
			continue
		}
		if used[c.j] {
			continue
		}
		used[c.j] = true
		matched[c.i] = c.j
	}

	// Pass 3: local replacement of poor matches, in reference order so
	// contention over a freed edited point resolves the same way every run.
	matchedRefs := make([]int, 0, len(matched))
	for i := range matched {
		matchedRefs = append(matchedRefs, i)
	}
	sort.Ints(matchedRefs)
	for _, i := range matchedRefs {
		j := matched[i]
		err := math.Abs(in.Ref[i] - in.Edited[j])
		if err <= criticalError {
			continue
		}
		for dj := -2; dj <= 2; dj++ {
			cand := j + dj
			if cand < 0 || cand >= n || used[cand] {
				continue
			}
			candErr := math.Abs(in.Ref[i] - in.Edited[cand])
			if candErr <= (1-unbalancedImprovement)*err {
				used[j] = false
				used[cand] = true
				matched[i] = cand
				break
			}
		}
	}

	pairs := make([]align.Pair, 0, len(matched))
	for i, j := range matched {
		pairs = append(pairs, align.Pair{
			RefIndex:  i,
			EditIndex: j,
			Distance:  math.Abs(in.Ref[i] - in.Edited[j]),
		})
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].RefIndex < pairs[b].RefIndex })
	return pairs, nil
}

func nearestUnused(t float64, edited []float64, used []bool, ceiling float64) int {
	best := -1
	bestDist := ceiling
	for j, editTime := range edited {
		if used[j] {
			continue
		}
		if d := math.Abs(t - editTime); d <= bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}
