package frameset

// AllocateTracks resolves track specifications against the available length.
//
// Fixed tracks are served first, then percentage tracks, then relative tracks.
// Fixed and percentage demand that exceeds what is left is scaled down
// proportionally. Relative tracks split whatever remains by weight, with the
// last relative track absorbing the truncation remainder. Space still left
// over is spread over percentage tracks, or else fixed tracks, first in
// proportion to their size and then evenly; any final remainder goes to the
// last track. The result always sums to available, clamped to
// [0, MaxLength]; track values are clamped to MaxLength as well.
//
// An empty spec list yields a single track spanning the whole length.
func AllocateTracks(specs []Length, available int) []int {
	available = min(max(available, 0), MaxLength)
	if len(specs) == 0 {
		return []int{available}
	}

	sizes := make([]int, len(specs))
	var totalFixed, totalPercent, totalRelative int
	var countFixed, countPercent, countRelative int

	for i, s := range specs {
		switch s.Kind {
		case Fixed:
			sizes[i] = min(max(s.Value, 0), MaxLength)
			totalFixed += sizes[i]
			countFixed++
		case Percent:
			sizes[i] = min(max(available*min(s.Value, MaxLength)/100, 0), MaxLength)
			totalPercent += sizes[i]
			countPercent++
		case Relative:
			totalRelative += s.weight()
			countRelative++
		}
	}

	remaining := available
	remaining = claim(specs, sizes, Fixed, totalFixed, remaining)
	remaining = claim(specs, sizes, Percent, totalPercent, remaining)

	if countRelative > 0 {
		pool := remaining
		last := 0
		for i, s := range specs {
			if s.Kind != Relative {
				continue
			}
			sizes[i] = s.weight() * pool / totalRelative
			remaining -= sizes[i]
			last = i
		}
		sizes[last] += remaining
		remaining = 0
	}

	if remaining != 0 {
		switch {
		case countPercent > 0 && totalPercent > 0:
			remaining = spreadProportional(specs, sizes, Percent, totalPercent, remaining)
		case totalFixed > 0:
			remaining = spreadProportional(specs, sizes, Fixed, totalFixed, remaining)
		}
	}

	if remaining != 0 {
		switch {
		case countPercent > 0:
			remaining = spreadEvenly(specs, sizes, Percent, countPercent, remaining)
		case countFixed > 0:
			remaining = spreadEvenly(specs, sizes, Fixed, countFixed, remaining)
		}
	}

	if remaining != 0 {
		sizes[len(sizes)-1] += remaining
	}
	return sizes
}

// claim subtracts the demand of one track class from remaining, scaling the
// class down when it does not fit.
func claim(specs []Length, sizes []int, kind LengthKind, total, remaining int) int {
	if total <= remaining {
		return remaining - total
	}
	pool := remaining
	for i, s := range specs {
		if s.Kind != kind {
			continue
		}
		sizes[i] = sizes[i] * pool / total
		remaining -= sizes[i]
	}
	return remaining
}

func spreadProportional(specs []Length, sizes []int, kind LengthKind, total, remaining int) int {
	pool := remaining
	for i, s := range specs {
		if s.Kind != kind {
			continue
		}
		change := pool * sizes[i] / total
		sizes[i] += change
		remaining -= change
	}
	return remaining
}

func spreadEvenly(specs []Length, sizes []int, kind LengthKind, count, remaining int) int {
	change := remaining / count
	for i, s := range specs {
		if s.Kind != kind {
			continue
		}
		sizes[i] += change
		remaining -= change
	}
	return remaining
}

// LayOut resolves the axis for specs and available length, then applies the
// accumulated deltas. If any delta would shrink a non-empty track to zero or
// below, or push any track below zero, no delta is applied and all deltas are
// reset; LayOut then reports false.
func (a *GridAxis) LayOut(specs []Length, available int) bool {
	a.ensure(trackCount(specs))
	copy(a.sizes, AllocateTracks(specs, available))
	return a.applyDeltas()
}

func (a *GridAxis) applyDeltas() bool {
	if allZero(a.deltas) {
		return true
	}
	reject := sum(a.deltas) != 0
	for i, size := range a.sizes {
		next := size + a.deltas[i]
		if next < 0 || (size != 0 && next == 0) {
			reject = true
		}
	}
	if reject {
		clear(a.deltas)
		return false
	}
	for i := range a.sizes {
		a.sizes[i] += a.deltas[i]
	}
	return true
}
