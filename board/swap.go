package board

// CanSwap reports whether Swap is available on this Board at all: it is
// forbidden in v2 problems and under visibility blending.
func (b *Board) CanSwap() bool {
	return !b.Prob.IsV2() && !b.opts.UseVisibility
}

// Swap exchanges the positions of musicians m1 and m2, reassigning their
// precomputed angular and blocker tables wholesale instead of recomputing
// them from scratch — sound because those tables depend only on position,
// not on musician identity, so swapping positions means swapping tables.
// Only the per-pair impacts (which depend on instrument, hence identity)
// are recomputed, and only for m1 and m2.
//
// Swap panics with InvariantViolation in v2 problems (closeness factors
// depend on identity-to-position assignment in a way a wholesale table swap
// would not keep consistent) and under visibility blending (the visibility
// array is keyed by attendee, not by table slot, so it does not swap
// cleanly either).
func (b *Board) Swap(m1, m2 int) {
	if b.Prob.IsV2() {
		panic(InvariantViolation{Msg: "swap is forbidden in v2 problems"})
	}
	if b.opts.UseVisibility {
		panic(InvariantViolation{Msg: "swap is forbidden under visibility blending"})
	}
	if m1 == m2 {
		return
	}
	if !b.placed[m1] && !b.placed[m2] {
		return
	}

	b.pos[m1], b.pos[m2] = b.pos[m2], b.pos[m1]
	b.placed[m1], b.placed[m2] = b.placed[m2], b.placed[m1]
	b.volumes[m1], b.volumes[m2] = b.volumes[m2], b.volumes[m1]
	b.aids[m1], b.aids[m2] = b.aids[m2], b.aids[m1]
	b.aidsRev[m1], b.aidsRev[m2] = b.aidsRev[m2], b.aidsRev[m1]
	b.blocks[m1], b.blocks[m2] = b.blocks[m2], b.blocks[m1]

	for _, i := range [2]int{m1, m2} {
		b.impacts[i] = 0
		if !b.placed[i] {
			continue
		}
		instrument := b.Prob.Musicians[i]
		for j := range b.aids[i] {
			impact := int64(b.impactIfInstrument(i, j, instrument))
			b.individualImpacts[i][j] = impact
			if b.blocks[i][j] == 0 {
				b.impacts[i] += float64(impact)
			}
		}
		b.updateAvailableMusician(i)
	}
}
