package geom

import "math"

// TangentToCircle returns the two tangent points on the circle centered at c
// with radius r, as seen from external point p. The first return value is
// the tangent point on the right-hand side of the ray from p to c; this
// ordering matters to callers that build angle-sorted blocking windows from
// it, since swapping the two changes which interval is "blocked".
//
// TangentToCircle panics if p lies inside the circle (r² > |p-c|²), since no
// real tangent line exists in that case.
func TangentToCircle(p, c Vec2, r float64) (Vec2, Vec2) {
	d2 := p.SquareDistance(c)
	a2 := d2 - r*r
	if a2 < 0 {
		panic("geom: TangentToCircle point is inside the circle")
	}
	return crossPointsCC2(p, a2, c, r*r)
}

// crossPointsCC2 returns the two intersection points of a circle centered at
// c1 with squared radius r1Sq and a circle centered at c2 with squared radius
// r2Sq, assuming they intersect. The two return values are swapped relative
// to the textbook derivation to align with the caller's expected winding.
func crossPointsCC2(c1 Vec2, r1Sq float64, c2 Vec2, r2Sq float64) (Vec2, Vec2) {
	dv := c2.Sub(c1)
	d2 := dv.SquareLength()
	cv := d2 + r1Sq - r2Sq
	sv := math.Sqrt(4*d2*r1Sq - cv*cv)
	cv /= 2 * d2
	sv /= 2 * d2

	cvdx := cv * dv.X
	svdx := sv * dv.X
	cvdy := cv * dv.Y
	svdy := sv * dv.Y

	p1 := c1.Add(Vec2{cvdx + svdy, cvdy - svdx})
	p2 := c1.Add(Vec2{cvdx - svdy, cvdy + svdx})
	return p1, p2
}

// TangentCircleBetween returns the center of a circle of radius r tangent
// externally to two circles of equal radius commonR centered at c1 and c2,
// on the left-hand side of the line from c1 to c2 (as seen walking from c1
// towards c2). ok is false if no such circle exists.
func TangentCircleBetween(c1, c2 Vec2, commonR, r float64) (center Vec2, ok bool) {
	s := c1.Distance(c2) / 2
	d2 := (r+commonR)*(r+commonR) - s*s
	if d2 < 0 {
		return Vec2{}, false
	}
	d := math.Sqrt(d2)

	mid := c1.Add(c2).Scale(0.5)
	n := Rotate90(c2.Sub(c1)).Normalize()
	return mid.Add(n.Scale(d)), true
}

// CirclesTangentingLines returns every circle of radius r tangent to both
// line p1p2 and line q1q2. Returns an empty slice if the two lines are
// parallel (no intersection for some choice of offset signs).
func CirclesTangentingLines(p1, p2, q1, q2 Vec2, r float64) []Vec2 {
	np := Rotate90(p2.Sub(p1)).Normalize().Scale(r)
	nq := Rotate90(q2.Sub(q1)).Normalize().Scale(r)

	var res []Vec2
	for _, dp := range [2]float64{-1, 1} {
		for _, dq := range [2]float64{-1, 1} {
			lp1, lp2 := p1.Add(np.Scale(dp)), p2.Add(np.Scale(dp))
			lq1, lq2 := q1.Add(nq.Scale(dq)), q2.Add(nq.Scale(dq))
			if p, ok := lineIntersection(lp1, lp2, lq1, lq2); ok {
				res = append(res, p)
			}
		}
	}
	return res
}

// lineIntersection returns the intersection of infinite lines ab and cd.
func lineIntersection(a, b, c, d Vec2) (Vec2, bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := r.X*s.Y - r.Y*s.X
	if denom == 0 {
		return Vec2{}, false
	}
	t := ((c.X-a.X)*s.Y - (c.Y-a.Y)*s.X) / denom
	return a.Add(r.Scale(t)), true
}

// LineCircleIntersections returns the (up to two) intersections of the
// infinite line through p1,p2 with the circle centered at c with radius cr.
// Returns an empty slice if the line misses the circle.
func LineCircleIntersections(p1, p2, c Vec2, cr float64) []Vec2 {
	proj := projectPointOntoLine(p1, p2, c)
	d2 := proj.SquareDistance(c)
	cr2 := cr * cr
	l2 := cr2 - d2
	if l2 < 0 {
		return nil
	}
	l := math.Sqrt(l2)
	n := p2.Sub(p1).Normalize().Scale(l)
	return []Vec2{proj.Add(n), proj.Sub(n)}
}

func projectPointOntoLine(p1, p2, q Vec2) Vec2 {
	d := p2.Sub(p1)
	l2 := d.SquareLength()
	t := q.Sub(p1).Dot(d) / l2
	return p1.Add(d.Scale(t))
}

// CirclesTangentingLineAndCircle returns the (up to two) centers of circles
// of radius r tangent to both the line through p1,p2 and the circle centered
// at c with radius cr.
func CirclesTangentingLineAndCircle(p1, p2, c Vec2, cr, r float64) []Vec2 {
	dir := Rotate90(p2.Sub(p1).Normalize().Scale(r))

	var res []Vec2
	res = append(res, LineCircleIntersections(p1.Add(dir), p2.Add(dir), c, r+cr)...)
	res = append(res, LineCircleIntersections(p1.Sub(dir), p2.Sub(dir), c, r+cr)...)
	return res
}
