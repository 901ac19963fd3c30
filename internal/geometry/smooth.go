package geometry

// Defaults for freehand stroke smoothing.
const (
	DefaultSmoothIterations = 2
	DefaultSmoothTension    = 0.25
)

// ChaikinSmooth resamples a polyline by corner cutting: each iteration replaces
// every segment with two points at tension and 1-tension along it, keeping the
// original endpoints exactly. Fewer than 3 points, or 0 iterations, returns the
// input unchanged.
func ChaikinSmooth(points []Vec2, iterations int, tension float64) []Vec2 {
	if len(points) < 3 || iterations <= 0 {
		return points
	}
	if tension <= 0 || tension >= 0.5 {
		tension = DefaultSmoothTension
	}

	current := points
	for it := 0; it < iterations; it++ {
		smoothed := make([]Vec2, 0, 2*len(current))
		smoothed = append(smoothed, current[0])
		for i := 0; i < len(current)-1; i++ {
			a, b := current[i], current[i+1]
			smoothed = append(smoothed, a.Lerp(b, tension), a.Lerp(b, 1-tension))
		}
		smoothed = append(smoothed, current[len(current)-1])
		current = smoothed
	}
	return current
}

// PathLength sums the Euclidean lengths of a polyline's segments.
func PathLength(points []Vec2) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += points[i].Dist(points[i+1])
	}
	return total
}

// PointAtDistance walks cumulative segment lengths and returns the point at the
// given distance from the start of the polyline, clamping at either end.
func PointAtDistance(points []Vec2, distance float64) Vec2 {
	if len(points) == 0 {
		return Vec2{}
	}
	if distance <= 0 {
		return points[0]
	}
	walked := 0.0
	for i := 0; i < len(points)-1; i++ {
		seg := points[i].Dist(points[i+1])
		if seg <= 0 {
			continue
		}
		if walked+seg >= distance {
			return points[i].Lerp(points[i+1], (distance-walked)/seg)
		}
		walked += seg
	}
	return points[len(points)-1]
}
