package systems

import "math"

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float32) float32 {
	return float32(math.Sqrt(float64(distanceSq(x1, y1, x2, y2))))
}

// towards returns a velocity of magnitude speed pointing from (x1,y1) to (x2,y2).
// It never overshoots: when the target is closer than speed the full offset is returned.
func towards(x1, y1, x2, y2, speed float32) (float32, float32) {
	d := distance(x1, y1, x2, y2)
	if d == 0 {
		return 0, 0
	}
	if d <= speed {
		return x2 - x1, y2 - y1
	}
	return heading(x1, y1, x2, y2, speed)
}

// heading returns a velocity of magnitude speed from (x1,y1) towards (x2,y2).
func heading(x1, y1, x2, y2, speed float32) (float32, float32) {
	d := distance(x1, y1, x2, y2)
	if d == 0 {
		return 0, 0
	}
	return (x2 - x1) / d * speed, (y2 - y1) / d * speed
}
