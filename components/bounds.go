package components

// Bounds is an axis-aligned box given by its top-left corner and size.
type Bounds struct {
	X, Y float32
	W, H float32
}

// Intersects reports whether two boxes overlap on both axes.
// Edges are half-open: boxes that only touch do not intersect.
func Intersects(a, b Bounds) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// Intersects is the method form of Intersects.
func (b Bounds) Intersects(o Bounds) bool {
	return Intersects(b, o)
}

// Center returns the box midpoint.
func (b Bounds) Center() (x, y float32) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Clamp moves the box so it lies inside area. Boxes larger than area are
// pinned to its top-left corner.
func (b Bounds) Clamp(area Bounds) Bounds {
	if b.X+b.W > area.X+area.W {
		b.X = area.X + area.W - b.W
	}
	if b.Y+b.H > area.Y+area.H {
		b.Y = area.Y + area.H - b.H
	}
	if b.X < area.X {
		b.X = area.X
	}
	if b.Y < area.Y {
		b.Y = area.Y
	}
	return b
}
