package runner

// Vec3 is a world position; -Z is ahead of the player.
type Vec3 struct {
	X, Y, Z float64
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// BoxAt builds a cube of edge size centred on c.
func BoxAt(c Vec3, size float64) Box {
	h := size / 2
	return Box{
		Min: Vec3{c.X - h, c.Y - h, c.Z - h},
		Max: Vec3{c.X + h, c.Y + h, c.Z + h},
	}
}

// Intersects reports overlap. Touching faces count.
func (b Box) Intersects(o Box) bool {
	return !(o.Max.X < b.Min.X || o.Min.X > b.Max.X ||
		o.Max.Y < b.Min.Y || o.Min.Y > b.Max.Y ||
		o.Max.Z < b.Min.Z || o.Min.Z > b.Max.Z)
}
