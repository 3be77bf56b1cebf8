package engine

// Kick tables for the Super Rotation System, y-up. Index by the orientation the
// piece is rotating from. Candidate 0 is always the unkicked position.
var (
	jlstzCW = [4][5]Vec{
		North: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		East:  {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		South: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		West:  {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	}
	jlstzCCW = [4][5]Vec{
		North: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		East:  {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		South: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		West:  {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	}
	iCW = [4][5]Vec{
		North: {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
		East:  {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
		South: {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
		West:  {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	}
	iCCW = [4][5]Vec{
		North: {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
		East:  {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
		South: {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
		West:  {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	}
	noKick = []Vec{{0, 0}}
)

// Kicks returns the ordered candidate offsets to try when rotating shape s from
// orientation from in direction dir. The returned slice must not be modified.
func Kicks(s Shape, from Orientation, dir Direction) []Vec {
	from &= 3
	switch s {
	case ShapeO:
		return noKick
	case ShapeI:
		if dir > 0 {
			return iCW[from][:]
		}
		return iCCW[from][:]
	default:
		if dir > 0 {
			return jlstzCW[from][:]
		}
		return jlstzCCW[from][:]
	}
}
