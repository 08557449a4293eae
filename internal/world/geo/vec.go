// Package geo provides the small geometry value types shared by world
// subsystems.
package geo

import "fmt"

// Vec2 is a position on the world grid.
type Vec2 struct {
	X float64
	Y float64
}

// String formats the vector for logs and journal rows.
func (v Vec2) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Key returns a stable map key for position-scoped bookkeeping. Positions
// are quantized to centi-units so float noise from duplicated requests does
// not defeat occupancy checks.
func (v Vec2) Key() string {
	return fmt.Sprintf("%d:%d", int64(v.X*100), int64(v.Y*100))
}
