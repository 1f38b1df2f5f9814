// Package vector provides dense real vectors backed by gonum.
//
// A Vector is a plain []float64, so it can be handed to gonum's floats and
// mat packages without copying. Fixed-size 2D and 3D vectors are ordinary
// vectors built with New2 and New3.
//
// Example Usage:
//
//	v := vector.New3(1, 2, 3)
//	unit, err := v.Normalize()
//	d, err := vector.Distance(a, b, vector.L2)
package vector
