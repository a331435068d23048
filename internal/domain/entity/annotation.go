package entity

// Annotation is a decorative text placed in the world
type Annotation struct {
	X, Y float64
	Text string
}
