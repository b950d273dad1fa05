package core

// Point is a canvas coordinate.
type Point struct {
	X float64
	Y float64
}

// StrokeKind distinguishes the start of a stroke from its continuation.
type StrokeKind int

const (
	// StrokeDot starts a new stroke: a single point with no predecessor.
	StrokeDot StrokeKind = iota
	// StrokeSegment continues a stroke: a line from From to To.
	StrokeSegment
)

// Stroke is one drawing step. From is meaningful only for StrokeSegment.
type Stroke struct {
	Kind  StrokeKind
	From  Point
	To    Point
	Color string
}
