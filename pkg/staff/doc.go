// Package staff computes the geometry of a single staff: its five lines,
// closing barline, clef box and the centre of every note head.
//
// All coordinates are page points with Y growing upward, so a higher pitch
// has a larger Y. [Build] is a pure function of its inputs; staves can be
// laid out concurrently without coordination.
//
// # Horizontal spacing
//
// The first note sits just past the clef box ([Geometry.Anchor]); the last
// of targetCount notes sits one radius before the right margin
// ([Geometry.LastCenter]). Notes in between are spaced evenly. When that
// spacing would fall below [Geometry.MinSpacing] the minimum is used instead
// and notes that would cross the margin are dropped.
package staff
