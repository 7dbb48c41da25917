// Package pitch maps pitch names to vertical staff offsets and classifies
// those offsets against the five-line staff.
//
// # Offsets
//
// An offset is measured in points from the staff baseline (the lowest line),
// growing upward. Adjacent diatonic steps are [Step] (5) points apart, so the
// five staff lines sit at 0, 10, 20, 30 and 40 and the four spaces at 5, 15,
// 25 and 35.
//
// # Vocabulary
//
// The vocabulary is fixed: the seventeen names reachable in first position
// on a violin, from Sol3 (open G string) to Si5, written in solfège with an
// octave number. [Names] lists them low to high and [Strings] groups them by
// the string they are played on.
//
// # Classification
//
// [Classify] places an offset on a line, in a space, or outside the staff.
// [LedgerLines] enumerates the ledger lines that bridge the staff and an
// out-of-range note. The two use different tolerances: [LineTolerance] for
// note heads inside the staff and [LedgerTolerance] for ledger placement.
package pitch
