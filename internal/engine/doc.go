// Package engine implements the deterministic simulation core: linkage
// evaluation, shock resolution, per-activity health transitions, cohort-
// relative CAS scoring, and the full cycle transform that composes them.
//
// Every function here is pure computation over provided snapshots. The
// engine performs no I/O, holds no state, and never raises on malformed
// references: an activity or linkage ID absent from the catalog simply
// contributes nothing, so one team's bad record cannot block cohort-wide
// scoring.
//
// Scoring is relative: a team's base score is measured against the average
// health of the whole cohort, so ProcessCycle must see every team's state
// for the cycle at once. Callers are responsible for gathering a consistent
// snapshot and for mutual exclusion between cycle advances.
package engine
