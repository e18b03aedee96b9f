// Package domain models the simulation's persistent records: game sessions,
// teams with their per-activity state, submitted decisions, and the
// append-only cycle result history.
//
// Everything here is plain data plus pure constructors. Constructors take
// injected clocks and ID generators so callers control time and randomness;
// nothing in this package performs I/O or touches storage.
package domain
