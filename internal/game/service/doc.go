// Package service orchestrates the simulation over storage: session and
// team creation, decision submission with full validation, and the cycle
// advance that runs the engine across the whole cohort.
//
// The service owns no locking. Callers must guarantee that no two cycle
// advances run concurrently for the same session; within one advance the
// service gathers every team's state before any transition so scoring sees a
// consistent cohort snapshot.
//
// Rejections (validation, not-found, wrong state) happen before any write;
// a rejected operation leaves storage untouched.
package service
