// Package catalog holds the static simulation content: the fixed set of
// value-chain activities, the hidden linkage rules between them, and the
// external shock events an instructor can inject.
//
// Definitions ship as embedded YAML and are parsed and validated once at
// load time. The catalog is immutable after Load; every engine computation
// takes it as read-only input.
//
// Activities fall into exactly three categories:
//   - value-creating: scored against the cohort average, carry a weight,
//   - value-supporting: enable linkages, carry neither weight nor costs,
//   - non-value-add: binary active/eliminated overhead with maintenance and
//     (usually) elimination costs.
//
// Category-specific fields are validated at construction so the rest of the
// engine can rely on the partition without re-checking.
package catalog
