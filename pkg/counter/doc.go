// Package counter persists a monotonically-tracked 32-bit count
// across a rotating set of EEPROM slots so no single cell exhausts
// its write-cycle budget.
package counter

// The recovery scan assumes at most one slot is torn per crash and
// that a torn value's magnitude does not coincidentally mimic a
// wraparound. This is a best-effort heuristic, not a proven recovery
// protocol; it is kept as-is for compatibility with the storage
// layout of deployed units.
