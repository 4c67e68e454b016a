// Package preflight provides readiness checks for the filesystem paths the
// dubbing workflow depends on. The CLI "dubforge status" command renders the
// results so an operator can spot a missing or full recordings directory
// before a session starts.
package preflight
