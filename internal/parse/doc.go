// Package parse turns heterogeneous engine export formats into canonical
// (key, text) lines behind one adapter interface. Formats are added by
// registering a new adapter under a new id; the dispatcher and existing
// adapters never change.
package parse
