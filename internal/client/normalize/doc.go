// Package normalize turns backend payloads of unknown shape into canonical
// records.
//
// Every canonical field has a declared, ordered list of source keys. The first
// key present in the payload wins; a JSON null counts as absent. Nothing here
// performs I/O or touches session state.
package normalize
