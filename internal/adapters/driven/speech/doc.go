// Package speech groups the speech recogniser adapters.
//
// Adapters:
//   - command: runs an external speech-to-text program and reads running
//     transcripts from its standard output
//   - transcript: watches a file that a dictation tool keeps rewriting
//
// Both deliver full running transcripts, never deltas.
package speech
