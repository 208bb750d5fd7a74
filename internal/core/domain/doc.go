// Package domain defines the core business entities for pdfchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - UploadFile / DocumentSession: the loaded PDF and its backend identifier
//   - Entry / Conversation: question, answer and source records with a
//     selection cursor
//   - TranscriptUpdate: running speech transcripts
//   - AppSettings: service, history and speech configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
