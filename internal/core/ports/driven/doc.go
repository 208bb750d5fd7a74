// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - QAService: Remote document upload and question answering (HTTP)
//   - HistoryStore: Durable conversation log persistence (SQLite)
//   - ConfigStore: Application configuration (TOML)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SpeechRecognizer: Speech-to-text input. Without it, dictation is reported
//     as unsupported once at startup.
//   - Notifier: User-facing notices. Without it, failures are only returned.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
