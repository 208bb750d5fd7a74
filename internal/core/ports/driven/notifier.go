package driven

// NoticeLevel classifies a user-facing notification.
type NoticeLevel string

// Notice levels.
const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notifier surfaces messages to the user. The TUI shows them in the
// status bar, the CLI writes them to stderr.
type Notifier interface {
	Notify(level NoticeLevel, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level NoticeLevel, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(level NoticeLevel, message string) {
	f(level, message)
}
