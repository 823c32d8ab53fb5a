package models

// Notice levels, matching the storefront toast styles.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// DefaultDismissAfterMS is how long a toast stays on screen.
const DefaultDismissAfterMS = 3000

// Event types published on a session's topic.
const (
	EventCount   = "count"
	EventNotice  = "notice"
	EventConfirm = "confirm"
)

// Notice is a transient message for the visitor.
type Notice struct {
	Message        string `json:"message"`
	Level          string `json:"level"`
	DismissAfterMS int    `json:"dismiss_after_ms"`
}

// NewNotice returns a notice with the default dismiss delay.
func NewNotice(message, level string) Notice {
	if level == "" {
		level = LevelInfo
	}
	return Notice{Message: message, Level: level, DismissAfterMS: DefaultDismissAfterMS}
}

// Event is one server-sent event for a visitor session.
type Event struct {
	Type   string  `json:"type"`
	Count  *int    `json:"count,omitempty"`
	Notice *Notice `json:"notice,omitempty"`
	Prompt string  `json:"prompt,omitempty"`
}

// CountEvent reports a new cart badge count.
func CountEvent(count int) Event {
	return Event{Type: EventCount, Count: &count}
}

// NoticeEvent wraps a notice.
func NoticeEvent(n Notice) Event {
	return Event{Type: EventNotice, Notice: &n}
}

// ConfirmEvent asks the visitor to confirm an action.
func ConfirmEvent(prompt string) Event {
	return Event{Type: EventConfirm, Prompt: prompt}
}
