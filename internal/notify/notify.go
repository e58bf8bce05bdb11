package notify

// TrackKind identifies which sound a track plays.
type TrackKind string

const (
	// TrackReadyCheck plays on ready-check start and on every nag
	TrackReadyCheck TrackKind = "ready_check"
	// TrackSquadReady plays when every squad member is ready
	TrackSquadReady TrackKind = "squad_ready"
)

// Track is one sound to play.
type Track struct {
	Kind TrackKind
	// File is a custom sound path; empty selects the platform default.
	File string
	// Volume is a percentage, 0-100.
	Volume int
}

// Notification is a desktop notification.
type Notification struct {
	Title   string
	Message string
}

const appTitle = "squadready"

// flashNotification is shown when the tracker asks for attention.
var flashNotification = Notification{
	Title:   appTitle,
	Message: "Squad ready check needs your attention",
}

// NewNotification creates a new Notification with the given parameters
func NewNotification(title, message string) Notification {
	return Notification{Title: title, Message: message}
}
