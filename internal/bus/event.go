package bus

import "time"

// Event is a notification published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Event kinds.
const (
	LoaderStatusChanged = "loader.status_changed"
	LoaderProgress      = "loader.progress"
	LoaderLoaded        = "loader.loaded"
	LoaderFailed        = "loader.failed"

	InstallStarted  = "install.started"
	InstallProgress = "install.progress"
	InstallFinished = "install.finished"
	InstallFailed   = "install.failed"

	LoveEffect = "love.effect"

	WatchChanged = "watch.changed"
)
