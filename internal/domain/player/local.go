package player

//go:generate mockgen -destination=../../mocks/mock_local.go -package=mocks github.com/edumarques81/stellar-radio/internal/domain/player LocalElement,WakeLock

// LocalElement is the fallback player under direct control of the backend.
type LocalElement interface {
	// PlayURI replaces whatever is loaded with uri and starts playing it.
	PlayURI(uri string) error
	SetVolume(percent int) error
	Resume() error
	Pause() error
	Stop() error
	Paused() (bool, error)
}

// WakeLock keeps the displaying client awake while playback runs unattended.
type WakeLock interface {
	Acquire() error
	Release() error
}
