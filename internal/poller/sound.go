package poller

import (
	"errors"
	"sync"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

// ErrSoundLocked means no admin interaction has unlocked audio yet.
var ErrSoundLocked = errors.New("notification sound locked until first interaction")

// SoundGate holds the dashboard's alert state. Audio starts locked and
// stays silent until the first admin interaction unlocks it; unlocking
// is sticky for the life of the process. Toasts queue up regardless so
// the dashboard can drain them on its next poll.
type SoundGate struct {
	mu       sync.Mutex
	unlocked bool
	chimes   int
	toasts   []models.Toast
}

func NewSoundGate() *SoundGate {
	return &SoundGate{}
}

// Unlock enables audio. Called on the first admin interaction.
func (g *SoundGate) Unlock() {
	g.mu.Lock()
	g.unlocked = true
	g.mu.Unlock()
}

// Unlocked reports whether audio has been enabled.
func (g *SoundGate) Unlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked
}

// Play queues a chime for the dashboard. While locked the chime is
// absorbed and an error reported so the caller can log it.
func (g *SoundGate) Play() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.unlocked {
		return ErrSoundLocked
	}
	g.chimes++
	return nil
}

// TestSound is the admin settings button. Unlike Play it also unlocks,
// since pressing the button is itself an interaction.
func (g *SoundGate) TestSound() {
	g.mu.Lock()
	g.unlocked = true
	g.chimes++
	g.mu.Unlock()
}

// Toast queues a dashboard notification.
func (g *SoundGate) Toast(t models.Toast) {
	g.mu.Lock()
	g.toasts = append(g.toasts, t)
	g.mu.Unlock()
}

// Drain returns and clears the pending chime count and toasts. The
// dashboard calls this on every poll.
func (g *SoundGate) Drain() (int, []models.Toast) {
	g.mu.Lock()
	defer g.mu.Unlock()
	chimes := g.chimes
	toasts := g.toasts
	g.chimes = 0
	g.toasts = nil
	return chimes, toasts
}
