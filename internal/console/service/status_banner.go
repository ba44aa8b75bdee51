package service

import (
	"sync"
	"time"
)

const DefaultStatusBannerTTL = 5 * time.Second

type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

type StatusBanner struct {
	Kind    StatusKind
	Message string
	ShownAt time.Time
}

// bannerSlot guarda o banner transitório da página; um novo banner substitui
// o anterior e rearma o timer.
type bannerSlot struct {
	ttl time.Duration

	mu         sync.Mutex
	banner     *StatusBanner
	generation uint64
	timer      *time.Timer
}

func newBannerSlot(ttl time.Duration) *bannerSlot {
	if ttl <= 0 {
		ttl = DefaultStatusBannerTTL
	}

	return &bannerSlot{ttl: ttl}
}

func (b *bannerSlot) show(kind StatusKind, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	b.generation++
	generation := b.generation

	b.banner = &StatusBanner{Kind: kind, Message: message, ShownAt: time.Now()}
	b.timer = time.AfterFunc(b.ttl, func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.generation == generation {
			b.banner = nil
			b.timer = nil
		}
	})
}

func (b *bannerSlot) current() (StatusBanner, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.banner == nil {
		return StatusBanner{}, false
	}

	return *b.banner, true
}

func (b *bannerSlot) dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	b.generation++
	b.banner = nil
}

func (b *bannerSlot) stopLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
