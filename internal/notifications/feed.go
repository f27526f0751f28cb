package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/rocketshoes-cart/pkg/logger"
	"github.com/google/uuid"
)

const defaultFeedCapacity = 50

// Level classifies a notice for presentation.
type Level string

const (
	LevelError Level = "error"
	LevelInfo  Level = "info"
)

// Notice is one user-facing message raised by a cart operation.
type Notice struct {
	ID        uuid.UUID `json:"id"`
	Level     Level     `json:"level"`
	Operation string    `json:"operation"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is the user-facing error channel.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// Feed keeps the most recent notices in memory, newest first, and mirrors each
// one to the structured log.
type Feed struct {
	mu       sync.Mutex
	notices  []Notice
	capacity int
	logg     *logger.Logger
	now      func() time.Time
}

// NewFeed builds a feed bounded to capacity notices (default 50).
func NewFeed(capacity int, logg *logger.Logger) *Feed {
	if capacity <= 0 {
		capacity = defaultFeedCapacity
	}
	return &Feed{capacity: capacity, logg: logg, now: time.Now}
}

func (f *Feed) Notify(ctx context.Context, notice Notice) {
	if notice.ID == uuid.Nil {
		notice.ID = uuid.New()
	}
	if notice.Level == "" {
		notice.Level = LevelError
	}
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = f.now().UTC()
	}

	f.mu.Lock()
	f.notices = append([]Notice{notice}, f.notices...)
	if len(f.notices) > f.capacity {
		f.notices = f.notices[:f.capacity]
	}
	f.mu.Unlock()

	if f.logg != nil {
		ctx = f.logg.WithFields(ctx, map[string]any{
			"notice_id": notice.ID.String(),
			"operation": notice.Operation,
			"level":     string(notice.Level),
		})
		f.logg.Info(ctx, "notice: "+notice.Message)
	}
}

// ListParams filters the feed.
type ListParams struct {
	Limit      int
	UnreadOnly bool
}

// List returns notices newest first.
func (f *Feed) List(params ListParams) []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Notice, 0, len(f.notices))
	for _, n := range f.notices {
		if params.UnreadOnly && n.Read {
			continue
		}
		out = append(out, n)
		if params.Limit > 0 && len(out) == params.Limit {
			break
		}
	}
	return out
}

// MarkAllRead flags every stored notice as read and returns how many changed.
func (f *Feed) MarkAllRead() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	changed := 0
	for i := range f.notices {
		if !f.notices[i].Read {
			f.notices[i].Read = true
			changed++
		}
	}
	return changed
}

// DeleteOlderThan drops notices created before cutoff and returns how many
// were removed.
func (f *Feed) DeleteOlderThan(cutoff time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.notices[:0]
	for _, n := range f.notices {
		if n.CreatedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, n)
	}
	removed := len(f.notices) - len(kept)
	clear(f.notices[len(kept):])
	f.notices = kept
	return removed
}
