package notifications

import (
	"sort"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/metrics"
)

const (
	DefaultInboxCapacity = 100

	DropReasonDuplicate = "duplicate"
	DropReasonExpired   = "expired"
	DropReasonEvicted   = "evicted"
)

var Module = fx.Provide(NewInbox)

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics
	Clock   func() time.Time `optional:"true"`
}

type Filter struct {
	ProfileId  *string
	UnreadOnly bool
}

// Inbox is the bounded notification center of the session. The oldest notification is
// evicted when a new one is added to a full inbox. Notifications that show a toast are
// also queued until the client takes them, whether they persist or not.
type Inbox struct {
	capacity int
	dedup    *Deduplicator
	logger   *zap.SugaredLogger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu     sync.Mutex
	items  *queue.Queue
	toasts *queue.Queue
}

func NewInbox(p Params) (*Inbox, error) {
	capacity := DefaultInboxCapacity
	window := DefaultDedupWindow
	if p.Config != nil {
		if p.Config.NotificationInboxCapacity > 0 {
			capacity = p.Config.NotificationInboxCapacity
		}
		if p.Config.NotificationDedupWindow > 0 {
			window = p.Config.NotificationDedupWindow
		}
	}
	dedup, err := NewDeduplicator(window)
	if err != nil {
		return nil, err
	}

	now := p.Clock
	if now == nil {
		now = time.Now
	}
	return &Inbox{
		capacity: capacity,
		dedup:    dedup,
		logger:   p.Logger,
		metrics:  p.Metrics,
		now:      now,
		items:    queue.New(),
		toasts:   queue.New(),
	}, nil
}

// Add delivers the notification. Returns false if it was dropped as a duplicate or
// because it has already expired. Notifications that don't persist are only delivered
// as toasts.
func (i *Inbox) Add(n Notification) (Notification, bool) {
	now := i.now()
	if n.Id == "" {
		n.Id = uuid.NewString()
	}
	if n.CreatedTime.IsZero() {
		n.CreatedTime = now
	}
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	if n.Actions == nil {
		n.Actions = []Action{}
	}

	if n.IsExpired(now) {
		i.drop(n, DropReasonExpired)
		return n, false
	}
	if !i.dedup.Accept(n, now) {
		i.drop(n, DropReasonDuplicate)
		return n, false
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if n.ShowToast {
		for i.toasts.Length() >= i.capacity {
			i.toasts.Remove()
		}
		toast := deepcopy.Copy(n).(Notification)
		i.toasts.Add(&toast)
	}
	if !n.Persist {
		return n, true
	}

	for i.items.Length() >= i.capacity {
		evicted := i.items.Remove().(*Notification)
		i.drop(*evicted, DropReasonEvicted)
	}
	stored := deepcopy.Copy(n).(Notification)
	i.items.Add(&stored)
	return n, true
}

// TakeToasts returns the toasts queued since the last call, oldest first. Each toast is returned once.
func (i *Inbox) TakeToasts() []Notification {
	now := i.now()
	i.mu.Lock()
	defer i.mu.Unlock()

	result := make([]Notification, 0, i.toasts.Length())
	for i.toasts.Length() > 0 {
		n := i.toasts.Remove().(*Notification)
		if !n.IsExpired(now) {
			result = append(result, *n)
		}
	}
	return result
}

func (i *Inbox) drop(n Notification, reason string) {
	i.logger.Debugw("notification dropped", "notificationId", n.Id, "type", n.Type, "reason", reason)
	if i.metrics != nil {
		i.metrics.NotificationsDropped.WithLabelValues(reason).Inc()
	}
}

// List returns the notifications matching the filter, newest first. Dismissed and
// expired notifications are never listed.
func (i *Inbox) List(filter Filter) []Notification {
	now := i.now()
	i.mu.Lock()
	defer i.mu.Unlock()

	result := make([]Notification, 0, i.items.Length())
	i.each(func(n *Notification) {
		if n.Dismissed || n.IsExpired(now) || !n.BelongsTo(filter.ProfileId) {
			return
		}
		if filter.UnreadOnly && n.Read {
			return
		}
		result = append(result, deepcopy.Copy(*n).(Notification))
	})
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].CreatedTime.After(result[b].CreatedTime)
	})
	return result
}

func (i *Inbox) MarkRead(id string) error {
	now := i.now()
	i.mu.Lock()
	defer i.mu.Unlock()

	n := i.find(id)
	if n == nil {
		return ErrNotFound
	}
	if !n.Read {
		n.Read = true
		n.ReadTime = &now
	}
	return nil
}

// MarkAllRead marks the unread notifications of the profile, or of all profiles when
// profileId is nil, as read and returns their count
func (i *Inbox) MarkAllRead(profileId *string) int {
	now := i.now()
	i.mu.Lock()
	defer i.mu.Unlock()

	count := 0
	i.each(func(n *Notification) {
		if n.Read || !n.BelongsTo(profileId) {
			return
		}
		n.Read = true
		n.ReadTime = &now
		count++
	})
	return count
}

func (i *Inbox) Dismiss(id string) error {
	now := i.now()
	i.mu.Lock()
	defer i.mu.Unlock()

	n := i.find(id)
	if n == nil || n.Dismissed {
		return ErrNotFound
	}
	n.Dismissed = true
	n.DismissedTime = &now
	return nil
}

func (i *Inbox) UnreadCount(profileId *string) int {
	return len(i.List(Filter{ProfileId: profileId, UnreadOnly: true}))
}

// CleanupExpired removes the expired and dismissed notifications and returns the number of expired ones
func (i *Inbox) CleanupExpired() int {
	now := i.now()
	i.mu.Lock()
	defer i.mu.Unlock()

	kept := queue.New()
	expired := 0
	for i.items.Length() > 0 {
		n := i.items.Remove().(*Notification)
		if n.IsExpired(now) {
			expired++
			continue
		}
		if !n.Dismissed {
			kept.Add(n)
		}
	}
	i.items = kept
	if expired > 0 {
		i.logger.Infow("cleaned up expired notifications", "count", expired)
	}
	return expired
}

// Clear removes every notification and forgets the content seen so far
func (i *Inbox) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = queue.New()
	i.toasts = queue.New()
	i.dedup.Reset()
}

func (i *Inbox) each(fn func(n *Notification)) {
	for j := 0; j < i.items.Length(); j++ {
		fn(i.items.Get(j).(*Notification))
	}
}

func (i *Inbox) find(id string) *Notification {
	var found *Notification
	i.each(func(n *Notification) {
		if n.Id == id {
			found = n
		}
	})
	return found
}
