package app

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// NotificationType selects the toast prefix and color.
type NotificationType int

// Notification kinds.
const (
	NotificationSuccess NotificationType = iota
	NotificationError
	NotificationWarning
	NotificationInfo
	NotificationLoading // rendered with the spinner, never expires
)

// LoadingNotificationID is the fixed ID of the single loading toast.
const LoadingNotificationID = "__loading__"

const maxNotifications = 10

// Notification is one toast.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration // zero means sticky
}

// IsExpired reports whether a timed notification has outlived its duration.
func (n Notification) IsExpired(now time.Time) bool {
	return n.Duration > 0 && now.Sub(n.CreatedAt) > n.Duration
}

// AddNotification queues a toast and returns its ID. Only the newest
// maxNotifications are kept.
func (s *State) AddNotification(typ NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.notifications = append(s.notifications, Notification{
		CreatedAt: time.Now(),
		ID:        id,
		Message:   message,
		Type:      typ,
		Duration:  duration,
	})
	if extra := len(s.notifications) - maxNotifications; extra > 0 {
		s.notifications = slices.Delete(s.notifications, 0, extra)
	}
	return id
}

// RemoveNotification drops a toast by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool { return n.ID == id })
}

// ClearExpiredNotifications drops every expired toast.
func (s *State) ClearExpiredNotifications() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool { return n.IsExpired(now) })
}

// GetNotifications returns the toasts that have not expired yet.
func (s *State) GetNotifications() []Notification {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired(now) {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification shows or relabels the sticky loading toast.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.IndexFunc(s.notifications, func(n Notification) bool { return n.ID == LoadingNotificationID }); i >= 0 {
		s.notifications[i].Message = message
		return
	}
	s.notifications = append(s.notifications, Notification{
		CreatedAt: time.Now(),
		ID:        LoadingNotificationID,
		Message:   message,
		Type:      NotificationLoading,
	})
}

// ClearLoadingNotification removes the loading toast.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
