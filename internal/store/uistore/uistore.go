// Package uistore holds client-side UI state: theme, transient
// notifications, sidebar, modal and loading flags. State changes fan out to
// subscribers so views can re-render.
package uistore

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NaloDAO/community_app/internal/store/prefs"
)

// NotificationType classifies a toast.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
)

// DefaultNotificationDuration applies when Notify is called without an
// explicit duration.
const DefaultNotificationDuration = 5 * time.Second

// Notification is a queued toast: a severity, a title and optional
// secondary text. Duration zero means it stays until dismissed.
type Notification struct {
	ID        string
	Type      NotificationType
	Title     string
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}

// DarkModeApplier is invoked whenever the effective theme changes, with true
// for dark.
type DarkModeApplier func(dark bool)

// NotifyOption configures a single notification.
type NotifyOption func(*Notification)

// WithDuration overrides the auto-dismiss delay. Zero disables auto-dismiss.
func WithDuration(d time.Duration) NotifyOption {
	return func(n *Notification) {
		n.Duration = d
	}
}

// WithMessage adds secondary text under the title.
func WithMessage(message string) NotifyOption {
	return func(n *Notification) {
		n.Message = message
	}
}

// Store is the UI state container.
type Store struct {
	themes  prefs.ThemeStore
	applier DarkModeApplier
	log     zerolog.Logger

	mu             sync.Mutex
	theme          prefs.Theme
	notifications  []Notification
	timers         map[string]*time.Timer
	sidebarOpen    bool
	activeModal    string
	loading        bool
	loadingMessage string
	subscribers    map[string]func()

	stopWatch func()
}

// New builds the store. The initial theme comes from the saved preference,
// falling back to the system scheme; while no preference has been persisted
// the store keeps following scheme changes.
func New(themes prefs.ThemeStore, scheme prefs.SchemeSource, applier DarkModeApplier, log zerolog.Logger) *Store {
	s := &Store{
		themes:      themes,
		applier:     applier,
		log:         log,
		theme:       prefs.DefaultTheme(),
		timers:      make(map[string]*time.Timer),
		subscribers: make(map[string]func()),
	}

	theme, found, err := themes.Load()
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("loading saved theme")
	case found:
		s.theme = theme
	case scheme != nil && scheme.PrefersDark():
		s.theme.Mode = prefs.ModeDark
	}
	if applier != nil {
		applier(s.theme.Mode == prefs.ModeDark)
	}

	if scheme != nil {
		s.stopWatch = scheme.Watch(s.onSchemeChange)
	}
	return s
}

// onSchemeChange follows OS scheme flips, but only while the user has not
// persisted an explicit choice.
func (s *Store) onSchemeChange(dark bool) {
	if _, found, err := s.themes.Load(); err != nil || found {
		return
	}

	mode := prefs.ModeLight
	if dark {
		mode = prefs.ModeDark
	}

	s.mu.Lock()
	if s.theme.Mode == mode {
		s.mu.Unlock()
		return
	}
	s.theme.Mode = mode
	notify := s.broadcast()
	s.mu.Unlock()

	if s.applier != nil {
		s.applier(mode == prefs.ModeDark)
	}
	notify()
}

// Close stops the scheme watcher.
func (s *Store) Close() {
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
}

// Subscribe registers a change listener. The returned function removes it.
func (s *Store) Subscribe(fn func()) func() {
	id := uuid.NewString()
	s.mu.Lock()
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// broadcast is called with the lock held; listeners run after it is
// released.
func (s *Store) broadcast() func() {
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}

// =============================================================================
// Theme
// =============================================================================

// Theme returns the current theme.
func (s *Store) Theme() prefs.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme switches the theme, persists it and applies dark mode. A persist
// failure is logged but does not revert the switch.
func (s *Store) SetTheme(theme prefs.Theme) {
	if theme.PrimaryColor == "" {
		theme.PrimaryColor = prefs.DefaultPrimaryColor
	}

	s.mu.Lock()
	if s.theme == theme {
		s.mu.Unlock()
		return
	}
	s.theme = theme
	notify := s.broadcast()
	s.mu.Unlock()

	if err := s.themes.Save(theme); err != nil {
		s.log.Warn().Err(err).Msg("persisting theme")
	}
	if s.applier != nil {
		s.applier(theme.Mode == prefs.ModeDark)
	}
	notify()
}

// ToggleTheme flips between light and dark, keeping the accent color.
func (s *Store) ToggleTheme() {
	theme := s.Theme()
	if theme.Mode == prefs.ModeDark {
		theme.Mode = prefs.ModeLight
	} else {
		theme.Mode = prefs.ModeDark
	}
	s.SetTheme(theme)
}

// =============================================================================
// Notifications
// =============================================================================

// Notify queues a toast and returns its id. Without options it auto-dismisses
// after DefaultNotificationDuration.
func (s *Store) Notify(kind NotificationType, title string, opts ...NotifyOption) string {
	n := Notification{
		ID:        uuid.NewString(),
		Type:      kind,
		Title:     title,
		Duration:  DefaultNotificationDuration,
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&n)
	}

	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	if n.Duration > 0 {
		id := n.ID
		s.timers[id] = time.AfterFunc(n.Duration, func() {
			s.Dismiss(id)
		})
	}
	notify := s.broadcast()
	s.mu.Unlock()

	notify()
	return n.ID
}

// Dismiss removes a notification and cancels its pending auto-dismiss.
// Unknown ids are ignored.
func (s *Store) Dismiss(id string) {
	s.mu.Lock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	removed := false
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			removed = true
			break
		}
	}
	notify := s.broadcast()
	s.mu.Unlock()

	if removed {
		notify()
	}
}

// ClearNotifications drops every queued toast and cancels their timers.
func (s *Store) ClearNotifications() {
	s.mu.Lock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.notifications = nil
	notify := s.broadcast()
	s.mu.Unlock()

	notify()
}

// Notifications returns a snapshot in insertion order.
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// =============================================================================
// Chrome
// =============================================================================

// ToggleSidebar flips the sidebar.
func (s *Store) ToggleSidebar() {
	s.mu.Lock()
	s.sidebarOpen = !s.sidebarOpen
	notify := s.broadcast()
	s.mu.Unlock()
	notify()
}

// SetSidebarOpen sets the sidebar state.
func (s *Store) SetSidebarOpen(open bool) {
	s.mu.Lock()
	changed := s.sidebarOpen != open
	s.sidebarOpen = open
	notify := s.broadcast()
	s.mu.Unlock()
	if changed {
		notify()
	}
}

// SidebarOpen reports the sidebar state.
func (s *Store) SidebarOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebarOpen
}

// OpenModal makes the named modal active, replacing any other.
func (s *Store) OpenModal(name string) {
	s.mu.Lock()
	s.activeModal = name
	notify := s.broadcast()
	s.mu.Unlock()
	notify()
}

// CloseModal clears the active modal.
func (s *Store) CloseModal() {
	s.mu.Lock()
	s.activeModal = ""
	notify := s.broadcast()
	s.mu.Unlock()
	notify()
}

// ActiveModal returns the active modal name, empty when none.
func (s *Store) ActiveModal() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeModal
}

// SetLoading sets the global busy flag with an optional caption. The message
// is whatever the caller passes; pass empty when clearing.
func (s *Store) SetLoading(loading bool, message string) {
	s.mu.Lock()
	s.loading = loading
	s.loadingMessage = message
	notify := s.broadcast()
	s.mu.Unlock()
	notify()
}

// Loading reports the global busy flag.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LoadingMessage returns the caption for the busy state.
func (s *Store) LoadingMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingMessage
}
