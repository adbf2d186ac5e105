package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Tab is one dashboard section. Refresh runs every time the tab is activated.
type Tab struct {
	Name    string
	Title   string
	Refresh func(ctx context.Context) error
}

// Modal is an overlay dialog. Closing it only hides it.
type Modal struct {
	Name  string
	Title string
}

// Shell is the chrome shared by dashboard pages: a sidebar, a tab strip with
// exactly one active tab, and at most one open modal.
type Shell struct {
	log     zerolog.Logger
	tabs    []Tab
	active  int
	modals  map[string]Modal
	open    string
	sidebar bool
}

// New creates a Shell with the first tab active. Its refresh has not run yet;
// call Activate to load it.
func New(log zerolog.Logger, tabs ...Tab) *Shell {
	return &Shell{
		log:     log.With().Str("component", "shell").Logger(),
		tabs:    tabs,
		modals:  make(map[string]Modal),
		sidebar: true,
	}
}

// Tabs returns the tabs in display order.
func (s *Shell) Tabs() []Tab {
	return append([]Tab(nil), s.tabs...)
}

// Active returns the name of the active tab.
func (s *Shell) Active() string {
	if len(s.tabs) == 0 {
		return ""
	}
	return s.tabs[s.active].Name
}

// IsActive reports whether name is the active tab.
func (s *Shell) IsActive(name string) bool {
	return s.Active() == name
}

// Activate makes name the only active tab and fires its refresh. A refresh
// failure is returned but the switch stands.
func (s *Shell) Activate(ctx context.Context, name string) error {
	idx := -1
	for i, t := range s.tabs {
		if t.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("unknown tab %q", name)
	}

	s.active = idx
	s.log.Debug().Str("tab", name).Msg("Tab activated")

	if refresh := s.tabs[idx].Refresh; refresh != nil {
		if err := refresh(ctx); err != nil {
			s.log.Warn().Err(err).Str("tab", name).Msg("Tab refresh failed")
			return err
		}
	}
	return nil
}

// ToggleSidebar flips the sidebar and returns whether it is now shown.
func (s *Shell) ToggleSidebar() bool {
	s.sidebar = !s.sidebar
	return s.sidebar
}

// SidebarOpen reports whether the sidebar is shown.
func (s *Shell) SidebarOpen() bool { return s.sidebar }

// AddModal registers a modal.
func (s *Shell) AddModal(m Modal) {
	s.modals[m.Name] = m
}

// OpenModal shows modal name, hiding any other open modal.
func (s *Shell) OpenModal(name string) error {
	if _, ok := s.modals[name]; !ok {
		return fmt.Errorf("unknown modal %q", name)
	}
	s.open = name
	return nil
}

// CloseModal hides modal name if it is open.
func (s *Shell) CloseModal(name string) {
	if s.open == name {
		s.open = ""
	}
}

// Current returns the open modal, if any.
func (s *Shell) Current() (Modal, bool) {
	if s.open == "" {
		return Modal{}, false
	}
	return s.modals[s.open], true
}

// ClickOutside dismisses the open modal. It reports whether one was closed.
func (s *Shell) ClickOutside() bool {
	return s.dismiss()
}

// Key handles a key press. Escape dismisses the open modal.
func (s *Shell) Key(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "escape", "esc":
		return s.dismiss()
	}
	return false
}

func (s *Shell) dismiss() bool {
	if s.open == "" {
		return false
	}
	s.log.Debug().Str("modal", s.open).Msg("Modal dismissed")
	s.open = ""
	return true
}

// Header renders the tab strip, e.g. "create-exam | [exams]".
func (s *Shell) Header() string {
	parts := make([]string, len(s.tabs))
	for i, t := range s.tabs {
		label := t.Title
		if label == "" {
			label = t.Name
		}
		if i == s.active {
			label = "[" + label + "]"
		}
		parts[i] = label
	}
	return strings.Join(parts, " | ")
}
