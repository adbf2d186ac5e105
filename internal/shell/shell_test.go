package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestActivateFiresRefresh(t *testing.T) {
	var refreshed []string
	tab := func(name string) Tab {
		return Tab{Name: name, Refresh: func(ctx context.Context) error {
			refreshed = append(refreshed, name)
			return nil
		}}
	}
	s := New(zerolog.Nop(), tab("create-exam"), tab("generate-sheet"), tab("exams"))

	if s.Active() != "create-exam" {
		t.Fatalf("initial tab = %q", s.Active())
	}
	if err := s.Activate(context.Background(), "generate-sheet"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := s.Activate(context.Background(), "generate-sheet"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if !s.IsActive("generate-sheet") || s.IsActive("create-exam") || s.IsActive("exams") {
		t.Error("exactly one tab must be active")
	}
	if len(refreshed) != 2 {
		t.Errorf("refresh should fire on every activation, got %v", refreshed)
	}
	if got := s.Header(); got != "create-exam | [generate-sheet] | exams" {
		t.Errorf("header = %q", got)
	}
	if err := s.Activate(context.Background(), "nope"); err == nil || s.Active() != "generate-sheet" {
		t.Error("unknown tab must not change the active tab")
	}
}

func TestRefreshFailureKeepsSwitch(t *testing.T) {
	boom := errors.New("offline")
	s := New(zerolog.Nop(),
		Tab{Name: "a"},
		Tab{Name: "b", Refresh: func(ctx context.Context) error { return boom }},
	)
	if err := s.Activate(context.Background(), "b"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if s.Active() != "b" {
		t.Error("tab switch should stand after a failed refresh")
	}
}

func TestModalDismissal(t *testing.T) {
	s := New(zerolog.Nop())
	s.AddModal(Modal{Name: "new-exam"})
	s.AddModal(Modal{Name: "upload-check"})

	if err := s.OpenModal("missing"); err == nil {
		t.Error("unknown modal should fail")
	}

	_ = s.OpenModal("new-exam")
	if m, ok := s.Current(); !ok || m.Name != "new-exam" {
		t.Fatalf("current = %+v", m)
	}
	if s.Key("Enter") {
		t.Error("only Escape dismisses")
	}
	if !s.Key("Escape") {
		t.Error("Escape should dismiss")
	}
	if _, ok := s.Current(); ok {
		t.Error("modal still open")
	}

	_ = s.OpenModal("new-exam")
	_ = s.OpenModal("upload-check")
	if m, _ := s.Current(); m.Name != "upload-check" {
		t.Errorf("current = %q", m.Name)
	}
	s.CloseModal("new-exam")
	if _, ok := s.Current(); !ok {
		t.Error("closing a hidden modal must not affect the open one")
	}
	if !s.ClickOutside() || s.ClickOutside() {
		t.Error("outside click closes once")
	}
}

func TestSidebarToggle(t *testing.T) {
	s := New(zerolog.Nop())
	if !s.SidebarOpen() {
		t.Fatal("sidebar starts open")
	}
	if s.ToggleSidebar() || s.SidebarOpen() {
		t.Error("toggle should hide")
	}
	if !s.ToggleSidebar() {
		t.Error("toggle should show")
	}
}
