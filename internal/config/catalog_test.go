package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalog(t *testing.T) {
	t.Run("MissingFileUsesDefaults", func(t *testing.T) {
		cat, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(cat.Departments) == 0 || len(cat.Sessions) != 2 {
			t.Errorf("unexpected defaults: %+v", cat)
		}
	})

	t.Run("PartialFileKeepsOtherDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		if err := os.WriteFile(path, []byte("departments:\n  - AIML\n  - DS\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		cat, err := LoadCatalog(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(cat.Departments) != 2 || cat.Departments[0] != "AIML" {
			t.Errorf("departments = %v", cat.Departments)
		}
		if len(cat.Sessions) != 2 {
			t.Errorf("sessions should keep defaults, got %v", cat.Sessions)
		}
	})

	t.Run("SaveRoundTrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		cat := DefaultCatalog()
		cat.Buildings = []string{"North"}
		if err := cat.Save(path); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := LoadCatalog(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(got.Buildings) != 1 || got.Buildings[0] != "North" {
			t.Errorf("buildings = %v", got.Buildings)
		}
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		if err := os.WriteFile(path, []byte("departments: [unclosed"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadCatalog(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
