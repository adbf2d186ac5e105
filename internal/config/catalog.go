package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog lists the choices offered by the setup and upload prompts.
type Catalog struct {
	Departments []string `yaml:"departments"`
	Sessions    []string `yaml:"sessions"`
	Buildings   []string `yaml:"buildings"`
	Years       []string `yaml:"years"`
	Semesters   []string `yaml:"semesters"`
}

// DefaultCatalog returns the built-in choices.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Departments: []string{"CSE", "ECE", "EEE", "MECH", "CIVIL", "IT"},
		Sessions:    []string{"1st Half", "2nd Half"},
		Buildings:   []string{"Main", "Annex"},
		Years:       []string{"1", "2", "3", "4"},
		Semesters:   []string{"1", "2", "3", "4", "5", "6", "7", "8"},
	}
}

// LoadCatalog reads the catalog from path. A missing file yields the defaults;
// keys absent from the file keep their default values.
func LoadCatalog(path string) (*Catalog, error) {
	cat := DefaultCatalog()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cat, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// Save writes the catalog to path.
func (c *Catalog) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
