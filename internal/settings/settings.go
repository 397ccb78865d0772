// Package settings persists which subject's schedule the user follows. The
// record is written once by `rozklad setup` and read at every startup.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/okravets/rozklad/internal/schedule"
)

// ErrNotConfigured means no settings record exists yet; the caller should
// point the user at `rozklad setup`.
var ErrNotConfigured = errors.New("no subject configured")

type Settings struct {
	UserRole     string `yaml:"user_role"` // "student" or "teacher"
	SelectedID   int    `yaml:"selected_id"`
	DisplayName  string `yaml:"display_name"`
	FacultyID    int    `yaml:"faculty_id"`
	DepartmentID int    `yaml:"department_id,omitempty"`
}

// Subject converts the stored record into the aggregator's subject value.
func (s *Settings) Subject() schedule.Subject {
	role := schedule.RoleStudent
	if s.UserRole == string(schedule.RoleTeacher) {
		role = schedule.RoleTeacher
	}
	return schedule.Subject{Role: role, ID: s.SelectedID, DisplayName: s.DisplayName}
}

func validate(s *Settings) error {
	if s.UserRole != string(schedule.RoleStudent) && s.UserRole != string(schedule.RoleTeacher) {
		return fmt.Errorf("user_role must be %q or %q, got %q",
			schedule.RoleStudent, schedule.RoleTeacher, s.UserRole)
	}
	if s.SelectedID <= 0 {
		return fmt.Errorf("selected_id must be positive")
	}
	return nil
}

func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return &s, nil
}

func Save(path string, s *Settings) error {
	if err := validate(s); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
