package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okravets/rozklad/internal/schedule"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	in := &Settings{
		UserRole:    "student",
		SelectedID:  42,
		DisplayName: "КН-21",
		FacultyID:   1,
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *out != *in {
		t.Errorf("round trip changed settings: %+v != %+v", out, in)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestLoadRejectsBadRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	os.WriteFile(path, []byte("user_role: admin\nselected_id: 1\n"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := Save(path, &Settings{UserRole: "student", SelectedID: 0}); err == nil {
		t.Fatal("expected error for zero selected_id")
	}
}

func TestSubjectConversion(t *testing.T) {
	s := &Settings{UserRole: "teacher", SelectedID: 7, DisplayName: "Іваненко І.І."}
	sub := s.Subject()
	if sub.Role != schedule.RoleTeacher || sub.ID != 7 || sub.DisplayName != "Іваненко І.І." {
		t.Errorf("unexpected subject %+v", sub)
	}

	s.UserRole = "student"
	if s.Subject().Role != schedule.RoleStudent {
		t.Error("student role not mapped")
	}
}
