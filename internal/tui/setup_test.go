// ABOUTME: Unit tests for the podfeed setup TUI wizard bubbletea model.
// ABOUTME: Uses synthetic tea.Msg values to test state machine transitions.
package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func enter(t *testing.T, m SetupModel) (SetupModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(SetupModel), cmd
}

func TestNewSetupModel_DefaultValues(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	if m.step != StepBackend {
		t.Errorf("expected initial step StepBackend, got %d", m.step)
	}
	for i, in := range m.inputs {
		if in.Value() != "" {
			t.Errorf("expected empty input %d for new config, got %q", i, in.Value())
		}
	}
}

func TestNewSetupModel_ExistingConfig(t *testing.T) {
	m := NewSetupModel(SetupResult{Backend: "yaml", DataDir: "/custom/path", PostgresDSN: "postgres://x"})
	got := m.Result()
	if got.Backend != "yaml" || got.DataDir != "/custom/path" || got.PostgresDSN != "postgres://x" {
		t.Errorf("expected pre-filled values, got %+v", got)
	}
}

func TestSetupModel_StepTransitions(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg")
	m := NewSetupModel(SetupResult{})

	m, _ = enter(t, m)
	if m.step != StepDataDir {
		t.Errorf("expected StepDataDir after Enter on backend, got %d", m.step)
	}
	if m.inputs[inputBackend].Value() != "sqlite" {
		t.Errorf("expected default backend 'sqlite', got %q", m.inputs[inputBackend].Value())
	}

	m, cmd := enter(t, m)
	if m.step != StepDone {
		t.Errorf("expected StepDone after Enter on data dir, got %d", m.step)
	}
	if cmd == nil {
		t.Error("expected quit cmd when done")
	}
	if got := m.Result().DataDir; got != "/xdg/podfeed" {
		t.Errorf("expected default data dir, got %q", got)
	}
}

func TestSetupModel_PostgresFlow(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	m.inputs[inputBackend].SetValue("postgres")

	m, _ = enter(t, m)
	if m.step != StepPostgresDSN {
		t.Fatalf("expected StepPostgresDSN, got %d", m.step)
	}

	m, _ = enter(t, m)
	if m.step != StepPostgresDSN {
		t.Error("expected to stay on StepPostgresDSN without a DSN")
	}
	if !strings.Contains(m.View(), "required") {
		t.Error("expected view to explain the DSN is required")
	}

	m.inputs[inputDSN].SetValue("postgres://localhost/podfeed")
	m, _ = enter(t, m)
	if m.step != StepDone {
		t.Fatalf("expected StepDone, got %d", m.step)
	}
	if m.Result().PostgresDSN != "postgres://localhost/podfeed" {
		t.Errorf("unexpected DSN %q", m.Result().PostgresDSN)
	}
}

func TestSetupModel_InvalidBackend(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	m.inputs[inputBackend].SetValue("markdown")

	m, _ = enter(t, m)
	if m.step != StepBackend {
		t.Errorf("expected to stay on StepBackend with invalid backend, got %d", m.step)
	}
	if !strings.Contains(m.View(), "unknown backend") {
		t.Error("expected view to show the backend error")
	}
}

func TestSetupModel_YAMLBackend(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	m.inputs[inputBackend].SetValue("yaml")

	m, _ = enter(t, m)
	if m.step != StepDataDir {
		t.Errorf("expected StepDataDir with valid backend, got %d", m.step)
	}
}

func TestSetupModel_BackendCaseInsensitive(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	m.inputs[inputBackend].SetValue("SQLite")

	m, _ = enter(t, m)
	if m.inputs[inputBackend].Value() != "sqlite" {
		t.Errorf("expected lowercased backend, got %q", m.inputs[inputBackend].Value())
	}
}

func TestSetupModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEscape} {
		m := NewSetupModel(SetupResult{})
		updated, cmd := m.Update(tea.KeyMsg{Type: key})
		m = updated.(SetupModel)
		if cmd == nil {
			t.Errorf("expected quit cmd on %v", key)
		}
		if !m.quitting {
			t.Errorf("expected quitting to be true on %v", key)
		}
		if m.ShouldSave() {
			t.Errorf("expected ShouldSave false after %v", key)
		}
	}
}

func TestSetupModel_ShouldSave(t *testing.T) {
	t.Run("done means save", func(t *testing.T) {
		m := NewSetupModel(SetupResult{})
		m.step = StepDone
		if !m.ShouldSave() {
			t.Error("expected ShouldSave true when done")
		}
	})

	t.Run("quit means no save", func(t *testing.T) {
		m := NewSetupModel(SetupResult{})
		m.quitting = true
		if m.ShouldSave() {
			t.Error("expected ShouldSave false when quitting")
		}
	})
}

func TestSetupModel_View(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	if !strings.Contains(m.View(), "PODFEED") {
		t.Error("expected view to contain PODFEED branding")
	}

	tests := []struct {
		step Step
		want string
	}{
		{StepBackend, "Storage Backend"},
		{StepDataDir, "Data Directory"},
		{StepPostgresDSN, "Postgres Connection String"},
		{StepDone, "saved"},
	}
	for _, tt := range tests {
		m.step = tt.step
		if !strings.Contains(m.View(), tt.want) {
			t.Errorf("expected step %d view to mention %q", tt.step, tt.want)
		}
	}
}

func TestSetupModel_ViewDoneHidesDSN(t *testing.T) {
	m := NewSetupModel(SetupResult{Backend: "postgres", PostgresDSN: "postgres://user:secret@db/podfeed"})
	m.step = StepDone
	if strings.Contains(m.View(), "secret") {
		t.Error("expected done view not to print the DSN")
	}
}
