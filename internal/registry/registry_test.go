package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/battle-arcade/internal/core"
)

type stubGame struct{ id string }

func (g stubGame) ID() string { return g.id }
func (g stubGame) Title() string { return "Stub " + g.id }
func (g stubGame) Reset(core.RuntimeConfig) {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen) {}
func (g stubGame) State() core.GameState { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub_b", func() Game { return stubGame{"stub_b"} })
	Register("stub_a", func() Game { return stubGame{"stub_a"} })

	if !Exists("stub_a") {
		t.Error("Exists(stub_a) = false, expected true")
	}
	g, err := Create("stub_a")
	if err != nil || g.ID() != "stub_a" {
		t.Errorf("Create(stub_a) = %v, %v", g, err)
	}

	var ids []string
	for _, info := range List() {
		ids = append(ids, info.ID)
		if info.ID == "stub_b" && info.Title != "Stub stub_b" {
			t.Errorf("title = %q, expected Stub stub_b", info.Title)
		}
	}
	if len(ids) < 2 {
		t.Fatalf("List() = %v, expected both stubs", ids)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("List() not sorted: %v", ids)
		}
	}
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("no_such_game")
	if !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Create() error = %v, expected ErrUnknownGame", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub_dup", func() Game { return stubGame{"stub_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("stub_dup", func() Game { return stubGame{"stub_dup"} })
}
