package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestAppModel_BootsIntoAssessment(t *testing.T) {
	srv := dataServer(t, "")
	env := newTestEnv(t, testConfig(srv))

	m := newAppModel(env)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected the assessment screen to start loading")
	}

	var model tea.Model = m
	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model, _ = model.Update(cmd())

	content := model.(AppModel).render()
	for _, want := range []string{"Assessor", "Finance", "0/2 answered", "Do you track cash flow?", "Submit"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	srv := dataServer(t, "")
	env := newTestEnv(t, testConfig(srv))

	var model tea.Model = newAppModel(env)
	model, _ = model.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(model.(AppModel).render(), "Terminal too small") {
		t.Error("expected the minimum size message")
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	srv := dataServer(t, "")
	env := newTestEnv(t, testConfig(srv))

	var model tea.Model = newAppModel(env)
	_, cmd := model.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}
