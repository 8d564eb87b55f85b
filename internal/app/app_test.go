package app

import (
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/router"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/screen"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/screens/summary"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/settings"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/store"
)

func testModel(t *testing.T) AppModel {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return NewAppModel(&screen.Env{
		Bank:      bank.New(nil, []bank.Question{{ID: "q1", TopicID: "signs", Text: "?", Options: []string{"a", "b"}}}),
		Progress:  st.ProgressRepo(),
		Stats:     st.StatsRepo(),
		Settings:  settings.Default(),
		NewRunner: func() *session.Runner { return &session.Runner{} },
	})
}

func TestAppModel_StatusMsg(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(screen.StatusMsg{Due: 4, Streak: 2})
	got := updated.(AppModel).status
	if got.Due != 4 || got.Streak != 2 {
		t.Errorf("status = %+v, want due 4 streak 2", got)
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestAppModel_RoutesNavigation(t *testing.T) {
	m := testModel(t)
	if m.Init() == nil {
		t.Fatal("expected home screen to load its dashboard")
	}

	m.Update(router.PushScreenMsg{Screen: summary.New(session.Summary{})})
	if m.router.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", m.router.Depth())
	}
	hints := m.footerHints(m.router.Active())
	if hints[len(hints)-1].Key != "Ctrl+C" {
		t.Error("expected Ctrl+C hint last")
	}

	m.Update(router.PopScreenMsg{})
	if m.router.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", m.router.Depth())
	}
}
