package dispatcher_test

import (
	"errors"
	"testing"

	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

func reply(msg string) handler.HandlerFunc {
	return func(*execctx.Context, []string) handler.Result {
		return handler.SuccessWithMessage(msg)
	}
}

func TestRegistryRegisterAndResolve(t *testing.T) {
	registry := dispatcher.NewRegistry()

	if err := registry.Register("test", reply("one"), "a test"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	got := registry.Resolve("test")
	if got == nil {
		t.Fatal("expected non-nil handler")
	}
	if res := got.Handle(nil, nil); res.Message != "one" {
		t.Errorf("Handle = %q, want one", res.Message)
	}
	if registry.Resolve("missing") != nil {
		t.Error("expected nil for missing command")
	}
}

func TestRegistryIsCaseSensitive(t *testing.T) {
	registry := dispatcher.NewRegistry()
	_ = registry.Register("add", reply("add"), "")

	if registry.Has("ADD") {
		t.Error("lookup must be case-sensitive")
	}
}

func TestRegistryLastWriteWins(t *testing.T) {
	registry := dispatcher.NewRegistry()
	_ = registry.Register("x", reply("first"), "first")
	_ = registry.Register("x", reply("second"), "second")

	if res := registry.Resolve("x").Handle(nil, nil); res.Message != "second" {
		t.Errorf("Handle = %q, want second", res.Message)
	}
	if registry.Count() != 1 {
		t.Errorf("Count = %d, want 1", registry.Count())
	}
	if n := len(registry.HelpEntries()); n != 2 {
		t.Errorf("HelpEntries accumulates: got %d entries, want 2", n)
	}

	desc := registry.Describe()
	if len(desc) != 1 || desc[0].Description != "second" {
		t.Errorf("Describe = %+v", desc)
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	registry := dispatcher.NewRegistry()

	for _, name := range []string{"", "two words", "tab\tname"} {
		if err := registry.Register(name, reply(""), ""); !errors.Is(err, dispatcher.ErrInvalidCommand) {
			t.Errorf("Register(%q) error = %v", name, err)
		}
	}
	if err := registry.Register("nil", nil, ""); !errors.Is(err, dispatcher.ErrInvalidCommand) {
		t.Errorf("Register(nil handler) error = %v", err)
	}
	if err := registry.RegisterFunc("nilfunc", nil, ""); !errors.Is(err, dispatcher.ErrInvalidCommand) {
		t.Errorf("RegisterFunc(nil) error = %v", err)
	}
}

func TestRegistryUnregisterLeavesStaleHelp(t *testing.T) {
	registry := dispatcher.NewRegistry()
	_ = registry.Register("keep", reply(""), "kept")
	_ = registry.Register("gone", reply(""), "removed")
	_ = registry.Register("bare", reply(""), "")

	registry.Unregister("gone")

	if registry.Has("gone") {
		t.Error("gone should not be live")
	}

	stale := false
	for _, e := range registry.HelpEntries() {
		if e.Name == "gone" {
			stale = true
		}
	}
	if !stale {
		t.Error("HelpEntries should still hold the removed command")
	}

	want := []dispatcher.HelpEntry{
		{Name: "keep", Description: "kept"},
		{Name: "bare", Description: dispatcher.NoDescription},
	}
	got := registry.Describe()
	if len(got) != len(want) {
		t.Fatalf("Describe = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Describe[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRegistryListAndClear(t *testing.T) {
	registry := dispatcher.NewRegistry()
	_ = registry.Register("b", reply(""), "b")
	_ = registry.Register("a", reply(""), "a")

	list := registry.List()
	if len(list) != 2 || list[0] != "a" || list[1] != "b" {
		t.Errorf("List = %v, want [a b]", list)
	}

	registry.Clear()
	if registry.Count() != 0 || len(registry.HelpEntries()) != 0 {
		t.Error("Clear should remove handlers and help")
	}
}
