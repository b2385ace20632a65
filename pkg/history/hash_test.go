package history

import (
	"testing"

	"github.com/vango-dev/history/pkg/location"
)

func newTestWindow(initial string) *location.Window {
	return location.NewWindow(initial)
}

func TestHash_InitialValueFromLocation(t *testing.T) {
	win := newTestWindow("landing")
	h := NewHash(WithLocation(win))
	defer h.Close()

	if h.Current() != "landing" {
		t.Errorf("Current() = %q, want %q", h.Current(), "landing")
	}
	if h.Active() {
		t.Error("provider should start inactive")
	}
	if h.SubscriptionState() != SubscriptionPaused {
		t.Errorf("SubscriptionState() = %v, want paused", h.SubscriptionState())
	}
	if win.Listeners() != 1 {
		t.Errorf("location listeners = %d, want 1", win.Listeners())
	}
}

func TestHash_DefaultsToGlobalLocation(t *testing.T) {
	h := NewHash()
	defer h.Close()

	if h.loc != location.Global() {
		t.Error("provider without WithLocation should use location.Global()")
	}
}

func TestHash_LifecycleScenario(t *testing.T) {
	win := newTestWindow("landing")
	h := NewHash(WithLocation(win))
	defer h.Close()
	rec := record(t, h)

	// Construction already read "landing", so the first Listen has nothing
	// to reconcile.
	h.Listen()
	rec.expect(t)
	if h.Current() != "landing" {
		t.Fatalf("Current() = %q, want %q", h.Current(), "landing")
	}

	win.Navigate("profile")
	rec.expect(t, "profile")
	if rec.events[0].Cause != CauseExternal {
		t.Errorf("cause = %q, want %q", rec.events[0].Cause, CauseExternal)
	}
	if h.Current() != "profile" {
		t.Fatalf("Current() = %q, want %q", h.Current(), "profile")
	}

	rec.reset()
	h.Unlisten()
	win.Navigate("settings")
	rec.expect(t)
	if h.Current() != "profile" {
		t.Fatalf("Current() = %q while unlistened, want %q", h.Current(), "profile")
	}

	h.Listen()
	rec.expect(t, "settings")
	if rec.events[0].Cause != CauseReconcile {
		t.Errorf("cause = %q, want %q", rec.events[0].Cause, CauseReconcile)
	}
	if h.Current() != "settings" {
		t.Errorf("Current() = %q, want %q", h.Current(), "settings")
	}
}

func TestHash_PausedChangesAreNotReplayed(t *testing.T) {
	win := newTestWindow("a")
	h := NewHash(WithLocation(win))
	defer h.Close()
	rec := record(t, h)

	win.Navigate("b")
	win.Navigate("c")
	win.Back()

	h.Listen()
	rec.expect(t, "b")
}

func TestHash_SetPushesEntry(t *testing.T) {
	win := newTestWindow("home")
	h := NewHash(WithLocation(win))
	defer h.Close()
	h.Listen()
	rec := record(t, h)

	h.Set("about")

	rec.expect(t, "about")
	if win.Hash() != "about" {
		t.Errorf("location hash = %q, want %q", win.Hash(), "about")
	}
	if win.Len() != 2 || win.Pushes() != 1 || win.Replaces() != 0 {
		t.Errorf("entries = %q, pushes = %d, replaces = %d", win.Entries(), win.Pushes(), win.Replaces())
	}
}

func TestHash_ReplaceDoesNotPush(t *testing.T) {
	win := newTestWindow("home")
	h := NewHash(WithLocation(win))
	defer h.Close()
	h.Listen()
	rec := record(t, h)

	h.Replace("login")

	rec.expect(t, "login")
	if h.Current() != "login" {
		t.Errorf("Current() = %q, want %q", h.Current(), "login")
	}
	if win.Len() != 1 || win.Pushes() != 0 || win.Replaces() != 1 {
		t.Errorf("entries = %q, pushes = %d, replaces = %d", win.Entries(), win.Pushes(), win.Replaces())
	}
	if win.Hash() != "login" {
		t.Errorf("location hash = %q, want %q", win.Hash(), "login")
	}
}

func TestHash_SetSamePathStillEmits(t *testing.T) {
	win := newTestWindow("home")
	h := NewHash(WithLocation(win))
	defer h.Close()
	rec := record(t, h)

	h.Set("home")
	h.Set("home")

	rec.expect(t, "home", "home")
}

func TestHash_SetDoesNotEchoAsExternal(t *testing.T) {
	win := newTestWindow("home")
	h := NewHash(WithLocation(win))
	defer h.Close()
	h.Listen()
	rec := record(t, h)

	h.Set("a")
	h.Replace("b")
	h.Listen()

	rec.expect(t, "a", "b")
}

func TestHash_ListenAfterSetKeepsLeadingHash(t *testing.T) {
	tests := []struct {
		name string
		nav  func(h *HashHistory, path string)
	}{
		{"set", (*HashHistory).Set},
		{"replace", (*HashHistory).Replace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := newTestWindow("home")
			h := NewHash(WithLocation(win))
			defer h.Close()
			h.Listen()
			rec := record(t, h)

			tt.nav(h, "#x")
			rec.expect(t, "#x")
			rec.reset()

			h.Listen()
			rec.expect(t)
			if h.Current() != "#x" || win.Hash() != "#x" {
				t.Errorf("Current() = %q, location hash = %q, want %q", h.Current(), win.Hash(), "#x")
			}
		})
	}
}

func TestHash_BackForwardWhileListening(t *testing.T) {
	win := newTestWindow("home")
	h := NewHash(WithLocation(win))
	defer h.Close()
	h.Listen()
	rec := record(t, h)

	h.Set("a")
	h.Set("b")
	win.Back()
	win.Forward()

	rec.expect(t, "a", "b", "a", "b")
	for _, e := range rec.events[2:] {
		if e.Cause != CauseExternal {
			t.Errorf("cause = %q, want %q", e.Cause, CauseExternal)
		}
	}
}

func TestHash_ListenUnlistenIdempotent(t *testing.T) {
	win := newTestWindow("home")
	h := NewHash(WithLocation(win))
	defer h.Close()
	rec := record(t, h)

	h.Listen()
	h.Listen()
	if !h.Active() {
		t.Fatal("provider should be active after Listen")
	}
	win.Navigate("x")
	rec.expect(t, "x")

	rec.reset()
	h.Unlisten()
	h.Unlisten()
	if h.Active() {
		t.Fatal("provider should be inactive after Unlisten")
	}
	win.Navigate("y")
	rec.expect(t)

	h.Listen()
	rec.expect(t, "y")
	if win.Listeners() != 1 {
		t.Errorf("location listeners = %d, want 1 after cycling", win.Listeners())
	}
}

func TestHash_CloseReleasesOnce(t *testing.T) {
	win := newTestWindow("home")
	h := NewHash(WithLocation(win))
	rec := record(t, h)
	h.Listen()

	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if win.Listeners() != 0 {
		t.Errorf("location listeners = %d, want 0", win.Listeners())
	}
	if h.SubscriptionState() != SubscriptionCancelled {
		t.Errorf("SubscriptionState() = %v, want cancelled", h.SubscriptionState())
	}

	win.Navigate("after")
	h.Listen()
	h.Set("set-after")
	rec.expect(t)
	if h.Active() {
		t.Error("closed provider must not become active")
	}
}

func TestHash_MultipleProvidersShareLocation(t *testing.T) {
	win := newTestWindow("home")
	master := NewHash(WithLocation(win))
	defer master.Close()
	sub := NewHash(WithLocation(win))
	defer sub.Close()

	recMaster := record(t, master)
	recSub := record(t, sub)

	master.Listen()
	win.Navigate("x")

	recMaster.expect(t, "x")
	recSub.expect(t)
	if sub.Current() != "home" {
		t.Errorf("inactive provider Current() = %q, want %q", sub.Current(), "home")
	}

	master.Unlisten()
	sub.Listen()
	recSub.expect(t, "x")
}
