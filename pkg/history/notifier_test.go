package history

import "testing"

func TestNotifier_EmitOrder(t *testing.T) {
	var n Notifier
	var got []int

	n.Subscribe(func(Event) { got = append(got, 1) })
	n.Subscribe(func(Event) { got = append(got, 2) })
	n.Subscribe(func(Event) { got = append(got, 3) })

	n.Emit(Event{Type: EventChange, Value: "x"})

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", got)
	}
}

func TestNotifier_EmitWithoutHandlers(t *testing.T) {
	var n Notifier
	n.Emit(Event{Type: EventChange, Value: "x"})
	if n.Len() != 0 {
		t.Errorf("Len() = %d, want 0", n.Len())
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	var n Notifier
	calls := 0
	id := n.Subscribe(func(Event) { calls++ })

	if !n.Unsubscribe(id) {
		t.Fatal("Unsubscribe should report removal")
	}
	if n.Unsubscribe(id) {
		t.Error("second Unsubscribe should report nothing removed")
	}

	n.Emit(Event{Type: EventChange})
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestNotifier_UnsubscribeDuringEmit(t *testing.T) {
	var n Notifier
	var secondID uint64
	secondCalls := 0
	firstCalls := 0

	var firstID uint64
	firstID = n.Subscribe(func(Event) {
		firstCalls++
		n.Unsubscribe(firstID)
		n.Unsubscribe(secondID)
	})
	secondID = n.Subscribe(func(Event) { secondCalls++ })

	n.Emit(Event{Type: EventChange})
	n.Emit(Event{Type: EventChange})

	if firstCalls != 1 {
		t.Errorf("first handler calls = %d, want 1", firstCalls)
	}
	if secondCalls != 0 {
		t.Errorf("handler removed mid-emit was called %d times", secondCalls)
	}
}

func TestNotifier_SubscribeDuringEmit(t *testing.T) {
	var n Notifier
	late := 0
	n.Subscribe(func(Event) {
		n.Subscribe(func(Event) { late++ })
	})

	n.Emit(Event{Type: EventChange})
	if late != 0 {
		t.Errorf("handler added mid-emit ran in the same emission")
	}
	n.Emit(Event{Type: EventChange})
	if late != 1 {
		t.Errorf("late = %d, want 1", late)
	}
}

func TestNotifier_Clear(t *testing.T) {
	var n Notifier
	calls := 0
	n.Subscribe(func(Event) { calls++ })
	n.Subscribe(func(Event) { calls++ })

	n.Clear()
	n.Emit(Event{Type: EventChange})

	if calls != 0 || n.Len() != 0 {
		t.Errorf("calls = %d, Len() = %d after Clear", calls, n.Len())
	}
}

func TestNotifier_OnUnsubscribeIsIdempotent(t *testing.T) {
	var n Notifier
	stop := n.on(func(Event) {})
	other := n.Subscribe(func(Event) {})

	stop()
	stop()

	if n.Len() != 1 {
		t.Errorf("Len() = %d, want 1", n.Len())
	}
	if !n.Unsubscribe(other) {
		t.Error("unrelated handler should still be registered")
	}
}
