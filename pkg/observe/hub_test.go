package observe

import (
	"testing"
)

func TestSelectiveNotification(t *testing.T) {
	h := NewHub()

	var aCalls, bCalls int
	h.Subscribe("x", true, func([]string) { aCalls++ })
	h.Subscribe("", false, func([]string) { bCalls++ })

	h.Changed("y")
	if aCalls != 0 {
		t.Errorf("exact subscriber of x notified for y: %d calls", aCalls)
	}
	if bCalls != 1 {
		t.Errorf("form-wide subscriber calls = %d, want 1", bCalls)
	}

	h.Changed("x")
	if aCalls != 1 || bCalls != 2 {
		t.Errorf("after mutating x: aCalls = %d, bCalls = %d, want 1, 2", aCalls, bCalls)
	}
}

func TestPrefixMatchesDescendants(t *testing.T) {
	h := NewHub()

	var calls int
	h.Subscribe("user", false, func([]string) { calls++ })

	h.Changed("user.email")
	h.Changed("user.addresses[0].street")
	h.Changed("username")

	if calls != 2 {
		t.Errorf("calls = %d, want 2 (username is not a descendant of user)", calls)
	}
}

func TestExactDoesNotMatchDescendants(t *testing.T) {
	h := NewHub()

	var calls int
	h.Subscribe("user", true, func([]string) { calls++ })

	h.Changed("user.email")
	if calls != 0 {
		t.Error("exact subscriber must not match descendants")
	}
	h.Changed("user")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBatchCoalesces(t *testing.T) {
	h := NewHub()

	var calls int
	var lastChanged []string
	h.Subscribe("", false, func(changed []string) {
		calls++
		lastChanged = changed
	})

	h.Batch(func() {
		h.Changed("a")
		h.Changed("b")
		h.Changed("a")
	})

	if calls != 1 {
		t.Fatalf("calls = %d, want 1 per batch", calls)
	}
	if len(lastChanged) != 2 || lastChanged[0] != "a" || lastChanged[1] != "b" {
		t.Errorf("changed = %v, want [a b]", lastChanged)
	}
}

func TestNestedBatches(t *testing.T) {
	h := NewHub()

	var calls int
	h.Subscribe("", false, func([]string) { calls++ })

	h.Begin()
	h.Changed("a")
	h.Begin()
	h.Changed("b")
	h.End()
	if calls != 0 {
		t.Fatal("inner End must not flush")
	}
	h.End()
	if calls != 1 {
		t.Errorf("calls = %d, want 1 after outer End", calls)
	}
}

func TestEmptyBatchDoesNotNotify(t *testing.T) {
	h := NewHub()
	var calls int
	h.Subscribe("", false, func([]string) { calls++ })
	h.Batch(func() {})
	if calls != 0 {
		t.Error("a batch with no mutations must not notify")
	}
}

func TestRegistrationOrder(t *testing.T) {
	h := NewHub()

	var order []string
	h.Subscribe("", false, func([]string) { order = append(order, "first") })
	h.Subscribe("", false, func([]string) { order = append(order, "second") })
	h.Subscribe("", false, func([]string) { order = append(order, "third") })

	h.Changed("x")

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	h := NewHub()

	var calls int
	unsub := h.Subscribe("", false, func([]string) { calls++ })
	h.Changed("x")
	unsub()
	h.Changed("y")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}

func TestUnsubscribeDuringFlush(t *testing.T) {
	h := NewHub()

	var unsubSecond func()
	var secondCalls int
	h.Subscribe("", false, func([]string) { unsubSecond() })
	unsubSecond = h.Subscribe("", false, func([]string) { secondCalls++ })

	h.Changed("x")
	if secondCalls != 0 {
		t.Errorf("subscriber removed mid-round was still called %d times", secondCalls)
	}
}

func TestSubscriberPanicDoesNotStopRound(t *testing.T) {
	h := NewHub()

	var after int
	h.Subscribe("", false, func([]string) { panic("boom") })
	h.Subscribe("", false, func([]string) { after++ })

	h.Changed("x")
	if after != 1 {
		t.Errorf("subscriber after a panicking one not called: %d", after)
	}
}

func TestChangedAggregatesAncestorSet(t *testing.T) {
	h := NewHub()

	var calls int
	h.Subscribe("a.b", true, func([]string) { calls++ })

	// The engine reports a leaf mutation together with its ancestors, so
	// an exact watcher of an ancestor container sees descendant changes.
	h.Changed("a.b[0].c", "a.b[0]", "a.b", "a")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
