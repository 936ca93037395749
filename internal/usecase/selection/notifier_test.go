package selection

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitClosed(t *testing.T, ch <-chan Change) {
	t.Helper()
	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("subscription channel was not closed")
		}
	}
}

func TestSubscribe_ReceivesChanges(t *testing.T) {
	svc, _ := newService(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.Subscribe(ctx)
	if _, err := svc.Toggle(context.Background(), "s1", "drybot"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	select {
	case c := <-ch:
		if c.Session != "s1" || join(c.IDs) != "drybot" {
			t.Errorf("change = %+v", c)
		}
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}

	if err := svc.Clear(context.Background(), "s1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	select {
	case c := <-ch:
		if c.Session != "s1" || len(c.IDs) != 0 {
			t.Errorf("clear change = %+v", c)
		}
	case <-time.After(time.Second):
		t.Fatal("no clear change delivered")
	}

	cancel()
	waitClosed(t, ch)
}

func TestSubscribe_ClosedOnCancel(t *testing.T) {
	n := newNotifier(1)
	ctx, cancel := context.WithCancel(context.Background())
	ch := n.subscribe(ctx)
	if n.len() != 1 {
		t.Fatalf("subscribers = %d", n.len())
	}

	cancel()
	waitClosed(t, ch)
	if n.len() != 0 {
		t.Errorf("subscriber not removed, have %d", n.len())
	}
	if dropped := n.publish(Change{Session: "s"}); dropped != 0 {
		t.Errorf("publish after unsubscribe dropped %d", dropped)
	}
}

func TestPublish_SlowSubscriberDrops(t *testing.T) {
	n := newNotifier(2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := n.subscribe(ctx)

	dropped := 0
	for range 5 {
		dropped += n.publish(Change{Session: "s", IDs: []string{"a"}})
	}
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	if len(ch) != 2 {
		t.Errorf("buffered = %d, want 2", len(ch))
	}

	cancel()
	waitClosed(t, ch)
}

func TestPublish_CopiesIDs(t *testing.T) {
	n := newNotifier(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := n.subscribe(ctx)

	ids := []string{"a"}
	n.publish(Change{Session: "s", IDs: ids})
	ids[0] = "mutated"

	c := <-ch
	if c.IDs[0] != "a" {
		t.Errorf("subscriber saw %q", c.IDs[0])
	}
	cancel()
	waitClosed(t, ch)
}

func TestPublish_ManySubscribers(t *testing.T) {
	n := newNotifier(1)
	ctx, cancel := context.WithCancel(context.Background())

	chans := make([]<-chan Change, 10)
	for i := range chans {
		chans[i] = n.subscribe(ctx)
	}
	if dropped := n.publish(Change{Session: "s"}); dropped != 0 {
		t.Errorf("dropped = %d", dropped)
	}
	for _, ch := range chans {
		if len(ch) != 1 {
			t.Errorf("subscriber missed the change")
		}
	}

	cancel()
	for _, ch := range chans {
		waitClosed(t, ch)
	}
}
