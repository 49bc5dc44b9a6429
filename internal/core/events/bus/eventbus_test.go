package bus

import (
	"errors"
	"sync"
	"testing"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_ string, handlers int, err error, _ int64) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got any
	_, err := b.Subscribe("shake", func(e Event) error {
		got = e.Data()
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = b.Publish(NewEvent("shake", "arena", 150)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got != 150 {
		t.Fatalf("handler not called, got %v", got)
	}
}

func TestDeliveryOrderFollowsSubscription(t *testing.T) {
	b := New()
	var order []string
	_, _ = b.SubscribeAll(func(Event) error { order = append(order, "all"); return nil })
	_, _ = b.Subscribe("flash", func(Event) error { order = append(order, "flash"); return nil })
	_, _ = b.Subscribe("sound", func(Event) error { order = append(order, "sound"); return nil })

	_ = b.PublishBatch(NewEvent("flash", "arena", nil), NewEvent("sound", "arena", nil))

	want := []string{"all", "flash", "all", "sound"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestErrorsAreJoined(t *testing.T) {
	b := New()
	e1 := errors.New("first")
	e2 := errors.New("second")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })

	err := b.Publish(NewEvent("x", "src", nil))
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("expected joined error, got %v", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	count := 0
	sub, _ := b.Subscribe("x", func(Event) error { count++; return nil })
	_ = b.Publish(NewEvent("x", "src", nil))
	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if sub.IsActive() {
		t.Fatal("subscription still active")
	}
	_ = b.Publish(NewEvent("x", "src", nil))
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if err := b.Unsubscribe(nil); err != nil {
		t.Fatalf("nil unsubscribe: %v", err)
	}
}

func TestCancelWhileCheckingActive(t *testing.T) {
	b := New()
	subs := make([]Subscription, 32)
	for i := range subs {
		subs[i], _ = b.Subscribe("x", func(Event) error { return nil })
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = sub.Cancel()
		}()
		go func() {
			defer wg.Done()
			_ = sub.IsActive()
		}()
	}
	wg.Wait()

	for i, sub := range subs {
		if sub.IsActive() {
			t.Fatalf("subscription %d still active", i)
		}
	}
}

func TestInvalidSubscriptions(t *testing.T) {
	b := New()
	if _, err := b.Subscribe("x", nil); !errors.Is(err, ErrNilHandler) {
		t.Fatalf("expected ErrNilHandler, got %v", err)
	}
	if _, err := b.Subscribe("", func(Event) error { return nil }); !errors.Is(err, ErrEmptyType) {
		t.Fatalf("expected ErrEmptyType, got %v", err)
	}
	if err := b.Publish(nil); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestFiltersAndObserverMetrics(t *testing.T) {
	b := New()
	obs := &testObserver{}
	b.AddObserver(obs)
	handlerErr := errors.New("fail")
	_, _ = b.Subscribe("x", func(Event) error { return handlerErr })

	_ = b.PublishWithFilters(NewEvent("x", "src", nil), func(Event) bool { return false })
	_ = b.Publish(NewEvent("x", "src", nil))

	m := b.GetMetrics()
	if m.DroppedByFilters != 1 || m.Published != 1 || m.Errors != 1 || m.DeliveredHandlers != 1 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if obs.publishCount != 1 || obs.deliveredCount != 1 || !errors.Is(obs.lastErr, handlerErr) {
		t.Fatalf("unexpected observer state: %+v", obs)
	}

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("x", "src", nil))
	if obs.publishCount != 1 {
		t.Fatal("removed observer still notified")
	}
}

func BenchmarkPublish(b *testing.B) {
	bus := New()
	for i := 0; i < 8; i++ {
		_, _ = bus.Subscribe("texture", func(Event) error { return nil })
	}
	ev := NewEvent("texture", "arena", "ai3_left")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bus.Publish(ev)
	}
}
