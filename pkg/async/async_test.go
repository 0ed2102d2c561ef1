package async

import (
	"context"
	"errors"
	"testing"
)

func TestLoadAsyncSuccess(t *testing.T) {
	r := New[int]()

	err := r.LoadAsync(context.Background(), func(context.Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Value().Get() != 42 {
		t.Errorf("expected value 42, got %d", r.Value().Get())
	}
	if r.Err().Get() != nil {
		t.Errorf("expected nil error signal, got %v", r.Err().Get())
	}
	if r.Loading().Get() {
		t.Error("loading must be false after success")
	}
}

func TestLoadAsyncFailure(t *testing.T) {
	r := New[int]()
	r.Value().Set(7)

	boom := errors.New("boom")
	err := r.LoadAsync(context.Background(), func(context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if r.Value().Get() != 7 {
		t.Errorf("failed load must leave the prior value, got %d", r.Value().Get())
	}
	if r.Err().Get() != boom {
		t.Errorf("expected boom in error signal, got %v", r.Err().Get())
	}
	if r.Loading().Get() {
		t.Error("loading must be false after failure")
	}
}

func TestLoadAsyncClearsPriorError(t *testing.T) {
	r := New[int]()

	boom := errors.New("boom")
	_ = r.LoadAsync(context.Background(), func(context.Context) (int, error) {
		return 0, boom
	})

	var errDuringLoad error
	_ = r.LoadAsync(context.Background(), func(context.Context) (int, error) {
		errDuringLoad = r.Err().Get()
		return 1, nil
	})

	if errDuringLoad != nil {
		t.Errorf("error signal must be cleared before the producer runs, got %v", errDuringLoad)
	}
	if r.Err().Get() != nil {
		t.Errorf("expected nil error after success, got %v", r.Err().Get())
	}
}

func TestLoadAsyncLoadingVisibleDuringProducer(t *testing.T) {
	r := New[int]()

	var loadingDuring bool
	_ = r.LoadAsync(context.Background(), func(context.Context) (int, error) {
		loadingDuring = r.Loading().Get()
		return 1, nil
	})

	if !loadingDuring {
		t.Error("loading must be true while the producer runs")
	}
}

func TestLoadAsyncLoadingClearedOnPanic(t *testing.T) {
	r := New[int]()

	func() {
		defer func() { _ = recover() }()
		_ = r.LoadAsync(context.Background(), func(context.Context) (int, error) {
			panic("producer exploded")
		})
	}()

	if r.Loading().Get() {
		t.Error("loading must be cleared even when the producer panics")
	}
}

func TestRunAsyncKeepsValue(t *testing.T) {
	r := New[string]()
	r.Value().Set("kept")

	ran := false
	err := r.RunAsync(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatal("action did not run")
	}
	if r.Value().Get() != "kept" {
		t.Errorf("RunAsync must not touch the value, got %q", r.Value().Get())
	}
}

func TestRunAsyncFailure(t *testing.T) {
	r := New[string]()

	boom := errors.New("boom")
	err := r.RunAsync(context.Background(), func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if r.Err().Get() != boom {
		t.Errorf("expected boom in error signal, got %v", r.Err().Get())
	}
	if r.Loading().Get() {
		t.Error("loading must be false after failure")
	}
}

func TestNotificationOrdering(t *testing.T) {
	r := New[int]()

	var order []string
	r.Loading().Subscribe(func() {
		if r.Loading().Get() {
			order = append(order, "loading")
		} else {
			order = append(order, "loaded")
		}
	})
	r.Value().Subscribe(func() { order = append(order, "value") })
	r.Subscribe(func() { order = append(order, "composite") })

	_ = r.LoadAsync(context.Background(), func(context.Context) (int, error) {
		return 1, nil
	})

	want := []string{"loading", "value", "loaded", "composite"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestInternalSignals(t *testing.T) {
	r := New[int]()

	sigs := r.InternalSignals()
	if len(sigs) != 4 {
		t.Fatalf("expected 4 internal signals, got %d", len(sigs))
	}

	// Subscribing through the enumeration observes a load.
	calls := 0
	for _, s := range sigs {
		s.Subscribe(func() { calls++ })
	}
	_ = r.LoadAsync(context.Background(), func(context.Context) (int, error) {
		return 1, nil
	})
	if calls == 0 {
		t.Error("internal signal subscribers saw no notifications")
	}
}

func TestDispose(t *testing.T) {
	r := New[int]()

	calls := 0
	for _, s := range r.InternalSignals() {
		s.Subscribe(func() { calls++ })
	}
	r.Dispose()

	_ = r.LoadAsync(context.Background(), func(context.Context) (int, error) {
		return 1, nil
	})
	if calls != 0 {
		t.Errorf("disposed resource must not notify, got %d calls", calls)
	}
}
