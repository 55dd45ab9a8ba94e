package internal

import (
	"sync"
	"testing"
)

func TestRegistryAbortInvokesHandleOnce(t *testing.T) {
	reg := NewRequestRegistry()
	calls := 0
	reg.Register("req-1", func() { calls++ })

	if !reg.Abort("req-1") {
		t.Fatal("Abort() = false, want true")
	}
	if calls != 1 {
		t.Errorf("handle invoked %d times, want 1", calls)
	}
	if reg.Abort("req-1") {
		t.Error("second Abort() = true, want false")
	}
	if calls != 1 {
		t.Errorf("handle invoked %d times after second abort, want 1", calls)
	}
}

func TestRegistryAbortUnknownRequest(t *testing.T) {
	reg := NewRequestRegistry()
	if reg.Abort("missing") {
		t.Error("Abort() = true for unknown id, want false")
	}
}

func TestRegistryCompletePreventsAbort(t *testing.T) {
	reg := NewRequestRegistry()
	called := false
	reg.Register("req-1", func() { called = true })

	reg.Complete("req-1")
	if reg.Abort("req-1") {
		t.Error("Abort() after Complete() = true, want false")
	}
	if called {
		t.Error("handle invoked after Complete()")
	}
}

func TestRegistryCompleteIdempotent(t *testing.T) {
	reg := NewRequestRegistry()
	reg.Register("req-1", func() {})
	reg.Complete("req-1")
	reg.Complete("req-1")
	if reg.Has("req-1") {
		t.Error("Has() = true after Complete()")
	}
}

func TestRegistryIndependentRequests(t *testing.T) {
	reg := NewRequestRegistry()
	aborted1, aborted2 := false, false
	reg.Register("req-1", func() { aborted1 = true })
	reg.Register("req-2", func() { aborted2 = true })

	if !reg.Abort("req-1") {
		t.Fatal("Abort(req-1) = false")
	}
	if aborted1 != true || aborted2 != false {
		t.Errorf("aborted1 = %v, aborted2 = %v; want true, false", aborted1, aborted2)
	}
	if !reg.Has("req-2") {
		t.Error("req-2 removed by abort of req-1")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistryDoubleRegisterLastWriterWins(t *testing.T) {
	reg := NewRequestRegistry()
	firstCalled, secondCalled := false, false
	reg.Register("req-1", func() { firstCalled = true })
	reg.Register("req-1", func() { secondCalled = true })

	if !reg.Abort("req-1") {
		t.Fatal("Abort() = false")
	}
	if firstCalled {
		t.Error("replaced handle was invoked")
	}
	if !secondCalled {
		t.Error("newest handle was not invoked")
	}
}

func TestRegistryConcurrentAbortAndComplete(t *testing.T) {
	reg := NewRequestRegistry()
	var mu sync.Mutex
	calls := 0
	reg.Register("req-1", func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Abort("req-1")
		}()
		go func() {
			defer wg.Done()
			reg.Complete("req-1")
		}()
	}
	wg.Wait()

	if calls > 1 {
		t.Errorf("handle invoked %d times, want at most 1", calls)
	}
	if reg.Has("req-1") {
		t.Error("req-1 still registered after abort/complete race")
	}
}
