package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("loader.", 10)
	defer unsub()

	b.Emit(LoaderLoaded, "chat")

	select {
	case evt := <-ch:
		if evt.Kind != LoaderLoaded {
			t.Errorf("got kind %q, want %s", evt.Kind, LoaderLoaded)
		}
		if evt.Timestamp.IsZero() {
			t.Error("Emit() should stamp the event")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestPrefixFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("install.", 10)
	defer unsub()

	b.Emit(LoaderLoaded, nil)
	b.Emit(InstallProgress, nil)

	select {
	case evt := <-ch:
		if evt.Kind != InstallProgress {
			t.Errorf("got kind %q, want %s", evt.Kind, InstallProgress)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("love.", 10)
	unsub()
	unsub()

	b.Emit(LoveEffect, nil)

	if _, ok := <-ch; ok {
		t.Error("received event after unsubscribe")
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("loader.", 1)
	defer unsub()

	b.Emit(LoaderProgress, 1)
	b.Emit(LoaderProgress, 2)

	evt := <-ch
	if evt.Payload != 1 {
		t.Errorf("got payload %v, want 1", evt.Payload)
	}
}

func TestCloseAndNilBus(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("", 1)
	b.Close()
	b.Emit(LoaderLoaded, nil)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Close()")
	}
	unsub()

	var nb *Bus
	nb.Emit(LoaderLoaded, nil)
}

func TestSubscribeAfterClose(t *testing.T) {
	b := New()
	b.Close()
	ch, unsub := b.Subscribe("loader.", 1)
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("received an event from a closed bus")
		}
	case <-time.After(time.Second):
		t.Fatal("channel from a closed bus was never closed")
	}
	unsub()
	unsub()
}
