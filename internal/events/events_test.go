package events

import (
	"testing"
)

func TestSubscribeReceivesMatchingType(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()

	banners := bus.Subscribe(EventBanner)
	bus.Publish(NewBannerEvent(BannerError, "boom"))
	bus.Publish(NewSessionChangedEvent(true))

	select {
	case e := <-banners:
		banner, ok := e.(*BannerEvent)
		if !ok {
			t.Fatalf("unexpected event type %T", e)
		}
		if banner.Message != "boom" || banner.Level != BannerError {
			t.Errorf("unexpected banner: %+v", banner)
		}
	default:
		t.Fatal("expected a banner event")
	}

	select {
	case e := <-banners:
		t.Errorf("received unrelated event: %v", e.Type())
	default:
	}
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()

	all := bus.SubscribeAll()
	bus.Publish(NewViewChangedEvent("dashboard"))
	bus.Publish(NewCatalogLoadingEvent(true))

	if got := len(all); got != 2 {
		t.Errorf("buffered events = %d, want 2", got)
	}
}

func TestPublishDropsWhenFull(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	bus.Subscribe(EventBanner)
	bus.Publish(NewBannerEvent(BannerError, "one"))
	bus.Publish(NewBannerEvent(BannerError, "two")) // buffer full, dropped

	if got := bus.DroppedEventCount(); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()

	ch := bus.Subscribe(EventBanner)
	bus.Unsubscribe(EventBanner, ch)
	bus.Publish(NewBannerEvent(BannerSuccess, "hi"))

	select {
	case e := <-ch:
		t.Errorf("received event after unsubscribe: %v", e.Type())
	default:
	}
}

func TestUnsubscribeAllStopsDelivery(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()

	ch := bus.SubscribeAll()
	other := bus.SubscribeAll()
	bus.UnsubscribeAll(ch)
	bus.Publish(NewViewChangedEvent("dashboard"))

	select {
	case e := <-ch:
		t.Errorf("received event after unsubscribe: %v", e.Type())
	default:
	}
	if got := len(other); got != 1 {
		t.Errorf("remaining subscriber got %d events, want 1", got)
	}
}

func TestCloseClosesChannels(t *testing.T) {
	bus := NewEventBus(4)
	ch := bus.SubscribeAll()

	bus.Close()
	if _, open := <-ch; open {
		t.Error("channel must be closed")
	}

	// Publishing and subscribing after close must not panic.
	bus.Publish(NewViewChangedEvent("login"))
	late := bus.Subscribe(EventBanner)
	if _, open := <-late; open {
		t.Error("late subscription must yield a closed channel")
	}
}
