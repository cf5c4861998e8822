package mqtt

import (
	"context"
	"encoding/json"

	"github.com/kilianp07/workplan/core/events"
	coremqtt "github.com/kilianp07/workplan/core/mqtt"
	"github.com/kilianp07/workplan/infra/logger"
	"github.com/kilianp07/workplan/internal/eventbus"
)

// StartNotifier subscribes to the event bus and publishes every planning
// event as JSON on <prefix>/<topic>, e.g. workplan/optimize. It stops when
// the context is canceled or the bus is closed.
func StartNotifier(ctx context.Context, bus eventbus.EventBus[events.Event], pub coremqtt.Publisher, prefix string) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || pub == nil {
		close(done)
		return done
	}
	log := logger.New("mqtt_notifier")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					log.Errorf("encode %s event: %v", ev.Topic(), err)
					continue
				}
				if err := pub.Publish(prefix+"/"+ev.Topic(), payload); err != nil {
					log.Warnf("notify %s: %v", ev.Topic(), err)
				}
			}
		}
	}()
	return done
}
