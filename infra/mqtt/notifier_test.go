package mqtt

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/workplan/core/events"
	"github.com/kilianp07/workplan/core/model"
	"github.com/kilianp07/workplan/internal/eventbus"
)

type memPublisher struct {
	mu   sync.Mutex
	msgs map[string][]byte
	got  chan string
}

func newMemPublisher() *memPublisher {
	return &memPublisher{msgs: make(map[string][]byte), got: make(chan string, 4)}
}

func (m *memPublisher) Publish(topic string, payload []byte) error {
	m.mu.Lock()
	m.msgs[topic] = payload
	m.mu.Unlock()
	m.got <- topic
	return nil
}

func TestNotifier_PublishesEvents(t *testing.T) {
	bus := eventbus.New[events.Event](0)
	pub := newMemPublisher()
	ctx, cancel := context.WithCancel(context.Background())
	done := StartNotifier(ctx, bus, pub, "plans")

	bus.Publish(events.SolveCompleted{
		RunID:  "r1",
		Budget: 1000,
		Result: model.OptimizationResult{Status: model.StatusOptimal, Allocation: []int{10, 0}, ObjectiveValue: 50},
	})

	select {
	case topic := <-pub.got:
		if topic != "plans/optimize" {
			t.Fatalf("unexpected topic %s", topic)
		}
	case <-time.After(time.Second):
		t.Fatal("event not published")
	}

	var msg struct {
		RunID  string `json:"run_id"`
		Result struct {
			Status string `json:"status"`
		} `json:"result"`
	}
	pub.mu.Lock()
	err := json.Unmarshal(pub.msgs["plans/optimize"], &msg)
	pub.mu.Unlock()
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if msg.RunID != "r1" || msg.Result.Status != "Optimal" {
		t.Fatalf("unexpected payload %+v", msg)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifier did not stop")
	}
}

func TestNotifier_StopsOnBusClose(t *testing.T) {
	bus := eventbus.New[events.Event](0)
	done := StartNotifier(context.Background(), bus, newMemPublisher(), "plans")
	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifier did not stop")
	}
}

func TestNotifier_NilPublisher(t *testing.T) {
	done := StartNotifier(context.Background(), eventbus.New[events.Event](0), nil, "plans")
	<-done
}
