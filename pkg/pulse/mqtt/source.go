// Package mqtt feeds the pulse qualifier from an MQTT topic carrying
// raw level-change events published by an edge bridge.
package mqtt

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/ident.go/pkg/mqtt"
	"github.com/robotalks/ident.go/pkg/pulse"
)

// Source subscribes a topic and treats every message as one observed
// transition stamped at arrival. Handlers run on the paho router
// goroutine, so the qualifier keeps a single producer.
type Source struct {
	Queue     *mqtt.Queue
	Topic     string
	Qualifier *pulse.Qualifier
	// Now is the timestamp source, replaceable in tests.
	Now func() time.Time
}

// NewSource creates a Source.
func NewSource(queue *mqtt.Queue, topic string, q *pulse.Qualifier) *Source {
	return &Source{Queue: queue, Topic: topic, Qualifier: q, Now: time.Now}
}

// Name implements Named.
func (s *Source) Name() string { return "pulse-mqtt" }

// Run implements Runnable.
func (s *Source) Run(ctx context.Context) error {
	sub := s.Queue.Sub(s.Topic, func(topic string, payload []byte) {
		glog.V(4).Infof("edge transition from %q", topic)
		s.Qualifier.Transition(s.Now())
	})
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}
