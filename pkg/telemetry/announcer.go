// Package telemetry announces the unit's identity and pulse count
// over MQTT.
package telemetry

import (
	"encoding/json"
	"strconv"

	"github.com/golang/glog"

	fx "github.com/robotalks/ident.go/pkg/framework"
	"github.com/robotalks/ident.go/pkg/ident"
	"github.com/robotalks/ident.go/pkg/mqtt"
	"github.com/robotalks/ident.go/pkg/protocol"
)

// Announcer publishes a retained identity document on connect and the
// pulse count whenever it moves. It runs as a controller inside the
// main loop.
type Announcer struct {
	Queue   *mqtt.Queue
	Station protocol.Station

	lastCount uint32
	announced bool

	// publish is indirected for tests.
	publish func(topic string, payload []byte) error
}

// NewAnnouncer creates an Announcer and hooks broker reconnects so
// the retained document is refreshed after every session.
func NewAnnouncer(q *mqtt.Queue, station protocol.Station) *Announcer {
	a := &Announcer{Queue: q, Station: station}
	a.publish = a.pub
	q.OnConnect = func(*mqtt.Queue) {
		if err := a.Announce(); err != nil {
			glog.Warningf("announce failed: %v", err)
		}
	}
	return a
}

// Announce publishes the retained identity document.
func (a *Announcer) Announce() error {
	doc := map[string]string{"serial": a.Station.BoardSerial()}
	for _, key := range ident.FieldKeys() {
		if v, ok := a.Station.Field(key); ok && v != "" {
			doc[key] = v
		}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err = a.publish("identity", data); err != nil {
		return err
	}
	a.lastCount = a.Station.PulseCount()
	a.announced = true
	return a.publish("pulses", countPayload(a.lastCount))
}

// Control implements framework.Controller. It republishes the pulse
// count only when it changed since the previous iteration.
func (a *Announcer) Control(fx.ControlContext) error {
	if !a.announced {
		return nil
	}
	count := a.Station.PulseCount()
	if count == a.lastCount {
		return nil
	}
	if err := a.publish("pulses", countPayload(count)); err != nil {
		return err
	}
	a.lastCount = count
	return nil
}

func (a *Announcer) pub(topic string, payload []byte) error {
	token := a.Queue.PubWith(topic, payload, 0, true)
	token.Wait()
	return token.Error()
}

func countPayload(count uint32) []byte {
	return []byte(strconv.FormatUint(uint64(count), 10))
}
