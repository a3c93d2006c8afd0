package feed

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

// Listener receives decoded pushes. Nil callbacks are skipped.
type Listener struct {
	Reading    func(domain.SensorReading)
	Containers func(domain.ContainerStatus)
	History    func(domain.DailyRecord)
	Hourly     func(domain.HourlyPoint)
	Triggered  func(domain.Triggered)
	Err        func(error)
}

func (l Listener) err(err error) {
	if l.Err != nil {
		l.Err(err)
		return
	}
	log.Warn().Err(err).Msg("feed error")
}

// Source delivers appliance updates as they are pushed.
type Source interface {
	Subscribe(l Listener) error
	Close()
}

// Router decodes a message by topic and hands it to the listener.
type Router struct {
	topics config.Topics
	l      Listener
	now    func() time.Time
}

func NewRouter(topics config.Topics, l Listener) *Router {
	return &Router{topics: topics, l: l, now: time.Now}
}

// Handle dispatches one message. Decode failures go to Err and the message is dropped.
func (r *Router) Handle(topic string, payload []byte) {
	switch topic {
	case r.topics.Live:
		rd, err := DecodeReading(payload)
		if err != nil {
			r.l.err(err)
			return
		}
		if rd.ObservedAt == nil {
			now := r.now()
			rd.ObservedAt = &now
		}
		if r.l.Reading != nil {
			r.l.Reading(rd)
		}
	case r.topics.Containers:
		st, err := DecodeContainers(payload)
		if err != nil {
			r.l.err(err)
			return
		}
		if st.UpdatedAt.IsZero() {
			st.UpdatedAt = r.now()
		}
		if r.l.Containers != nil {
			r.l.Containers(st)
		}
	case r.topics.History:
		rec, err := DecodeHistory(payload)
		if err != nil {
			r.l.err(err)
			return
		}
		if r.l.History != nil {
			r.l.History(rec)
		}
	case r.topics.Hourly:
		p, err := DecodeHourly(payload)
		if err != nil {
			r.l.err(err)
			return
		}
		if r.l.Hourly != nil {
			r.l.Hourly(p)
		}
	case r.topics.Triggered:
		t, err := DecodeTriggered(payload)
		if err != nil {
			r.l.err(err)
			return
		}
		if r.l.Triggered != nil {
			r.l.Triggered(t)
		}
	default:
		log.Debug().Str("topic", topic).Msg("ignoring message on unknown topic")
	}
}

func (r *Router) subscriptions() map[string]byte {
	return map[string]byte{
		r.topics.Live:       1,
		r.topics.Containers: 1,
		r.topics.History:    1,
		r.topics.Hourly:     1,
		r.topics.Triggered:  1,
	}
}

// Dial connects a paho client. configure may adjust the options before connecting.
func Dial(broker, clientID string, configure func(*mqtt.ClientOptions)) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)
	if configure != nil {
		configure(opts)
	}
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return client, nil
}

// MQTTSource subscribes to the appliance topics on an MQTT broker.
type MQTTSource struct {
	broker   string
	clientID string
	topics   config.Topics
	client   mqtt.Client
}

func NewMQTTSource(broker, clientID string, topics config.Topics) *MQTTSource {
	return &MQTTSource{broker: broker, clientID: clientID, topics: topics}
}

// Subscribe connects and subscribes. Subscriptions are renewed on every reconnect.
func (s *MQTTSource) Subscribe(l Listener) error {
	router := NewRouter(s.topics, l)
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		router.Handle(msg.Topic(), msg.Payload())
	}
	client, err := Dial(s.broker, s.clientID, func(opts *mqtt.ClientOptions) {
		opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			l.err(fmt.Errorf("mqtt connection lost: %w", err))
		})
		opts.SetOnConnectHandler(func(c mqtt.Client) {
			token := c.SubscribeMultiple(router.subscriptions(), handler)
			if token.Wait() && token.Error() != nil {
				l.err(fmt.Errorf("mqtt subscribe: %w", token.Error()))
				return
			}
			log.Info().Str("broker", s.broker).Msg("subscribed to appliance topics")
		})
	})
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

func (s *MQTTSource) Close() {
	if s.client != nil {
		s.client.Disconnect(250)
	}
}
