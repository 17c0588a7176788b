package sensor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"sensor-readout.klederson.com/internal/config"
)

// MQTTSource subscribes to a topic whose messages are sample lines, as
// published by networked sensor nodes.
type MQTTSource struct {
	broker   string
	topic    string
	category Category
	log      *logrus.Entry

	mu     sync.Mutex
	client mqtt.Client
	sink   Sink
}

// NewMQTTSource creates a source for broker (e.g. tcp://localhost:1883).
func NewMQTTSource(broker, topic string, category Category) *MQTTSource {
	return &MQTTSource{
		broker:   broker,
		topic:    topic,
		category: category,
		log:      logrus.WithFields(logrus.Fields{"component": "mqtt", "topic": topic}),
	}
}

func (s *MQTTSource) Name() string {
	return fmt.Sprintf("mqtt %s", s.topic)
}

// Start connects and subscribes. The subscription is renewed on reconnect.
func (s *MQTTSource) Start(sink Sink) error {
	s.mu.Lock()
	if s.client != nil {
		s.mu.Unlock()
		return fmt.Errorf("mqtt source already started")
	}
	s.sink = sink
	s.mu.Unlock()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.broker)
	opts.SetClientID(fmt.Sprintf("sensor-readout-%d", time.Now().UnixNano()))
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(c mqtt.Client) {
		token := c.Subscribe(s.topic, 0, s.handle)
		if token.WaitTimeout(config.MQTTTimeout) && token.Error() != nil {
			s.log.WithError(token.Error()).Warn("subscribe failed")
			return
		}
		s.log.Info("subscribed")
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		s.log.WithError(err).Warn("connection lost")
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(config.MQTTTimeout) {
		return fmt.Errorf("mqtt connect %s: timed out", s.broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", s.broker, err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
	return nil
}

func (s *MQTTSource) handle(_ mqtt.Client, msg mqtt.Message) {
	sample, err := ParseLine(string(msg.Payload()), s.category)
	if err != nil {
		if !errors.Is(err, ErrEmptyLine) {
			s.log.WithError(err).Debug("skipping message")
		}
		return
	}

	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink(sample)
	}
}

// Stop unsubscribes and disconnects.
func (s *MQTTSource) Stop() {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.sink = nil
	s.mu.Unlock()

	if client == nil {
		return
	}
	client.Unsubscribe(s.topic).WaitTimeout(time.Second)
	client.Disconnect(250)
}
