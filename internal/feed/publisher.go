package feed

import (
	"context"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

type Publisher struct {
	client        mqtt.Client
	settingsTopic string
}

func NewPublisher(client mqtt.Client, settingsTopic string) *Publisher {
	return &Publisher{client: client, settingsTopic: settingsTopic}
}

// PublishSettings publishes the settings as a retained message so the
// appliance picks them up on reconnect.
func (p *Publisher) PublishSettings(ctx context.Context, s domain.Settings) error {
	payload, err := EncodeSettings(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return p.Publish(ctx, p.settingsTopic, payload, true)
}

func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte, retained bool) error {
	token := p.client.Publish(topic, 1, retained, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
