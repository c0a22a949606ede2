// Package alerts publishes notifications for verdicts that fall into the
// Warning or Critical severity bands.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RMahshie/fra-analyzer/pkg/models"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Alert is the payload published for a degraded transformer
type Alert struct {
	AnalysisID string           `json:"analysis_id"`
	SessionID  string           `json:"session_id"`
	File       string           `json:"file"`
	FaultType  models.FaultType `json:"fault_type"`
	Score      int              `json:"score"`
	Severity   models.Severity  `json:"severity"`
	Message    string           `json:"message"`
	Time       time.Time        `json:"time"`
}

// Publisher sends alerts to operators
type Publisher interface {
	Publish(ctx context.Context, alert Alert) error
	Close()
}

// NewAlert builds an alert for a verdict, reporting false when the severity
// does not warrant one.
func NewAlert(analysis *models.Analysis, result *models.AnalysisResult, severity models.Severity) (Alert, bool) {
	var message string
	switch severity {
	case models.SeverityCritical:
		message = fmt.Sprintf("Critical alert: %s scored %d. Immediate inspection recommended.", result.File, result.Score)
	case models.SeverityWarning:
		message = fmt.Sprintf("Warning: %s scored %d. Consider reviewing maintenance actions.", result.File, result.Score)
	default:
		return Alert{}, false
	}

	return Alert{
		AnalysisID: analysis.ID,
		SessionID:  analysis.SessionID,
		File:       result.File,
		FaultType:  result.FaultType,
		Score:      result.Score,
		Severity:   severity,
		Message:    message,
		Time:       time.Now().UTC(),
	}, true
}

// NopPublisher discards alerts
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, alert Alert) error { return nil }
func (NopPublisher) Close()                                         {}

// MQTTConfig holds broker settings
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
}

// tokenPublisher is the part of mqtt.Client used for publishing
type tokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher publishes alerts as JSON to <topic>/<severity>
type MQTTPublisher struct {
	client tokenPublisher
	closer func()
	topic  string
	qos    byte
}

// NewMQTTPublisher connects to the broker
func NewMQTTPublisher(cfg MQTTConfig) (*MQTTPublisher, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("fra-analyzer-%d", time.Now().Unix())
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", cfg.Broker).Msg("Connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", cfg.Broker).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return newMQTTPublisher(client, func() { client.Disconnect(250) }, cfg), nil
}

func newMQTTPublisher(client tokenPublisher, closer func(), cfg MQTTConfig) *MQTTPublisher {
	topic := cfg.Topic
	if topic == "" {
		topic = "fra/alerts"
	}
	return &MQTTPublisher{client: client, closer: closer, topic: topic, qos: cfg.QoS}
}

// Publish sends one alert and waits for the broker to acknowledge it
func (p *MQTTPublisher) Publish(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	topic := fmt.Sprintf("%s/%s", p.topic, alert.Severity)
	token := p.client.Publish(topic, p.qos, false, payload)

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("failed to publish alert: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker
func (p *MQTTPublisher) Close() {
	if p.closer != nil {
		p.closer()
	}
}
