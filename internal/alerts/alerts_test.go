package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/RMahshie/fra-analyzer/pkg/models"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newFakeToken(err error, complete bool) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if complete {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeClient struct {
	sent  []published
	token *fakeToken
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return c.token
}

func testResult(score int) (*models.Analysis, *models.AnalysisResult) {
	return &models.Analysis{ID: "a-1", SessionID: "session-0001"},
		&models.AnalysisResult{File: "tx1.csv", FaultType: models.FaultCoreGrounding, Score: score}
}

func TestNewAlert(t *testing.T) {
	analysis, result := testResult(40)

	alert, ok := NewAlert(analysis, result, models.SeverityCritical)
	require.True(t, ok)
	assert.Equal(t, "a-1", alert.AnalysisID)
	assert.Equal(t, models.FaultCoreGrounding, alert.FaultType)
	assert.Contains(t, alert.Message, "Critical alert")

	alert, ok = NewAlert(analysis, result, models.SeverityWarning)
	require.True(t, ok)
	assert.Contains(t, alert.Message, "Warning")

	_, ok = NewAlert(analysis, result, models.SeverityHealthy)
	assert.False(t, ok)
}

func TestMQTTPublisher_Publish(t *testing.T) {
	client := &fakeClient{token: newFakeToken(nil, true)}
	closed := false
	pub := newMQTTPublisher(client, func() { closed = true }, MQTTConfig{Topic: "plant/fra", QoS: 1})

	analysis, result := testResult(40)
	alert, _ := NewAlert(analysis, result, models.SeverityCritical)

	require.NoError(t, pub.Publish(context.Background(), alert))
	require.Len(t, client.sent, 1)
	assert.Equal(t, "plant/fra/Critical", client.sent[0].topic)
	assert.Equal(t, byte(1), client.sent[0].qos)

	var decoded Alert
	require.NoError(t, json.Unmarshal(client.sent[0].payload, &decoded))
	assert.Equal(t, 40, decoded.Score)
	assert.Equal(t, models.SeverityCritical, decoded.Severity)

	pub.Close()
	assert.True(t, closed)
}

func TestMQTTPublisher_DefaultTopic(t *testing.T) {
	client := &fakeClient{token: newFakeToken(nil, true)}
	pub := newMQTTPublisher(client, nil, MQTTConfig{})

	require.NoError(t, pub.Publish(context.Background(), Alert{Severity: models.SeverityWarning}))
	assert.Equal(t, "fra/alerts/Warning", client.sent[0].topic)
	pub.Close()
}

func TestMQTTPublisher_Errors(t *testing.T) {
	client := &fakeClient{token: newFakeToken(errors.New("not connected"), true)}
	pub := newMQTTPublisher(client, nil, MQTTConfig{})
	assert.ErrorContains(t, pub.Publish(context.Background(), Alert{}), "not connected")

	pending := &fakeClient{token: newFakeToken(nil, false)}
	pub = newMQTTPublisher(pending, nil, MQTTConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.Publish(ctx, Alert{}), context.Canceled)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Alert{}))
	p.Close()
}
