package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/domain/port"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

// Options параметры подключения к брокеру.
type Options struct {
	Broker   string // host:port
	ClientID string
	Topic    string // префикс топиков
	QoS      byte
}

// frameEvent сообщение о вердикте одного кадра.
type frameEvent struct {
	RunID string `json:"run_id"`
	entity.FrameVerdict
}

// MQTTPublisher публикует вердикты кадров и итог прогона в MQTT.
type MQTTPublisher struct {
	opts   Options
	client mqtt.Client
	logger *slog.Logger

	mu        sync.RWMutex
	connected bool
	published map[string]uint64
	errors    uint64
}

// NewMQTTPublisher создаёт издателя; Connect нужно вызвать отдельно.
func NewMQTTPublisher(opts Options, logger *slog.Logger) *MQTTPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &MQTTPublisher{
		opts:      opts,
		logger:    logger,
		published: make(map[string]uint64),
	}
}

// Connect устанавливает соединение с брокером.
func (p *MQTTPublisher) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", p.opts.Broker))
	opts.SetClientID(p.opts.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		p.setConnected(true)
		p.logger.Info("mqtt connection established", "broker", p.opts.Broker, "client_id", p.opts.ClientID)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		p.setConnected(false)
		p.logger.Warn("mqtt connection lost, will auto-reconnect", "broker", p.opts.Broker, "error", err)
	}

	p.client = mqtt.NewClient(opts)
	p.logger.Info("connecting to mqtt broker", "broker", p.opts.Broker)

	token := p.client.Connect()
	if err := wait(ctx, token, connectTimeout); err != nil {
		return errors.Wrap(err, "mqtt connect")
	}
	p.setConnected(true)
	return nil
}

// PublishFrame публикует вердикт кадра в <topic>/<run>/frames.
func (p *MQTTPublisher) PublishFrame(ctx context.Context, runID string, verdict entity.FrameVerdict) error {
	return p.publish(ctx, FramesTopic(p.opts.Topic, runID), frameEvent{RunID: runID, FrameVerdict: verdict})
}

// PublishReport публикует итог прогона в <topic>/<run>/summary.
func (p *MQTTPublisher) PublishReport(ctx context.Context, report *entity.VideoReport) error {
	return p.publish(ctx, SummaryTopic(p.opts.Topic, report.RunID), report)
}

func (p *MQTTPublisher) publish(ctx context.Context, topic string, v any) error {
	if !p.isConnected() {
		p.countError()
		return errors.New("mqtt not connected")
	}

	payload, err := json.Marshal(v)
	if err != nil {
		p.countError()
		return errors.Wrap(err, "marshal verdict")
	}

	token := p.client.Publish(topic, p.opts.QoS, false, payload)
	if err := wait(ctx, token, publishTimeout); err != nil {
		p.countError()
		return errors.Wrapf(err, "publish %s", topic)
	}

	p.mu.Lock()
	p.published[topic]++
	p.mu.Unlock()

	p.logger.Debug("verdict published", "topic", topic, "size", len(payload))
	return nil
}

// Disconnect закрывает соединение.
func (p *MQTTPublisher) Disconnect() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
		p.logger.Info("mqtt disconnected")
	}
	p.setConnected(false)
}

// Stats счётчики издателя.
type Stats struct {
	Connected bool
	Published map[string]uint64
	Errors    uint64
}

// Stats возвращает статистику публикаций.
func (p *MQTTPublisher) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	published := make(map[string]uint64, len(p.published))
	for k, v := range p.published {
		published[k] = v
	}
	return Stats{Connected: p.connected, Published: published, Errors: p.errors}
}

// FramesTopic возвращает топик вердиктов кадров прогона.
func FramesTopic(prefix, runID string) string {
	return fmt.Sprintf("%s/%s/frames", prefix, runID)
}

// SummaryTopic возвращает топик итога прогона.
func SummaryTopic(prefix, runID string) string {
	return fmt.Sprintf("%s/%s/summary", prefix, runID)
}

func wait(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	select {
	case <-token.Done():
	case <-time.After(timeout):
		return errors.New("timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
	return token.Error()
}

func (p *MQTTPublisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}

func (p *MQTTPublisher) isConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}

func (p *MQTTPublisher) countError() {
	p.mu.Lock()
	p.errors++
	p.mu.Unlock()
}

var _ port.VerdictPublisher = (*MQTTPublisher)(nil)
