package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"tippspiel-service/logger"
)

// 发布到消息总线的事件类型，routing key 与类型同名
const (
	EventMatchLive     = "match.live"
	EventMatchFinished = "match.finished"
	EventMatchScored   = "match.scored"
)

// EventPublisher 把比赛状态转移和积分结算事件发布到 AMQP exchange，
// 供下游消费（运营看板、机器人等）。未配置 AMQP URL 时完全禁用。
// 发布失败只记日志，从不影响触发它的业务操作。
type EventPublisher struct {
	url      string
	exchange string
	enabled  bool

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewEventPublisher 创建事件发布器
func NewEventPublisher(url, exchange string) *EventPublisher {
	enabled := url != ""
	if enabled {
		logger.Printf("[EventPublisher] Initialized (exchange: %s)", exchange)
	} else {
		logger.Println("[EventPublisher] Disabled (no AMQP URL)")
	}

	return &EventPublisher{
		url:      url,
		exchange: exchange,
		enabled:  enabled,
	}
}

// Connect 建立 AMQP 连接并声明 exchange
func (p *EventPublisher) Connect() error {
	if !p.enabled {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.connectLocked()
}

func (p *EventPublisher) connectLocked() error {
	config := amqp.Config{
		Heartbeat: 60 * time.Second,
		Locale:    "en_US",
	}

	conn, err := amqp.DialConfig(p.url, config)
	if err != nil {
		return fmt.Errorf("failed to connect to AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	p.conn = conn
	p.channel = channel

	logger.Println("[EventPublisher] Connected to AMQP server")
	return nil
}

// PublishMatchEvent 发布一条事件，payload 序列化为 JSON。
// 连接断开时重连一次，仍失败则放弃并记日志。
func (p *EventPublisher) PublishMatchEvent(eventType string, payload map[string]interface{}) {
	if p == nil || !p.enabled {
		return
	}

	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["event"] = eventType
	payload["timestamp"] = time.Now().Unix()

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Errorf("[EventPublisher] Failed to marshal event %s: %v", eventType, err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.publishLocked(eventType, body); err != nil {
		logger.Errorf("[EventPublisher] Publish failed, reconnecting: %v", err)

		if err := p.connectLocked(); err != nil {
			logger.Errorf("[EventPublisher] Reconnect failed: %v", err)
			return
		}
		if err := p.publishLocked(eventType, body); err != nil {
			logger.Errorf("[EventPublisher] ❌ Failed to publish %s: %v", eventType, err)
		}
	}
}

func (p *EventPublisher) publishLocked(routingKey string, body []byte) error {
	if p.channel == nil {
		return fmt.Errorf("channel not open")
	}

	return p.channel.Publish(
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// Close 关闭连接
func (p *EventPublisher) Close() {
	if p == nil || !p.enabled {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
		p.channel = nil
	}
	logger.Println("[EventPublisher] Closed")
}
