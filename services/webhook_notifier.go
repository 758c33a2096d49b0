package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tippspiel-service/logger"
)

// WebhookNotifier 运维通知器，把关键事件 POST 到配置的 webhook。
// 未配置 URL 时是无操作的空实现。
type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
	enabled    bool
}

// NewWebhookNotifier 创建通知器
func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	enabled := webhookURL != ""
	if enabled {
		logger.Printf("[WebhookNotifier] Initialized with webhook")
	} else {
		logger.Printf("[WebhookNotifier] Disabled (no webhook URL)")
	}

	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		enabled:    enabled,
	}
}

// webhookMessage 通知消息结构
type webhookMessage struct {
	Event   string `json:"event"`
	Message string `json:"message"`
	Time    int64  `json:"time"`
}

// NotifyServiceStart 服务启动通知
func (n *WebhookNotifier) NotifyServiceStart(environment string) error {
	return n.send("service_start", fmt.Sprintf("Tippspiel service started (env: %s)", environment))
}

// NotifyMatchScored 比分录入完成通知
func (n *WebhookNotifier) NotifyMatchScored(matchID int64, homeGoals, awayGoals, recomputed int) error {
	return n.send("match_scored", fmt.Sprintf(
		"Match %d scored %d:%d, %d predictions recomputed",
		matchID, homeGoals, awayGoals, recomputed,
	))
}

// NotifyError 错误通知
func (n *WebhookNotifier) NotifyError(component, message string) error {
	return n.send("error", fmt.Sprintf("[%s] %s", component, message))
}

func (n *WebhookNotifier) send(event, message string) error {
	if !n.enabled {
		return nil
	}

	body, err := json.Marshal(webhookMessage{
		Event:   event,
		Message: message,
		Time:    time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook message: %w", err)
	}

	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
