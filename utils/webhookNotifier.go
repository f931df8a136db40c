package utils

import (
	"log"
	"time"

	"futureminds/config"

	"github.com/go-resty/resty/v2"
)

// NotifyWebhook posts an event to the configured webhook. Fire-and-forget:
// failures are logged and never affect the triggering operation. Call it
// from a goroutine after the primary mutation commits.
func NotifyWebhook(event string, userID uint, data map[string]interface{}) {
	if config.AppConfig.WebhookURL == "" {
		return
	}

	client := resty.New()
	client.SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":   event,
			"user_id": userID,
			"data":    data,
		}).
		Post(config.AppConfig.WebhookURL)

	if err != nil {
		log.Printf("Error delivering webhook event %s: %v", event, err)
		return
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		log.Printf("Webhook event %s rejected with status %d", event, resp.StatusCode())
	}
}
