package models

import "time"

// WebhookEvent stores gateway webhook payloads with deduplication metadata.
// The unique (gateway, gateway_event_id) index makes redelivered events
// observable without reprocessing them.
type WebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Gateway         string     `gorm:"type:varchar(20);not null;index:ux_webhook_events_gateway_event,unique,priority:1" json:"gateway"`
	GatewayEventID  string     `gorm:"type:varchar(191);not null;default:'';index:ux_webhook_events_gateway_event,unique,priority:2" json:"gateway_event_id"`
	PayloadJSON     string     `gorm:"type:longtext;not null" json:"payload_json"`
	SignatureValid  bool       `gorm:"default:false;index" json:"signature_valid"`
	Outcome         string     `gorm:"type:varchar(40)" json:"outcome"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
