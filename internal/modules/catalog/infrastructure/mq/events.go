package mq

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const EventTypeServerEnriched = "catalog.server_enriched"

// ServerEnrichedEvent 某个服务的工具/参数已提交入库
type ServerEnrichedEvent struct {
	ServerID        string    `json:"server_id"`
	Slug            string    `json:"slug"`
	RunKind         string    `json:"run_kind"`
	ToolsCount      int       `json:"tools_count"`
	ToolsInserted   int       `json:"tools_inserted"`
	ToolsUpdated    int       `json:"tools_updated"`
	ParamsInserted  int       `json:"params_inserted"`
	ParamsUpdated   int       `json:"params_updated"`
	ExtractStrategy string    `json:"extract_strategy,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// EventPublisher 把目录事件编码后发到固定 topic，按 slug 分区保证同一服务的事件有序
type EventPublisher struct {
	pub   Publisher
	topic string
}

func NewEventPublisher(pub Publisher, topic string) *EventPublisher {
	return &EventPublisher{pub: pub, topic: topic}
}

func (p *EventPublisher) ServerEnriched(ctx context.Context, ev ServerEnrichedEvent) error {
	if p == nil || p.pub == nil {
		return nil
	}
	if p.topic == "" {
		return errors.New("event topic is empty")
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.pub.Publish(ctx, Message{
		Topic:   p.topic,
		Key:     []byte(ev.Slug),
		Value:   body,
		Headers: map[string]string{"event_type": EventTypeServerEnriched},
	})
	return err
}

func (p *EventPublisher) Close() error {
	if p == nil || p.pub == nil {
		return nil
	}
	return p.pub.Close()
}
