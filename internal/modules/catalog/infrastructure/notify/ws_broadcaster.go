package notify

import (
	"context"

	"MCPCatalog/internal/modules/catalog/infrastructure/mq"
	"MCPCatalog/pkg/ws"
)

// RunBroadcaster 把服务入库事件推给 /admin/events 的订阅者
type RunBroadcaster struct {
	hub *ws.Hub
}

func NewRunBroadcaster(hub *ws.Hub) *RunBroadcaster {
	return &RunBroadcaster{hub: hub}
}

func (b *RunBroadcaster) ServerEnriched(_ context.Context, ev mq.ServerEnrichedEvent) error {
	if b == nil || b.hub == nil || b.hub.Len() == 0 {
		return nil
	}
	return b.hub.BroadcastJSON(map[string]interface{}{
		"type":    mq.EventTypeServerEnriched,
		"payload": ev,
	})
}
