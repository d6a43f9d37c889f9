package dispatch

import (
	"context"

	"github.com/touka-aoi/boss-director/application/service"
	bossdomain "github.com/touka-aoi/boss-director/domain"
	"github.com/touka-aoi/boss-director/server/domain"
	"github.com/touka-aoi/boss-director/server/frame"
)

// HubNotifier は適応通知を接続中の全セッションへ配信します。
type HubNotifier struct {
	hub *domain.Hub
}

var _ service.Notifier = (*HubNotifier)(nil)

func NewHubNotifier(hub *domain.Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Notify(ctx context.Context, note bossdomain.Notification) error {
	data, err := frame.EncodeNotification(note)
	if err != nil {
		return err
	}
	n.hub.Publish(ctx, data)
	return nil
}
