package spend_broadcaster

import "context"

func (b *SpendBroadcaster) BroadcastPending(ctx context.Context) error {
	return b.broadcastPending(ctx)
}
