package rabbit

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
)

// routingKey addresses session-only events to one session and the rest by type.
func routingKey(msg models.TabMessage) string {
	if msg.SessionKey != "" && len(msg.Audience) == 0 {
		return fmt.Sprintf("tab.session.%s", msg.SessionKey)
	}
	return fmt.Sprintf("tab.%s", msg.Type)
}

func retry(ctx context.Context, n int, sleep time.Duration, fn func() error) error {
	var err error
	for range n {
		if err = fn(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	return err
}
