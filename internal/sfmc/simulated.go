package sfmc

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sfmc-labs/ai-email-activity/internal/models"
)

// SimulatedDispatcher stands in when no Marketing Cloud credentials are
// configured. Every send succeeds with a simulated message ID, matching the
// degraded-mode behaviour of the real client's last-resort path.
type SimulatedDispatcher struct {
	Logger zerolog.Logger
	Now    func() time.Time
}

// Send logs the would-be delivery and returns a simulated success.
func (d SimulatedDispatcher) Send(_ context.Context, msg models.OutboundMessage) models.DispatchResult {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	d.Logger.Info().
		Str("contact_key", msg.ContactKey).
		Str("email", msg.Email).
		Str("subject", msg.Subject).
		Msg("simulating email send")

	return models.DispatchResult{
		Delivered: true,
		Simulated: true,
		MessageID: fmt.Sprintf("sim-%d", now().UnixMilli()),
	}
}
