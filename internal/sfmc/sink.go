package sfmc

import (
	"context"
	"time"

	"github.com/sfmc-labs/ai-email-activity/internal/models"
)

// DataExtensionSink writes execution audit records to the configured contact
// attribute data extension. It satisfies the orchestrator's sink contract.
type DataExtensionSink struct {
	client *Client
}

// NewDataExtensionSink wraps the client as an audit sink.
func NewDataExtensionSink(client *Client) *DataExtensionSink {
	return &DataExtensionSink{client: client}
}

// Record upserts one audit row keyed by contact key.
func (s *DataExtensionSink) Record(ctx context.Context, rec models.AuditRecord) error {
	return s.client.LogRow(ctx, rec.ContactKey, map[string]any{
		"Email":            rec.Email,
		"Subject":          rec.Subject,
		"Template":         rec.Template,
		"MessageId":        rec.MessageID,
		"ContentGenerated": rec.ContentGenerated,
		"Simulated":        rec.Simulated,
		"Success":          rec.Success,
		"Timestamp":        rec.Timestamp.UTC().Format(time.RFC3339),
	})
}
