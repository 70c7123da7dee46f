package models

import "time"

// Recipient carries the attributes interpolated into generation prompts and
// the rendered document. Defaults are applied before prompting so the
// upstream model never sees empty placeholders.
type Recipient struct {
	FirstName        string
	City             string
	InterestCategory string
}

// WithDefaults fills unset attributes with the generic placeholder phrases
// used throughout the generated Spanish copy.
func (r Recipient) WithDefaults() Recipient {
	if r.FirstName == "" {
		r.FirstName = "Estimado Cliente"
	}
	if r.City == "" {
		r.City = "su ciudad"
	}
	if r.InterestCategory == "" {
		r.InterestCategory = "nuestros productos"
	}
	return r
}

// GeneratedContent is one generation result. Generated=false marks locally
// synthesized fallback copy produced after an upstream failure.
type GeneratedContent struct {
	Body      string
	Generated bool
}

// DispatchResult reports one delivery attempt. Simulated=true means no real
// send happened but the caller must treat the result as success.
type DispatchResult struct {
	Delivered bool   `json:"delivered"`
	Simulated bool   `json:"simulated"`
	MessageID string `json:"messageId"`
}

// OutboundMessage is one rendered email ready for delivery.
type OutboundMessage struct {
	ContactKey string
	Email      string
	Subject    string
	HTMLBody   string
	FirstName  string
}

// AuditRecord is the best-effort log row written after each execution.
type AuditRecord struct {
	ContactKey       string
	Email            string
	Subject          string
	Template         string
	MessageID        string
	ContentGenerated bool
	Simulated        bool
	Success          bool
	Timestamp        time.Time
}

// Outcome is the normalized record returned for one execution. Fallback
// generation and simulated dispatch surface as metadata flags, not as a
// different outcome shape.
type Outcome struct {
	Success          bool      `json:"success"`
	Error            string    `json:"error,omitempty"`
	ContactKey       string    `json:"contactKey"`
	Email            string    `json:"email"`
	Subject          string    `json:"subject,omitempty"`
	MessageID        string    `json:"messageId,omitempty"`
	ContentGenerated bool      `json:"contentGenerated"`
	Simulated        bool      `json:"simulated"`
	Timestamp        time.Time `json:"timestamp"`
}
