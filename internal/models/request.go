package models

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// Email template variants selectable from the Journey Builder wizard.
// Unknown values fall back to TemplateDefault at prompt-selection time.
const (
	TemplateDefault       = "default"
	TemplatePromotional   = "promotional"
	TemplateInformational = "informational"
	TemplateWelcome       = "welcome"
)

// ErrValidation marks inbound payloads that are structurally or semantically
// unusable. Handlers map it to a 400-class response.
var ErrValidation = errors.New("validation error")

// ExecutePayload is the envelope Journey Builder posts to /execute.
// InArguments is an ordered list of single-key-set fragments that must be
// flattened into one field map before use.
type ExecutePayload struct {
	InArguments  []map[string]any `json:"inArguments"`
	ActivityID   string           `json:"activityId,omitempty"`
	JourneyID    string           `json:"journeyId,omitempty"`
	ActivityName string           `json:"activityObjectID,omitempty"`
}

// ExecutionRequest is one contact-execution event, parsed and validated from
// the inbound envelope. It is immutable for the duration of one execution.
type ExecutionRequest struct {
	ContactKey       string
	Email            string
	FirstName        string
	City             string
	InterestCategory string
	EmailTemplate    string
	Subject          string
}

// HasCustomSubject reports whether the journey configuration carries a
// subject override; an empty value means "generate one".
func (r ExecutionRequest) HasCustomSubject() bool {
	return strings.TrimSpace(r.Subject) != ""
}

// ParseExecutionRequest flattens the inArguments fragment list into one field
// map (last write wins on key collision) and validates the required fields.
// Missing ContactKey/Mail or a malformed address is rejected with
// ErrValidation; no partial request is ever returned.
func ParseExecutionRequest(p ExecutePayload) (ExecutionRequest, error) {
	if len(p.InArguments) == 0 {
		return ExecutionRequest{}, fmt.Errorf("%w: inArguments is empty", ErrValidation)
	}

	fields := map[string]any{}
	for _, frag := range p.InArguments {
		for k, v := range frag {
			fields[k] = v
		}
	}

	req := ExecutionRequest{
		ContactKey:       stringField(fields, "ContactKey", "contactKey"),
		Email:            stringField(fields, "Mail", "email"),
		FirstName:        stringField(fields, "FirstName", "firstName"),
		City:             stringField(fields, "City", "city"),
		InterestCategory: stringField(fields, "InterestCategory", "interestCategory"),
		EmailTemplate:    stringField(fields, "emailTemplate"),
		Subject:          stringField(fields, "subject"),
	}

	if req.ContactKey == "" {
		return ExecutionRequest{}, fmt.Errorf("%w: ContactKey is required", ErrValidation)
	}
	if req.Email == "" {
		return ExecutionRequest{}, fmt.Errorf("%w: Mail is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return ExecutionRequest{}, fmt.Errorf("%w: Mail %q is not a valid address", ErrValidation, req.Email)
	}
	if req.EmailTemplate == "" {
		req.EmailTemplate = TemplateDefault
	}

	return req, nil
}

// stringField returns the first non-empty string value among the given keys.
// Journey Builder data bindings and the wizard use different casings for the
// same field, so both spellings are accepted.
func stringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := fields[key]; ok {
			if s, ok := v.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}
