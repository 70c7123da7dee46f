package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExecutionRequestFlattensFragments(t *testing.T) {
	payload := ExecutePayload{
		InArguments: []map[string]any{
			{"ContactKey": "c1"},
			{"Mail": "a@b.com"},
			{"FirstName": "Ana", "City": "Madrid"},
		},
	}

	req, err := ParseExecutionRequest(payload)
	require.NoError(t, err)
	assert.Equal(t, "c1", req.ContactKey)
	assert.Equal(t, "a@b.com", req.Email)
	assert.Equal(t, "Ana", req.FirstName)
	assert.Equal(t, "Madrid", req.City)
	assert.Equal(t, TemplateDefault, req.EmailTemplate)
}

func TestParseExecutionRequestLastWriteWins(t *testing.T) {
	payload := ExecutePayload{
		InArguments: []map[string]any{
			{"ContactKey": "c1", "Mail": "first@b.com"},
			{"Mail": "second@b.com"},
		},
	}

	req, err := ParseExecutionRequest(payload)
	require.NoError(t, err)
	assert.Equal(t, "second@b.com", req.Email)
}

func TestParseExecutionRequestRejectsMissingFields(t *testing.T) {
	cases := map[string]ExecutePayload{
		"empty inArguments": {},
		"missing contact key": {
			InArguments: []map[string]any{{"Mail": "a@b.com"}},
		},
		"missing email": {
			InArguments: []map[string]any{{"ContactKey": "c1"}},
		},
		"malformed email": {
			InArguments: []map[string]any{{"ContactKey": "c1", "Mail": "not-an-address"}},
		},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseExecutionRequest(payload)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestParseExecutionRequestAcceptsAlternateCasings(t *testing.T) {
	payload := ExecutePayload{
		InArguments: []map[string]any{
			{"contactKey": "c2", "email": "x@y.com", "interestCategory": "viajes"},
		},
	}

	req, err := ParseExecutionRequest(payload)
	require.NoError(t, err)
	assert.Equal(t, "c2", req.ContactKey)
	assert.Equal(t, "x@y.com", req.Email)
	assert.Equal(t, "viajes", req.InterestCategory)
}

func TestHasCustomSubject(t *testing.T) {
	assert.False(t, ExecutionRequest{}.HasCustomSubject())
	assert.False(t, ExecutionRequest{Subject: "   "}.HasCustomSubject())
	assert.True(t, ExecutionRequest{Subject: "Oferta"}.HasCustomSubject())
}

func TestRecipientWithDefaults(t *testing.T) {
	r := Recipient{}.WithDefaults()
	assert.Equal(t, "Estimado Cliente", r.FirstName)
	assert.Equal(t, "su ciudad", r.City)
	assert.Equal(t, "nuestros productos", r.InterestCategory)

	r = Recipient{FirstName: "Ana"}.WithDefaults()
	assert.Equal(t, "Ana", r.FirstName)
	assert.Equal(t, "su ciudad", r.City)
}

func TestActivityPayloadFlatten(t *testing.T) {
	p := ActivityPayload{
		Arguments: ActivityArguments{
			Execute: ExecuteArguments{
				InArguments: []map[string]any{
					{"ContactKey": "c1"},
					{"ContactKey": "c2", "emailTemplate": "welcome"},
				},
			},
		},
	}

	require.True(t, p.HasArguments())
	fields := p.Flatten()
	assert.Equal(t, "c2", fields["ContactKey"])
	assert.Equal(t, "welcome", fields["emailTemplate"])

	assert.False(t, ActivityPayload{}.HasArguments())
}
