package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sfmc-labs/ai-email-activity/internal/models"
)

// Generator produces email bodies and subject lines. Implementations never
// fail: upstream errors surface as fallback content tagged Generated=false.
type Generator interface {
	Body(ctx context.Context, r models.Recipient, template string) models.GeneratedContent
	Subject(ctx context.Context, r models.Recipient, template string) string
}

// Dispatcher delivers one rendered message. Implementations never fail: a
// delivery failure degrades to a simulated-success result.
type Dispatcher interface {
	Send(ctx context.Context, msg models.OutboundMessage) models.DispatchResult
}

// Sink receives the best-effort audit record written after each execution.
type Sink interface {
	Record(ctx context.Context, rec models.AuditRecord) error
}

// Orchestrator drives one contact execution start to finish: validate,
// generate, render, dispatch, audit. No state survives between executions;
// concurrent executions are fully independent.
type Orchestrator struct {
	logger     zerolog.Logger
	generator  Generator
	dispatcher Dispatcher
	sinks      []Sink
	now        func() time.Time
}

// OrchestratorOption customises the orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithSinks sets the best-effort audit sinks. Nil entries are ignored.
func WithSinks(sinks ...Sink) OrchestratorOption {
	return func(o *Orchestrator) {
		for _, s := range sinks {
			if s != nil {
				o.sinks = append(o.sinks, s)
			}
		}
	}
}

// WithNow overrides the clock used for outcome timestamps.
func WithNow(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// NewOrchestrator constructs the execution pipeline.
func NewOrchestrator(generator Generator, dispatcher Dispatcher, logger zerolog.Logger, opts ...OrchestratorOption) (*Orchestrator, error) {
	if generator == nil {
		return nil, fmt.Errorf("orchestrator: generator dependency is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("orchestrator: dispatcher dependency is required")
	}

	o := &Orchestrator{
		logger:     logger,
		generator:  generator,
		dispatcher: dispatcher,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o, nil
}

// Execute runs one contact execution and returns a normalized outcome.
// Only missing required fields produce a failure outcome; generation and
// dispatch degradation surface as metadata flags on a success outcome.
func (o *Orchestrator) Execute(ctx context.Context, req models.ExecutionRequest) models.Outcome {
	if req.ContactKey == "" || req.Email == "" {
		o.logger.Warn().Str("contact_key", req.ContactKey).Msg("execution rejected: required fields missing")
		return models.Outcome{
			Success:    false,
			Error:      "ContactKey and Mail are required",
			ContactKey: req.ContactKey,
			Email:      req.Email,
			Timestamp:  o.now(),
		}
	}

	recipient := models.Recipient{
		FirstName:        req.FirstName,
		City:             req.City,
		InterestCategory: req.InterestCategory,
	}.WithDefaults()

	// Body and subject generation run concurrently; a journey-configured
	// subject short-circuits the upstream subject call entirely.
	var (
		content models.GeneratedContent
		subject string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		content = o.generator.Body(gctx, recipient, req.EmailTemplate)
		return nil
	})
	g.Go(func() error {
		if req.HasCustomSubject() {
			subject = req.Subject
			return nil
		}
		subject = o.generator.Subject(gctx, recipient, req.EmailTemplate)
		return nil
	})
	_ = g.Wait()

	html, err := renderEmail(subject, content.Body, recipient.FirstName)
	if err != nil {
		// The template is fixed; reaching this means a programming error,
		// reported as a generic internal failure.
		o.logger.Error().Err(err).Str("contact_key", req.ContactKey).Msg("email rendering failed")
		return models.Outcome{
			Success:    false,
			Error:      "failed to render email document",
			ContactKey: req.ContactKey,
			Email:      req.Email,
			Timestamp:  o.now(),
		}
	}

	result := o.dispatcher.Send(ctx, models.OutboundMessage{
		ContactKey: req.ContactKey,
		Email:      req.Email,
		Subject:    subject,
		HTMLBody:   html,
		FirstName:  recipient.FirstName,
	})

	outcome := models.Outcome{
		Success:          true,
		ContactKey:       req.ContactKey,
		Email:            req.Email,
		Subject:          subject,
		MessageID:        result.MessageID,
		ContentGenerated: content.Generated,
		Simulated:        result.Simulated,
		Timestamp:        o.now(),
	}

	o.audit(ctx, req, outcome)

	o.logger.Info().
		Str("contact_key", outcome.ContactKey).
		Str("message_id", outcome.MessageID).
		Bool("content_generated", outcome.ContentGenerated).
		Bool("simulated", outcome.Simulated).
		Msg("execution completed")

	return outcome
}

// audit writes the outcome to every configured sink. Sink failures are
// swallowed and logged; they must never affect the primary result.
func (o *Orchestrator) audit(ctx context.Context, req models.ExecutionRequest, outcome models.Outcome) {
	if len(o.sinks) == 0 {
		return
	}

	rec := models.AuditRecord{
		ContactKey:       outcome.ContactKey,
		Email:            outcome.Email,
		Subject:          outcome.Subject,
		Template:         req.EmailTemplate,
		MessageID:        outcome.MessageID,
		ContentGenerated: outcome.ContentGenerated,
		Simulated:        outcome.Simulated,
		Success:          outcome.Success,
		Timestamp:        outcome.Timestamp,
	}

	for _, sink := range o.sinks {
		if err := sink.Record(ctx, rec); err != nil {
			o.logger.Warn().Err(err).Str("contact_key", rec.ContactKey).Msg("audit sink write failed")
		}
	}
}
