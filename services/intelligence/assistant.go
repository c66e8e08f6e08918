// File: services/intelligence/assistant.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agendapro/metrics"
	"agendapro/models"
	"agendapro/services/intent"
	"agendapro/utils"

	"go.uber.org/zap"
)

const (
	defaultDurationMin = 45
	defaultClientName  = "Cliente"
	defaultTurnTimeout = 20 * time.Second
	// the fallback completion keeps 1/fallbackShare of the turn ceiling
	fallbackShare = 4
)

// Scheduler is the part of the booking engine the assistant relies on.
type Scheduler interface {
	Services() []models.Service
	TypedSettings() models.Settings
	Availability(date string, durationMin int) (models.Availability, error)
	Book(req models.BookingRequest) (models.Appointment, error)
}

// Config tunes the assistant.
type Config struct {
	BasePrompt  string        // replaces the built-in system prompt when set
	TurnTimeout time.Duration // ceiling on the provider calls of one turn
}

// TurnInput is one inbound chat message.
type TurnInput struct {
	Message        string
	ConversationID string
}

// TurnResult is the outcome of a completed turn.
type TurnResult struct {
	ConversationID string
	Text           string
	State          State
	Booking        *models.Appointment // set when the turn created an appointment
	Fallback       bool                // streaming failed and Text came from a whole completion
}

// Assistant runs conversational booking turns.
type Assistant struct {
	provider  Provider
	scheduler Scheduler
	history   *ContextStore
	cfg       Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewAssistant wires an assistant. provider may be nil when no credentials are
// configured; turns then fail with a configuration error.
func NewAssistant(provider Provider, scheduler Scheduler, history *ContextStore, cfg Config) *Assistant {
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = defaultTurnTimeout
	}
	if history == nil {
		history = NewContextStore()
	}
	return &Assistant{
		provider:  provider,
		scheduler: scheduler,
		history:   history,
		cfg:       cfg,
		logger:    utils.GetLogger(),
		metrics:   metrics.Default(),
	}
}

// HasProvider reports whether a completion provider is configured.
func (a *Assistant) HasProvider() bool { return a.provider != nil }

// ProviderName returns the configured provider name, empty when none.
func (a *Assistant) ProviderName() string {
	if a.provider == nil {
		return ""
	}
	return a.provider.Name()
}

// History returns the stored turns of a conversation.
func (a *Assistant) History(conversationID string) []models.ChatMessage {
	return a.history.Get(conversationID)
}

// Chat runs a turn and returns the whole reply.
func (a *Assistant) Chat(ctx context.Context, in TurnInput) (TurnResult, error) {
	return a.turn(ctx, in, nil)
}

// ChatStream runs a turn, forwarding reply deltas to onDelta as they arrive.
func (a *Assistant) ChatStream(ctx context.Context, in TurnInput, onDelta func(string)) (TurnResult, error) {
	if onDelta == nil {
		onDelta = func(string) {}
	}
	return a.turn(ctx, in, onDelta)
}

func (a *Assistant) turn(ctx context.Context, in TurnInput, onDelta func(string)) (TurnResult, error) {
	started := time.Now()
	mode := "complete"
	if onDelta != nil {
		mode = "stream"
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		return TurnResult{}, utils.NewAppError(utils.KindValidation, "message is required", nil)
	}
	if a.provider == nil {
		a.metrics.RecordAssistantTurn(mode, "unconfigured", time.Since(started))
		return TurnResult{}, utils.NewAppError(utils.KindConfiguration, "no completion provider configured", nil)
	}

	cid := a.history.Resolve(in.ConversationID)
	history := a.history.Get(cid)
	hint := intent.Extract(message)

	services := a.scheduler.Services()
	settings := a.scheduler.TypedSettings()
	svc, matched := matchService(services, message)
	duration := defaultDurationMin
	if matched && svc.DurationMin > 0 {
		duration = svc.DurationMin
	}

	var grounding string
	if hint.Date != "" {
		if av, err := a.scheduler.Availability(hint.Date, duration); err == nil {
			grounding = groundingText(hint.Date, duration, av, hint.Time)
		}
	}

	messages := buildMessages(promptInput{
		basePrompt: a.cfg.BasePrompt,
		settings:   settings,
		services:   services,
		grounding:  grounding,
		history:    history,
		message:    message,
	})

	a.history.SetState(cid, StateAwaiting)
	text, fallback, err := a.complete(ctx, messages, onDelta)
	if err != nil {
		a.history.SetState(cid, StateIdle)
		a.metrics.RecordAssistantTurn(mode, "provider_error", time.Since(started))
		a.logger.Error("Assistant turn failed",
			zap.String("conversationID", cid),
			zap.String("provider", a.provider.Name()),
			zap.Error(err))
		return TurnResult{ConversationID: cid}, utils.NewAppError(utils.KindProvider, "completion provider failed", err)
	}

	result := TurnResult{ConversationID: cid, Text: text, State: StateIdle, Fallback: fallback}

	if hint.Confirm && hint.Date != "" && hint.Time != "" && settings.AutoBooking {
		apt, err := a.attemptBooking(hint, svc, matched, services, duration)
		if err != nil {
			a.metrics.AutoBookingsTotal.WithLabelValues("rejected").Inc()
			a.logger.Warn("Auto-booking skipped", zap.String("conversationID", cid), zap.Error(err))
		} else {
			a.metrics.AutoBookingsTotal.WithLabelValues("created").Inc()
			result.Booking = apt
			result.State = StateBooked
		}
	}

	a.history.Append(cid,
		models.ChatMessage{Role: models.RoleUser, Content: message},
		models.ChatMessage{Role: models.RoleAssistant, Content: text},
	)
	a.history.SetState(cid, result.State)
	a.metrics.RecordAssistantTurn(mode, "ok", time.Since(started))
	return result, nil
}

// complete obtains the reply within one turn ceiling. The stream gets the
// ceiling minus the fallback share. A stream cut at its deadline after some text
// arrived keeps that text; any other stream failure, or a timeout with no text,
// falls back to one whole completion bounded by what is left of the ceiling.
func (a *Assistant) complete(ctx context.Context, messages []models.ChatMessage, onDelta func(string)) (string, bool, error) {
	deadline := time.Now().Add(a.cfg.TurnTimeout)
	tctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	if onDelta == nil {
		text, err := a.provider.Complete(tctx, messages)
		return text, false, err
	}

	sctx, scancel := context.WithDeadline(tctx, deadline.Add(-a.cfg.TurnTimeout/fallbackShare))
	defer scancel()
	text, err := a.provider.Stream(sctx, messages, onDelta)
	if err == nil {
		return text, false, nil
	}
	if ctx.Err() != nil {
		// caller went away
		return "", false, ctx.Err()
	}
	if text != "" && errors.Is(sctx.Err(), context.DeadlineExceeded) {
		a.logger.Info("Stream hit the turn ceiling, keeping partial reply", zap.Int("chars", len(text)))
		return text, false, nil
	}

	a.logger.Warn("Stream failed, retrying without streaming", zap.Error(err))
	text, err = a.provider.Complete(tctx, messages)
	if err != nil {
		return "", true, fmt.Errorf("fallback after stream failure: %w", err)
	}
	return text, true, nil
}

// attemptBooking books the confirmed intent through the engine. The matched
// service is used, else the first catalog service; the client defaults to "Cliente".
func (a *Assistant) attemptBooking(hint intent.BookingIntent, svc models.Service, matched bool, services []models.Service, duration int) (*models.Appointment, error) {
	if !matched {
		if len(services) == 0 {
			return nil, errors.New("catalog is empty")
		}
		svc = services[0]
	}
	client := hint.ClientName
	if client == "" {
		client = defaultClientName
	}

	apt, err := a.scheduler.Book(models.BookingRequest{
		Date:        hint.Date,
		StartTime:   hint.Time,
		DurationMin: duration,
		ClientName:  client,
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("book %s %s: %w", hint.Date, hint.Time, err)
	}
	return &apt, nil
}
