package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mridulja/flightbookingagent/models"
)

// historyLimit bounds how many stored turns feed a model call. It trims a
// read-only projection only; the stored history is never truncated.
const historyLimit = 20

// DialogueConfig tunes the orchestrator's interaction with the model.
type DialogueConfig struct {
	ModelTimeout time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// DialogueService is the per-turn orchestrator: it owns the state machine
// that advances a conversation toward a completed booking. All side effects
// go through the catalog, the recorder and the model adapter.
type DialogueService struct {
	adapter  ModelAdapter
	catalog  *PriceCatalog
	recorder *BookingRecorder
	sessions SessionStore
	locks    *sessionLocks
	tools    []ToolDefinition
	log      *zap.Logger

	modelTimeout time.Duration
	maxRetries   int
	retryBackoff time.Duration
}

func NewDialogueService(adapter ModelAdapter, catalog *PriceCatalog, recorder *BookingRecorder, sessions SessionStore, log *zap.Logger, cfg DialogueConfig) *DialogueService {
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	return &DialogueService{
		adapter:      adapter,
		catalog:      catalog,
		recorder:     recorder,
		sessions:     sessions,
		locks:        newSessionLocks(),
		tools:        BookingToolSchema(),
		log:          log,
		modelTimeout: cfg.ModelTimeout,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
	}
}

// ProcessMessage handles one (session id, user text) unit of work. Units for
// the same session are serialized; mutations reach the store only after the
// model call has succeeded, so cancellation or model failure leaves the
// stored session unchanged.
func (d *DialogueService) ProcessMessage(ctx context.Context, sessionID, message string) (*models.ChatResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("session id must not be empty")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errors.New("message must not be empty")
	}

	unlock := d.locks.lock(sessionID)
	defer unlock()

	log := d.log.With(zap.String("session_id", sessionID))

	sess, err := d.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Terminal sessions produce no transitions and no model call, only a
	// state-determined reply.
	if sess.State().Terminal() {
		return d.finishTurn(ctx, sess, message, d.statePrompt(sess.State(), sess.Slots()), nil, nil)
	}

	projection := append(d.projectHistory(sess), models.Turn{
		Role: models.RoleUser,
		Text: message,
	})

	result, err := d.completeWithRetry(ctx, projection)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Error("model adapter exhausted retries", zap.Error(err))
		return &models.ChatResponse{Reply: genericErrorReply, State: sess.State()}, nil
	}

	intents := ParseIntents(result.ToolCalls)
	if len(intents) == 0 {
		intents = []models.Intent{{Name: models.IntentUnrecognized}}
	}

	replies, booking := d.applyIntents(ctx, log, sess, intents)
	return d.finishTurn(ctx, sess, message, strings.Join(replies, " "), result.ToolCalls, booking)
}

func (d *DialogueService) loadSession(ctx context.Context, sessionID string) (*Session, error) {
	state, err := d.sessions.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return NewSession(sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	return ResumeSession(state), nil
}

// projectHistory returns the read-only slice of recent turns for the model.
func (d *DialogueService) projectHistory(sess *Session) []models.Turn {
	turns := sess.Snapshot().Turns
	if len(turns) > historyLimit {
		turns = turns[len(turns)-historyLimit:]
	}
	return turns
}

func (d *DialogueService) finishTurn(ctx context.Context, sess *Session, userText, reply string, toolCalls []models.ToolCall, booking *models.BookingRecord) (*models.ChatResponse, error) {
	sess.AppendUserTurn(userText)
	sess.AppendAssistantTurn(reply, toolCalls)
	if err := d.sessions.Put(ctx, sess.Unwrap()); err != nil {
		return nil, err
	}
	return &models.ChatResponse{
		Reply:   reply,
		State:   sess.State(),
		Booking: booking,
	}, nil
}

func (d *DialogueService) completeWithRetry(ctx context.Context, history []models.Turn) (*ModelResult, error) {
	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * d.retryBackoff):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, d.modelTimeout)
		result, err := d.adapter.Complete(callCtx, history, d.tools)
		cancel()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// applyIntents runs the transition table over the extracted intents in model
// order, re-evaluating the state after each, and stops as soon as a state
// needs information it does not yet have.
func (d *DialogueService) applyIntents(ctx context.Context, log *zap.Logger, sess *Session, intents []models.Intent) ([]string, *models.BookingRecord) {
	var replies []string
	var booking *models.BookingRecord

	for _, intent := range intents {
		if sess.State().Terminal() {
			break
		}

		switch intent.Name {
		case models.IntentProvideDestination:
			quote, err := d.catalog.Lookup(intent.Destination)
			if err != nil {
				// State never advances past an unresolved destination.
				if sess.State() == models.StateGreeting {
					sess.SetState(models.StateAwaitDestination)
				}
				replies = append(replies, unknownDestinationReply(intent.Destination, d.catalog.Destinations()))
				return replies, booking
			}
			if err := sess.SetDestination(quote); err != nil {
				replies = append(replies, validationReply(err))
				return replies, booking
			}
			sess.SetState(models.StateQuoteGiven)
			replies = append(replies, quoteReply(quote))

		case models.IntentConfirm:
			if sess.State() != models.StateQuoteGiven {
				replies = append(replies, d.statePrompt(sess.State(), sess.Slots()))
				return replies, booking
			}
			if !intent.Confirmed {
				sess.SetState(models.StateCancelled)
				replies = append(replies, cancelledReply())
				return replies, booking
			}
			sess.SetConfirmed(true)
			sess.SetState(models.StateAwaitName)
			replies = append(replies, askNameReply())

		case models.IntentProvideName:
			if sess.State() != models.StateAwaitName {
				replies = append(replies, d.statePrompt(sess.State(), sess.Slots()))
				return replies, booking
			}
			if err := sess.SetPassengerName(intent.PassengerName); err != nil {
				replies = append(replies, validationReply(err))
				return replies, booking
			}
			sess.SetState(models.StateAwaitEmail)
			replies = append(replies, askEmailReply())

		case models.IntentProvideEmail:
			if sess.State() != models.StateAwaitEmail {
				replies = append(replies, d.statePrompt(sess.State(), sess.Slots()))
				return replies, booking
			}
			if err := sess.SetPassengerEmail(intent.PassengerEmail); err != nil {
				replies = append(replies, validationReply(err))
				return replies, booking
			}

			slots := sess.Slots()
			record, err := d.recorder.Create(ctx, slots.PassengerName, slots.PassengerEmail, slots.Destination, slots.QuotedPrice)
			if err != nil {
				log.Error("booking creation failed", zap.Error(err))
				replies = append(replies, bookingFailedReply())
				return replies, booking
			}
			sess.SetBookingID(record.ID)
			sess.SetState(models.StateBookingComplete)
			booking = record
			replies = append(replies, bookedReply(record))

		case models.IntentCancel:
			sess.SetState(models.StateCancelled)
			replies = append(replies, cancelledReply())

		default:
			// Unrecognized input never advances the machine; re-prompt for
			// what the current state still needs.
			replies = append(replies, d.statePrompt(sess.State(), sess.Slots()))
		}
	}

	if len(replies) == 0 {
		replies = append(replies, d.statePrompt(sess.State(), sess.Slots()))
	}
	return replies, booking
}
