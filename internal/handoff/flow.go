package handoff

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"parlor/internal/handoff/models"
	"parlor/internal/platform/metrics"
	dErrors "parlor/pkg/domain-errors"
	"parlor/pkg/platform/sentinel"
)

// SessionAPI is the slice of the remote API the selection flow needs.
type SessionAPI interface {
	CreateSession(ctx context.Context, counterpartID int64) (models.Record, error)
	ChatSession(ctx context.Context, sessionID string) (models.Record, error)
}

// Selector runs the selection origin side: create the session, fill the slot,
// return where to navigate.
type Selector struct {
	api       SessionAPI
	slot      *Slot
	chatRoute string
}

// NewSelector builds a Selector that sends users to chatRoute/<sessionID>.
func NewSelector(api SessionAPI, slot *Slot, chatRoute string) *Selector {
	return &Selector{api: api, slot: slot, chatRoute: strings.TrimRight(chatRoute, "/")}
}

// Open creates a chat session with the counterpart and returns the destination.
// The slot is written before Open returns, so the caller navigates only after the
// record is observable.
func (s *Selector) Open(ctx context.Context, counterpartID int64) (string, error) {
	if counterpartID <= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "counterpart id must be positive")
	}
	record, err := s.api.CreateSession(ctx, counterpartID)
	if err != nil {
		return "", translateRemoteError(err, "failed to create chat session")
	}
	if record.IsZero() {
		return "", dErrors.New(dErrors.CodeInternal, "chat session created without id")
	}
	if record.CounterpartID == 0 {
		record.CounterpartID = counterpartID
	}
	s.slot.Write(record)
	return s.chatRoute + "/" + url.PathEscape(record.SessionID), nil
}

// Resolver runs the destination side.
type Resolver struct {
	api     SessionAPI
	slot    *Slot
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewResolver builds a Resolver. logger and m may be nil.
func NewResolver(api SessionAPI, slot *Slot, logger *slog.Logger, m *metrics.Metrics) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{api: api, slot: slot, logger: logger, metrics: m}
}

// Resolve consumes the slot once. A record for a different session is discarded
// and the session is fetched from the API instead.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) (models.Record, models.Source, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return models.Record{}, "", dErrors.New(dErrors.CodeInvalidInput, "session id required")
	}

	if record, ok := r.slot.ReadAndClear(); ok {
		if record.SessionID == sessionID {
			r.metrics.IncrementHandoffResolution(string(models.SourceHandoff))
			return record, models.SourceHandoff, nil
		}
		r.logger.DebugContext(ctx, "discarding handoff for another session",
			"handoff_session_id", record.SessionID,
			"route_session_id", sessionID,
		)
	}

	record, err := r.api.ChatSession(ctx, sessionID)
	if err != nil {
		return models.Record{}, "", translateRemoteError(err, "failed to load chat session")
	}
	r.metrics.IncrementHandoffResolution(string(models.SourceRemote))
	return record, models.SourceRemote, nil
}

func translateRemoteError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "chat session not found")
	case errors.Is(err, sentinel.ErrUnauthorized):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "login required")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
}
