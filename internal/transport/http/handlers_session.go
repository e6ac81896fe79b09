package httptransport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"parlor/internal/balance"
	handoffmodels "parlor/internal/handoff/models"
	dErrors "parlor/pkg/domain-errors"
	"parlor/pkg/platform/httputil"
	"parlor/pkg/requestcontext"
)

type chatResponse struct {
	Session handoffmodels.Record `json:"session"`
	Source  handoffmodels.Source `json:"source"`
}

// handleBalance serves the cached balance. When the refresh fails for a reason
// other than the session itself, the stale value is served flagged for refresh.
func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	record, err := sessionFrom(ctx).Balance(ctx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			h.writeError(w, r, "balance refresh rejected", err)
			return
		}
		h.logger.WarnContext(ctx, "serving stale balance",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		record = balance.Record{Value: record.Value, NeedsRefresh: true}
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleBalanceInvalidate(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r.Context()).InvalidateBalance()
	w.WriteHeader(http.StatusNoContent)
}

// handleSelectCurator opens a chat with the curator and sends the browser to the
// chat page, which picks the session up from the handoff slot.
func (h *Handler) handleSelectCurator(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	curatorID, err := strconv.ParseInt(chi.URLParam(r, "curatorID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "curator id must be numeric"))
		return
	}

	dest, err := sessionFrom(ctx).Select(ctx, curatorID)
	if err != nil {
		h.writeError(w, r, "failed to open chat", err)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	record, source, err := sessionFrom(ctx).ResolveChat(ctx, chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, "failed to load chat", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, chatResponse{Session: record, Source: source})
}
