package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formgate/internal/identifier"
	dErrors "formgate/pkg/domain-errors"
	"formgate/pkg/platform/httputil"
	"formgate/pkg/requestcontext"
)

// Client-facing messages for the identifier routes.
const (
	MessageAdded         = "ID adicionado com sucesso"
	MessageDeleted       = "ID deletado com sucesso"
	MessageInvalidFormat = "Formato de ID inválido"
	MessageDuplicate     = "ID já existe"
	MessageNotFound      = "ID não encontrado"
)

// Service defines the registry operations the handler needs.
type Service interface {
	List(ctx context.Context) []string
	Add(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
}

// Handler wires the identifier endpoints to the registry.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an identifier handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the identifier endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/listid", h.HandleList)
	r.Post("/addid", h.HandleAdd)
	r.Delete("/deleteid/{id}", h.HandleDelete)
}

// HandleList handles GET /listid.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.List(r.Context()))
}

// HandleAdd handles POST /addid.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := httputil.DecodeJSON[AddIDRequest](r)
	if err != nil {
		httputil.WriteInternal(w, r, h.logger, requestID, err)
		return
	}

	id := req.Candidate()
	// The registry already logged and counted a failed save; the append stands.
	if err := h.service.Add(ctx, id); err != nil && !errors.Is(err, identifier.ErrPersist) {
		switch {
		case errors.Is(err, identifier.ErrInvalidFormat):
			h.logger.WarnContext(ctx, "rejected identifier with invalid format",
				"request_id", requestID,
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, MessageInvalidFormat))
		case errors.Is(err, identifier.ErrDuplicate):
			h.logger.WarnContext(ctx, "rejected duplicate identifier",
				"request_id", requestID,
				"id", id,
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, MessageDuplicate))
		default:
			httputil.WriteInternal(w, r, h.logger, requestID, err)
		}
		return
	}

	h.logger.InfoContext(ctx, "identifier added",
		"request_id", requestID,
		"id", id,
	)
	httputil.WriteMessage(w, http.StatusCreated, MessageAdded)
}

// HandleDelete handles DELETE /deleteid/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := chi.URLParam(r, "id")

	if err := h.service.Remove(ctx, id); err != nil && !errors.Is(err, identifier.ErrPersist) {
		if errors.Is(err, identifier.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, MessageNotFound))
			return
		}
		httputil.WriteInternal(w, r, h.logger, requestID, err)
		return
	}

	h.logger.InfoContext(ctx, "identifier deleted",
		"request_id", requestID,
		"id", id,
	)
	httputil.WriteMessage(w, http.StatusOK, MessageDeleted)
}
