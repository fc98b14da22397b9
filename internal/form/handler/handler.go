package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formgate/internal/form"
	dErrors "formgate/pkg/domain-errors"
	"formgate/pkg/platform/httputil"
	"formgate/pkg/requestcontext"
)

// Client-facing messages for the form routes.
const (
	MessageSaved      = "Formulário salvo com sucesso"
	MessageInvalidID  = "ID inválido"
	MessageSaveFailed = "Erro ao salvar os dados do formulário"
	MessageNoData     = "Dados do formulário não encontrados"
	MessageReadFailed = "Erro ao ler os dados do formulário"
)

// Registry answers whether an identifier is currently registered.
type Registry interface {
	Contains(ctx context.Context, id string) bool
}

// Service defines the form store operations the handler needs.
type Service interface {
	Save(ctx context.Context, id string, payload json.RawMessage) error
	Exists(ctx context.Context, id string) (bool, error)
	Read(ctx context.Context, id string) (json.RawMessage, error)
}

// Handler wires the form endpoints to the registry and the form store.
type Handler struct {
	registry Registry
	forms    Service
	logger   *slog.Logger
}

// New constructs a form handler.
func New(registry Registry, forms Service, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		forms:    forms,
		logger:   logger,
	}
}

// Register mounts the form endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/save-form/{id}", h.HandleSave)
	r.Get("/form-status/{id}", h.HandleStatus)
	r.Get("/form-data/{id}", h.HandleData)
}

// HandleSave handles POST /save-form/{id}.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	payload, err := httputil.ReadJSONBody(r)
	if err != nil {
		httputil.WriteInternal(w, r, h.logger, requestID, err)
		return
	}

	id, ok := h.registeredID(w, r)
	if !ok {
		return
	}

	if err := h.forms.Save(ctx, id, payload); err != nil {
		h.logger.ErrorContext(ctx, "failed to save form",
			"request_id", requestID,
			"id", id,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, MessageSaveFailed))
		return
	}

	h.logger.InfoContext(ctx, "form saved",
		"request_id", requestID,
		"id", id,
	)
	httputil.WriteMessage(w, http.StatusCreated, MessageSaved)
}

// HandleStatus handles GET /form-status/{id}. A backend failure reads as
// "no form" rather than an error.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.registeredID(w, r)
	if !ok {
		return
	}

	exists, err := h.forms.Exists(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "form status check failed, reporting absent",
			"request_id", requestcontext.RequestID(ctx),
			"id", id,
			"error", err,
		)
		exists = false
	}
	httputil.WriteJSON(w, http.StatusOK, FormStatusResponse{FormExists: exists})
}

// HandleData handles GET /form-data/{id}.
func (h *Handler) HandleData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := h.registeredID(w, r)
	if !ok {
		return
	}

	data, err := h.forms.Read(ctx, id)
	if err != nil {
		if errors.Is(err, form.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, MessageNoData))
			return
		}
		h.logger.ErrorContext(ctx, "failed to read form",
			"request_id", requestID,
			"id", id,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, MessageReadFailed))
		return
	}

	httputil.WriteRawJSON(w, http.StatusOK, data)
}

// registeredID extracts the path id and writes 400 when it is not registered.
func (h *Handler) registeredID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !h.registry.Contains(r.Context(), id) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, MessageInvalidID))
		return "", false
	}
	return id, true
}
