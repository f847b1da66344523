package masterdata

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/dmarkovic/invoice-tracking/internal/transport"
	"github.com/dmarkovic/invoice-tracking/pkg/logger"
)

// Handler serves the admin CRUD surface for one master-data entity. The
// router mounts one instance per table.
type Handler[T Resource] struct {
	*transport.BaseHandler
	Service *Service[T]
}

func NewHandler[T Resource](svc *Service[T]) *Handler[T] {
	return &Handler[T]{
		BaseHandler: transport.NewBaseHandler(logger.Default()),
		Service:     svc,
	}
}

func (h *Handler[T]) List(w http.ResponseWriter, r *http.Request) {
	entities, err := h.Service.List()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entities)
}

func (h *Handler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idFromURL(w, r)
	if !ok {
		return
	}

	e, err := h.Service.GetByID(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request) {
	e := new(T)
	if err := json.NewDecoder(r.Body).Decode(e); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(e)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idFromURL(w, r)
	if !ok {
		return
	}

	e := new(T)
	if err := json.NewDecoder(r.Body).Decode(e); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.Update(id, e)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idFromURL(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler[T]) idFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
