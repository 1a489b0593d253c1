package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stocklog/inventory-service/internal/apperr"
	"github.com/stocklog/inventory-service/internal/auth"
	"github.com/stocklog/inventory-service/internal/httpx"
	"github.com/stocklog/inventory-service/internal/item"
	"github.com/stocklog/inventory-service/internal/item/dto"
	"github.com/stocklog/inventory-service/pkg/logger"
)

type ItemHandler struct {
	uc     item.UseCase
	logger logger.Logger
}

func NewItemHandler(uc item.UseCase, log logger.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, logger: log}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, apperr.Validationf("invalid request body"))
		return
	}

	it, err := h.uc.CreateItem(r.Context(), auth.UserID(r.Context()), &input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, it)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.uc.GetItem(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	items, err := h.uc.ListItems(r.Context(), auth.UserID(r.Context()), category)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items, "success": true})
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, apperr.Validationf("invalid request body"))
		return
	}

	it, err := h.uc.UpdateItem(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), &input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteItem(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"message": "item deleted", "success": true})
}

func (h *ItemHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.Summarize(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}
