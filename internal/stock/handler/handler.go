package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stocklog/inventory-service/internal/apperr"
	"github.com/stocklog/inventory-service/internal/auth"
	"github.com/stocklog/inventory-service/internal/httpx"
	"github.com/stocklog/inventory-service/internal/stock"
	"github.com/stocklog/inventory-service/internal/stock/dto"
	"github.com/stocklog/inventory-service/pkg/logger"
)

type StockHandler struct {
	uc     stock.UseCase
	logger logger.Logger
}

func NewStockHandler(uc stock.UseCase, log logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, logger: log}
}

func (h *StockHandler) Increase(w http.ResponseWriter, r *http.Request) {
	var input dto.AdjustInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, apperr.Validationf("invalid request body"))
		return
	}

	entry, err := h.uc.Increase(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), &input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"log": entry, "success": true})
}

func (h *StockHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	var input dto.AdjustInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, apperr.Validationf("invalid request body"))
		return
	}

	entry, err := h.uc.Decrease(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), &input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"log": entry, "success": true})
}

func (h *StockHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.uc.ListLogs(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"logs": entries, "success": true})
}
