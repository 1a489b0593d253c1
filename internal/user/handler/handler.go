package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stocklog/inventory-service/internal/apperr"
	"github.com/stocklog/inventory-service/internal/auth"
	"github.com/stocklog/inventory-service/internal/httpx"
	"github.com/stocklog/inventory-service/internal/user"
	"github.com/stocklog/inventory-service/internal/user/dto"
	"github.com/stocklog/inventory-service/pkg/logger"
)

type UserHandler struct {
	uc     user.UseCase
	logger logger.Logger
}

func NewUserHandler(uc user.UseCase, log logger.Logger) *UserHandler {
	return &UserHandler{uc: uc, logger: log}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input dto.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, apperr.Validationf("invalid request body"))
		return
	}

	res, err := h.uc.Register(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input dto.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, apperr.Validationf("invalid request body"))
		return
	}

	res, err := h.uc.Login(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.uc.Profile(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, apperr.Validationf("invalid request body"))
		return
	}

	u, err := h.uc.UpdateProfile(r.Context(), auth.UserID(r.Context()), &input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteAccount(r.Context(), auth.UserID(r.Context())); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"message": "user deleted", "success": true})
}

func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, apperr.Validationf("invalid request body"))
		return
	}

	if err := h.uc.ForgotPassword(r.Context(), input.Email); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"message": "password reset link sent", "success": true})
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var input struct {
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, apperr.Validationf("invalid request body"))
		return
	}

	if err := h.uc.ResetPassword(r.Context(), token, input.NewPassword); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"message": "password reset successfully", "success": true})
}
