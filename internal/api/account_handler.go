package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkforge/inkforge-api/internal/api/shared"
	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/service"
)

// CreateAccountRequest represents the request body for registering an account
type CreateAccountRequest struct {
	Name      string `json:"name"      validate:"required"`
	Provider  string `json:"provider"  validate:"required"`
	APIKey    string `json:"apiKey"    validate:"required"`
	Endpoint  string `json:"endpoint"`
	ModelID   string `json:"modelId"`
	IsDefault bool   `json:"isDefault"`
}

// UpdateAccountRequest represents a partial account update; absent fields
// are left untouched.
type UpdateAccountRequest struct {
	Name      *string `json:"name"`
	Provider  *string `json:"provider"`
	APIKey    *string `json:"apiKey"`
	Endpoint  *string `json:"endpoint"`
	ModelID   *string `json:"modelId"`
	IsDefault *bool   `json:"isDefault"`
}

// AccountResponse represents the response data for an account
type AccountResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Provider     string    `json:"provider"`
	APIKey       string    `json:"apiKey"`
	Endpoint     string    `json:"endpoint"`
	ModelID      string    `json:"modelId"`
	IsDefault    bool      `json:"isDefault"`
	UsageCount   int       `json:"usageCount"`
	SuccessCount int       `json:"successCount"`
	FailureCount int       `json:"failureCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type accountEnvelope struct {
	Success bool            `json:"success"`
	Account AccountResponse `json:"account"`
}

type accountListEnvelope struct {
	Success  bool              `json:"success"`
	Accounts []AccountResponse `json:"accounts"`
}

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// List handles GET /api/accounts requests. API keys are masked.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, accountToResponse(account))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, accountListEnvelope{Success: true, Accounts: responses})
}

// Create handles POST /api/accounts requests
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Account name and API key are required")
		return
	}

	account, err := h.accounts.Add(r.Context(), service.AddAccountParams{
		Name:      req.Name,
		Provider:  domain.ProviderKind(req.Provider),
		APIKey:    req.APIKey,
		Endpoint:  req.Endpoint,
		ModelID:   req.ModelID,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountEnvelope{Success: true, Account: accountToResponse(account)})
}

// Update handles PUT /api/accounts/{id} requests
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateAccountRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	params := service.UpdateAccountParams{
		Name:      req.Name,
		APIKey:    req.APIKey,
		Endpoint:  req.Endpoint,
		ModelID:   req.ModelID,
		IsDefault: req.IsDefault,
	}
	if req.Provider != nil {
		kind := domain.ProviderKind(*req.Provider)
		params.Provider = &kind
	}

	account, err := h.accounts.Update(r.Context(), id, params)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountEnvelope{Success: true, Account: accountToResponse(account)})
}

// Delete handles DELETE /api/accounts/{id} requests
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.accounts.Remove(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{"success": true})
}

// SetDefault handles PUT /api/accounts/{id}/default requests
func (h *AccountHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := h.accounts.SetDefault(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountEnvelope{Success: true, Account: accountToResponse(account)})
}

// accountToResponse converts a domain.Account to an AccountResponse.
// The API key is always masked on the way out; the full key is never
// returned once stored. Masking is idempotent, so already-masked
// listings pass through unchanged.
func accountToResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:           account.ID,
		Name:         account.Name,
		Provider:     string(account.Provider),
		APIKey:       account.MaskedAPIKey(),
		Endpoint:     account.Endpoint,
		ModelID:      account.ModelID,
		IsDefault:    account.IsDefault,
		UsageCount:   account.UsageCount,
		SuccessCount: account.SuccessCount,
		FailureCount: account.FailureCount,
		CreatedAt:    account.CreatedAt,
	}
}
