package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProviderKind identifies an external image-generation vendor.
type ProviderKind string

// Supported provider kinds. New vendors are added here and registered
// with the provider registry; stored accounts keep working unchanged.
const (
	ProviderVolcengine ProviderKind = "volcengine"
	ProviderJimeng     ProviderKind = "jimeng"
)

// Common validation errors for Account
var (
	ErrEmptyAccountName = errors.New("account name cannot be empty")
	ErrEmptyAPIKey      = errors.New("account API key cannot be empty")
)

// MaskedKeyPlaceholder replaces the hidden middle portion of an API key
// in listings.
const MaskedKeyPlaceholder = "****"

// Account is a stored credential/config bundle for one provider
// integration. The usage counters are mutated only by the dispatcher at
// well-defined points of a task's lifecycle and never decrease.
type Account struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Provider     ProviderKind `json:"provider"`
	APIKey       string       `json:"apiKey"`
	Endpoint     string       `json:"endpoint"`
	ModelID      string       `json:"modelId"`
	IsDefault    bool         `json:"isDefault"`
	UsageCount   int          `json:"usageCount"`
	SuccessCount int          `json:"successCount"`
	FailureCount int          `json:"failureCount"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// NewAccount creates a new Account with a generated ID, zeroed counters
// and the creation timestamp set. Returns an error if validation fails.
func NewAccount(name string, provider ProviderKind, apiKey, endpoint, modelID string, isDefault bool) (*Account, error) {
	account := &Account{
		ID:        "acc_" + uuid.NewString(),
		Name:      name,
		Provider:  provider,
		APIKey:    apiKey,
		Endpoint:  endpoint,
		ModelID:   modelID,
		IsDefault: isDefault,
		CreatedAt: time.Now().UTC(),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account has valid data.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAccountName
	}
	if a.APIKey == "" {
		return ErrEmptyAPIKey
	}
	return nil
}

// MaskedAPIKey returns the API key with only the first four and last four
// characters visible. Keys shorter than eight characters carry too little
// material to reveal any of it, so they are masked entirely.
func (a *Account) MaskedAPIKey() string {
	if a.APIKey == "" {
		return ""
	}
	if len(a.APIKey) < 8 {
		return MaskedKeyPlaceholder
	}
	return a.APIKey[:4] + MaskedKeyPlaceholder + a.APIKey[len(a.APIKey)-4:]
}

// Masked returns a copy of the account safe for listings: the full API
// key is never returned once stored.
func (a *Account) Masked() Account {
	masked := *a
	masked.APIKey = a.MaskedAPIKey()
	return masked
}
