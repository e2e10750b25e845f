package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/store"
)

// AddAccountParams carries the caller-supplied fields for registering a
// provider account.
type AddAccountParams struct {
	Name      string
	Provider  domain.ProviderKind
	APIKey    string
	Endpoint  string
	ModelID   string
	IsDefault bool
}

// UpdateAccountParams carries a partial account update. Nil fields are
// left untouched; only provided fields are merged into the stored record.
type UpdateAccountParams struct {
	Name      *string
	Provider  *domain.ProviderKind
	APIKey    *string
	Endpoint  *string
	ModelID   *string
	IsDefault *bool
}

// AccountService provides CRUD over provider-credential records layered
// on the snapshot store, and enforces the single-default invariant: at
// most one account carries the default flag at rest.
type AccountService struct {
	store  store.SnapshotStore
	logger *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(snapshots store.SnapshotStore, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  snapshots,
		logger: logger,
	}
}

// List returns all registered accounts with their API keys masked. The
// full key is never returned once stored.
func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(snap.Accounts))
	for i := range snap.Accounts {
		accounts = append(accounts, snap.Accounts[i].Masked())
	}
	return accounts, nil
}

// Add registers a new account. Name and API key are required; setting the
// account as default clears the flag on all existing accounts in the same
// write. Counters start at zero.
func (s *AccountService) Add(ctx context.Context, params AddAccountParams) (domain.Account, error) {
	account, err := domain.NewAccount(
		params.Name, params.Provider, params.APIKey,
		params.Endpoint, params.ModelID, params.IsDefault,
	)
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	err = s.store.Update(ctx, func(snap *domain.Snapshot) error {
		if account.IsDefault {
			snap.ClearDefaults()
		}
		snap.Accounts = append(snap.Accounts, *account)
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	s.logger.Info("account registered",
		"account_id", account.ID,
		"provider", account.Provider,
		"is_default", account.IsDefault)
	return *account, nil
}

// Update merges the provided fields into an existing account, enforcing
// the single-default invariant identically to Add.
// Returns store.ErrAccountNotFound if the id is absent.
func (s *AccountService) Update(ctx context.Context, id string, params UpdateAccountParams) (domain.Account, error) {
	var updated domain.Account
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		account := snap.AccountByID(id)
		if account == nil {
			return store.ErrAccountNotFound
		}

		if params.IsDefault != nil && *params.IsDefault {
			snap.ClearDefaults()
			// ClearDefaults touched the target too; re-resolve below.
			account = snap.AccountByID(id)
		}

		if params.Name != nil {
			account.Name = *params.Name
		}
		if params.Provider != nil {
			account.Provider = *params.Provider
		}
		if params.APIKey != nil {
			account.APIKey = *params.APIKey
		}
		if params.Endpoint != nil {
			account.Endpoint = *params.Endpoint
		}
		if params.ModelID != nil {
			account.ModelID = *params.ModelID
		}
		if params.IsDefault != nil {
			account.IsDefault = *params.IsDefault
		}

		if err := account.Validate(); err != nil {
			return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		}

		updated = *account
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	s.logger.Info("account updated", "account_id", id)
	return updated, nil
}

// Remove deletes an account. Historical tasks are unaffected.
// Returns store.ErrAccountNotFound if the id is absent.
func (s *AccountService) Remove(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Accounts {
			if snap.Accounts[i].ID == id {
				snap.Accounts = append(snap.Accounts[:i], snap.Accounts[i+1:]...)
				return nil
			}
		}
		return store.ErrAccountNotFound
	})
	if err != nil {
		return err
	}

	s.logger.Info("account removed", "account_id", id)
	return nil
}

// SetDefault clears the default flag on every account and sets it on the
// target. Returns store.ErrAccountNotFound if the id is absent.
func (s *AccountService) SetDefault(ctx context.Context, id string) (domain.Account, error) {
	var updated domain.Account
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		snap.ClearDefaults()
		account := snap.AccountByID(id)
		if account == nil {
			return store.ErrAccountNotFound
		}
		account.IsDefault = true
		updated = *account
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	s.logger.Info("default account changed", "account_id", id)
	return updated, nil
}
