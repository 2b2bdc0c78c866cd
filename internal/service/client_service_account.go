package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-chain-vault/internal/adapter"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/models"
)

type clientAccountService struct {
	adapter     adapter.ServerAdapter
	credentials CredentialManager
	logger      *logger.Logger
}

func NewClientAccountService(serverAdapter adapter.ServerAdapter, credentials CredentialManager, log *logger.Logger) AccountService {
	return &clientAccountService{adapter: serverAdapter, credentials: credentials, logger: log}
}

func (a *clientAccountService) CreateAccount(ctx context.Context) (models.Account, error) {
	account, err := a.adapter.CreateAccount(ctx)
	if err != nil {
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}

	// the secret is never shown again, so it is returned even when it
	// could not be stored
	if err := a.credentials.SetSecret(ctx, account.Secret); err != nil {
		a.logger.Err(err).Str("func", "*clientAccountService.CreateAccount").Msg("issued secret not persisted")
		return account, fmt.Errorf("store issued secret: %w", err)
	}

	a.logger.Info().
		Str("func", "*clientAccountService.CreateAccount").
		Str("subject_id", account.SubjectID).
		Msg("account created")

	return account, nil
}
