package service

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-chain-vault/internal/adapter"
	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/internal/crypto"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/internal/validators"
	"github.com/MKhiriev/go-chain-vault/models"
)

type clientDataService struct {
	adapter     adapter.ServerAdapter
	credentials CredentialManager
	engine      crypto.Engine
	validator   validators.Validator
	logger      *logger.Logger
}

func NewClientDataService(
	serverAdapter adapter.ServerAdapter,
	credentials CredentialManager,
	engine crypto.Engine,
	validator validators.Validator,
	log *logger.Logger,
) DataService {
	return &clientDataService{
		adapter:     serverAdapter,
		credentials: credentials,
		engine:      engine,
		validator:   validator,
		logger:      log,
	}
}

func (d *clientDataService) Submit(ctx context.Context, label, plaintext string) (models.SubmitResponse, error) {
	req := models.SubmitRequest{Label: strings.TrimSpace(label), Data: plaintext}
	if err := d.validator.Validate(ctx, req); err != nil {
		return models.SubmitResponse{}, err
	}

	credential, ok := d.credentials.AuthorizationFor(models.EndpointDataSubmit)
	if !ok {
		return models.SubmitResponse{}, apierrors.NewAuthenticationError("submit", apierrors.ErrNotAuthenticated)
	}
	secret := d.credentials.Secret()
	if secret == "" {
		return models.SubmitResponse{}, apierrors.NewAuthenticationError("submit", apierrors.ErrNotAuthenticated)
	}

	payload, err := d.engine.Encrypt(plaintext, secret)
	if err != nil {
		return models.SubmitResponse{}, err
	}
	req.Data = payload

	resp, err := d.adapter.SubmitData(ctx, credential, req)
	if err != nil {
		return models.SubmitResponse{}, classify("submit", err)
	}

	d.logger.Debug().
		Str("func", "*clientDataService.Submit").
		Str("collection_id", resp.CollectionID).
		Int64("block_number", resp.BlockNumber).
		Msg("collection submitted")

	return resp, nil
}

func (d *clientDataService) List(ctx context.Context) ([]models.CollectionSummary, error) {
	credential, ok := d.credentials.AuthorizationFor(models.EndpointDataList)
	if !ok {
		return nil, apierrors.NewAuthenticationError("list", apierrors.ErrNotAuthenticated)
	}

	list, err := d.adapter.ListCollections(ctx, credential)
	if err != nil {
		return nil, classify("list", err)
	}
	return list, nil
}

func (d *clientDataService) Decrypt(ctx context.Context, collectionID string) (models.DecryptedCollection, error) {
	req := models.DecryptRequest{CollectionID: strings.TrimSpace(collectionID)}
	if err := d.validator.Validate(ctx, req); err != nil {
		return models.DecryptedCollection{}, err
	}

	credential, ok := d.credentials.AuthorizationFor(models.DecryptEndpoint(req.CollectionID))
	if !ok {
		return models.DecryptedCollection{}, apierrors.NewAuthenticationError("decrypt", apierrors.ErrNotAuthenticated)
	}
	secret := d.credentials.Secret()
	if secret == "" {
		return models.DecryptedCollection{}, apierrors.NewAuthenticationError("decrypt", apierrors.ErrNotAuthenticated)
	}

	record, err := d.adapter.FetchCollection(ctx, credential, req.CollectionID)
	if err != nil {
		return models.DecryptedCollection{}, classify("decrypt", err)
	}

	plaintext, err := d.engine.Decrypt(record.Data, secret)
	if err != nil {
		return models.DecryptedCollection{}, err
	}

	return models.DecryptedCollection{
		ID:          record.ID,
		Label:       record.Label,
		Plaintext:   plaintext,
		BlockNumber: record.BlockNumber,
		CreatedAt:   record.CreatedAt,
	}, nil
}

// classify turns a 401/403 into an authentication error, keeping the
// network error reachable through errors.As.
func classify(op string, err error) error {
	var netErr *apierrors.NetworkError
	if errors.As(err, &netErr) && netErr.Unauthorized() {
		return apierrors.NewAuthenticationError(op, err)
	}
	return err
}
