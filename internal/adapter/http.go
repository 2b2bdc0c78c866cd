package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/internal/config"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/internal/utils"
	"github.com/MKhiriev/go-chain-vault/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the resolved base URL and request
// timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// CreateAccount implements [ServerAdapter]. It POSTs an empty body to
// account/create and returns the issued secret and subject.
func (h *httpServerAdapter) CreateAccount(ctx context.Context) (models.Account, error) {
	var account models.Account

	if err := h.do(ctx, resty.MethodPost, models.EndpointAccountCreate, "", struct{}{}, &account); err != nil {
		return models.Account{}, err
	}
	if account.Secret == "" {
		return models.Account{}, &apierrors.NetworkError{
			Endpoint: models.EndpointAccountCreate.String(),
			Err:      errors.New("response has no secret"),
		}
	}

	return account, nil
}

// Login implements [ServerAdapter]. The secret travels in the body, not in
// the Authorization header.
func (h *httpServerAdapter) Login(ctx context.Context, secret string) (models.LoginResponse, error) {
	var resp models.LoginResponse

	err := h.do(ctx, resty.MethodPost, models.EndpointAccountLogin, "", models.LoginRequest{Secret: secret}, &resp)
	if err != nil {
		return models.LoginResponse{}, err
	}

	return resp, nil
}

// SubmitData implements [ServerAdapter].
func (h *httpServerAdapter) SubmitData(ctx context.Context, credential string, req models.SubmitRequest) (models.SubmitResponse, error) {
	var resp models.SubmitResponse

	if err := h.do(ctx, resty.MethodPost, models.EndpointDataSubmit, credential, req, &resp); err != nil {
		return models.SubmitResponse{}, err
	}

	return resp, nil
}

// ListCollections implements [ServerAdapter]. The service may answer with a
// bare array or with an object holding the array under "collections".
func (h *httpServerAdapter) ListCollections(ctx context.Context, credential string) ([]models.CollectionSummary, error) {
	var raw json.RawMessage

	if err := h.do(ctx, resty.MethodGet, models.EndpointDataList, credential, nil, &raw); err != nil {
		return nil, err
	}

	list, err := decodeCollectionList(raw)
	if err != nil {
		return nil, &apierrors.NetworkError{Endpoint: models.EndpointDataList.String(), Err: err}
	}

	return list, nil
}

// FetchCollection implements [ServerAdapter].
func (h *httpServerAdapter) FetchCollection(ctx context.Context, credential, collectionID string) (models.CollectionRecord, error) {
	var record models.CollectionRecord

	endpoint := models.DecryptEndpoint(url.PathEscape(collectionID))
	if err := h.do(ctx, resty.MethodPost, endpoint, credential, struct{}{}, &record); err != nil {
		return models.CollectionRecord{}, err
	}
	if record.ID == "" {
		record.ID = collectionID
	}

	return record, nil
}

// do sends one JSON request and decodes a non-empty 2xx body into result.
func (h *httpServerAdapter) do(ctx context.Context, method string, endpoint models.Endpoint, credential string, body, result any) error {
	log := logger.FromContext(ctx)

	req := h.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if credential != "" {
		req.SetAuthToken(credential)
	}

	resp, err := req.Execute(method, "/"+endpoint.String())
	if err != nil {
		log.Err(err).Str("func", "*httpServerAdapter.do").Str("endpoint", endpoint.String()).Msg("request failed")
		return mapTransportError(endpoint, err)
	}
	if err := mapHTTPError(endpoint, resp); err != nil {
		log.Debug().
			Str("func", "*httpServerAdapter.do").
			Str("endpoint", endpoint.String()).
			Int("status", resp.StatusCode()).
			Msg("service answered with an error status")
		return err
	}

	if result == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		log.Err(err).Str("func", "*httpServerAdapter.do").Str("endpoint", endpoint.String()).Msg("failed to decode response")
		return &apierrors.NetworkError{
			StatusCode: resp.StatusCode(),
			Message:    "invalid response body",
			Endpoint:   endpoint.String(),
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	return nil
}

type collectionEnvelope struct {
	Collections []models.CollectionSummary `json:"collections"`
	Data        []models.CollectionSummary `json:"data"`
}

func decodeCollectionList(raw json.RawMessage) ([]models.CollectionSummary, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return []models.CollectionSummary{}, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []models.CollectionSummary
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode collection list: %w", err)
		}
		return list, nil
	}

	var envelope collectionEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode collection list: %w", err)
	}
	if envelope.Collections != nil {
		return envelope.Collections, nil
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return []models.CollectionSummary{}, nil
}
