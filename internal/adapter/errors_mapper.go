package adapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/models"
)

// errorBody is the JSON error envelope the service may answer with.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func mapHTTPError(endpoint models.Endpoint, resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	return &apierrors.NetworkError{
		StatusCode: resp.StatusCode(),
		Message:    errorMessage(resp),
		Endpoint:   endpoint.String(),
	}
}

func mapTransportError(endpoint models.Endpoint, err error) error {
	return &apierrors.NetworkError{
		Endpoint: endpoint.String(),
		Err:      err,
	}
}

func errorMessage(resp *resty.Response) string {
	body := strings.TrimSpace(string(resp.Body()))

	var envelope errorBody
	if strings.HasPrefix(body, "{") && json.Unmarshal([]byte(body), &envelope) == nil {
		switch {
		case envelope.Error != "":
			return envelope.Error
		case envelope.Message != "":
			return envelope.Message
		}
	}

	if body == "" {
		return http.StatusText(resp.StatusCode())
	}
	return body
}
