package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations.
type StructuredJSONConfig struct {
	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		WSAddress      string   `json:"ws_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Auth struct {
		RenewalLeadTime Duration `json:"renewal_lead_time"`
	} `json:"auth,omitempty"`

	Crypto struct {
		KDFIterations int `json:"kdf_iterations"`
	} `json:"crypto,omitempty"`

	Events struct {
		ReconnectBaseDelay   Duration `json:"reconnect_base_delay"`
		ReconnectMaxDelay    Duration `json:"reconnect_max_delay"`
		MaxReconnectAttempts int      `json:"max_reconnect_attempts"`
		KeepaliveInterval    Duration `json:"keepalive_interval"`
		DisableAutoConnect   bool     `json:"disable_auto_connect"`
	} `json:"events,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			WSAddress:      jsonCfg.Adapter.WSAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Auth: Auth{
			RenewalLeadTime: time.Duration(jsonCfg.Auth.RenewalLeadTime),
		},
		Crypto: Crypto{
			KDFIterations: jsonCfg.Crypto.KDFIterations,
		},
		Events: Events{
			ReconnectBaseDelay:   time.Duration(jsonCfg.Events.ReconnectBaseDelay),
			ReconnectMaxDelay:    time.Duration(jsonCfg.Events.ReconnectMaxDelay),
			MaxReconnectAttempts: jsonCfg.Events.MaxReconnectAttempts,
			KeepaliveInterval:    time.Duration(jsonCfg.Events.KeepaliveInterval),
			DisableAutoConnect:   jsonCfg.Events.DisableAutoConnect,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
