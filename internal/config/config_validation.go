// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// MinKDFIterations is the lowest accepted PBKDF2 round count.
const MinKDFIterations = 10_000

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.WSAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Auth.RenewalLeadTime < 0 {
		return ErrInvalidAuthConfigs
	}

	if cfg.Crypto.KDFIterations < MinKDFIterations {
		return ErrInvalidCryptoConfigs
	}

	if cfg.Events.ReconnectBaseDelay <= 0 ||
		cfg.Events.ReconnectMaxDelay < cfg.Events.ReconnectBaseDelay ||
		cfg.Events.MaxReconnectAttempts <= 0 ||
		cfg.Events.KeepaliveInterval <= 0 {
		return ErrInvalidEventsConfigs
	}

	return nil
}
