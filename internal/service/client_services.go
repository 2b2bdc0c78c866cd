package service

import (
	"github.com/MKhiriev/go-chain-vault/internal/adapter"
	"github.com/MKhiriev/go-chain-vault/internal/crypto"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/internal/store"
	"github.com/MKhiriev/go-chain-vault/internal/validators"
	"github.com/MKhiriev/go-chain-vault/internal/workers"
)

type ClientServices struct {
	Credentials CredentialManager
	Accounts    AccountService
	Data        DataService
}

func NewClientServices(
	credStore store.CredentialStore,
	serverAdapter adapter.ServerAdapter,
	engine crypto.Engine,
	scheduler workers.Scheduler,
	log *logger.Logger,
	opts ...CredentialManagerOption,
) *ClientServices {
	credentials := NewCredentialManager(credStore, serverAdapter, scheduler, log, opts...)

	return &ClientServices{
		Credentials: credentials,
		Accounts:    NewClientAccountService(serverAdapter, credentials, log.Component("accounts")),
		Data:        NewClientDataService(serverAdapter, credentials, engine, validators.NewRequestValidator(), log.Component("data")),
	}
}
