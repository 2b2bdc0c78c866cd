package vault

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-chain-vault/internal/config"
	"github.com/MKhiriev/go-chain-vault/models"
)

// fakeVault is an in-memory stand-in for the remote service.
type fakeVault struct {
	mu          sync.Mutex
	lifetime    int64
	rejectLogin bool
	secrets     map[string]string
	tokens      map[string]string
	collections map[string]models.CollectionRecord
	order       []string
	logins      int
	seq         int
}

func newFakeVault(t *testing.T) (*fakeVault, *httptest.Server) {
	t.Helper()
	f := &fakeVault{
		lifetime:    3600,
		secrets:     make(map[string]string),
		tokens:      make(map[string]string),
		collections: make(map[string]models.CollectionRecord),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /account/create", f.createAccount)
	mux.HandleFunc("POST /account/login", f.login)
	mux.HandleFunc("POST /data/submit", f.submit)
	mux.HandleFunc("GET /data/list", f.list)
	mux.HandleFunc("POST /data/decrypt/{id}", f.decrypt)
	mux.HandleFunc("GET /ws", f.stream)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeVault) setRejectLogin(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectLogin = v
}

func (f *fakeVault) storedData(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.collections[id].Data
}

func (f *fakeVault) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeVault) createAccount(w http.ResponseWriter, _ *http.Request) {
	raw := make([]byte, 32)
	_, _ = rand.Read(raw)

	f.mu.Lock()
	f.seq++
	secret := hex.EncodeToString(raw)
	subject := fmt.Sprintf("subject-%d", f.seq)
	f.secrets[secret] = subject
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, models.Account{Secret: secret, SubjectID: subject, Warning: "store the secret, it is shown once"})
}

func (f *fakeVault) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	subject, ok := f.secrets[req.Secret]
	if !ok || f.rejectLogin {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid secret"})
		return
	}
	f.seq++
	f.logins++
	token := fmt.Sprintf("token-%d", f.seq)
	f.tokens[token] = subject

	writeJSON(w, http.StatusOK, models.LoginResponse{SessionToken: token, SubjectID: subject, ExpiresInSeconds: f.lifetime})
}

func (f *fakeVault) submit(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.secrets[bearer(r)]; !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "secret required"})
		return
	}
	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}

	f.seq++
	id := fmt.Sprintf("col-%d", f.seq)
	f.collections[id] = models.CollectionRecord{ID: id, Label: req.Label, Data: req.Data, BlockNumber: int64(len(f.order) + 1)}
	f.order = append(f.order, id)

	writeJSON(w, http.StatusOK, models.SubmitResponse{Message: "stored", CollectionID: id, BlockNumber: int64(len(f.order))})
}

func (f *fakeVault) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tokens[bearer(r)]; !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session required"})
		return
	}
	out := make([]models.CollectionSummary, 0, len(f.order))
	for _, id := range f.order {
		rec := f.collections[id]
		out = append(out, models.CollectionSummary{ID: rec.ID, Label: rec.Label, BlockNumber: rec.BlockNumber})
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": out})
}

func (f *fakeVault) decrypt(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tokens[bearer(r)]; !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session required"})
		return
	}
	rec, ok := f.collections[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "collection not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// stream acknowledges subscriptions, publishes one event per subscribe and
// answers pings.
func (f *fakeVault) stream(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	_, ok := f.tokens[r.URL.Query().Get("token")]
	f.mu.Unlock()
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var frame models.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		switch frame.Type {
		case models.FrameSubscribe:
			_ = conn.WriteJSON(models.Frame{Type: models.FrameSubscribed, Event: frame.Event})
			_ = conn.WriteJSON(models.Frame{Type: models.FrameEvent, Event: frame.Event, Data: json.RawMessage(`{"ok":true}`)})
		case models.FramePing:
			_ = conn.WriteJSON(models.Frame{Type: models.FramePong})
		}
	}
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newTestConfig points a client at srv with a private database file. The
// database path is stable per test so a second client can restore from it.
func newTestConfig(t *testing.T, srv *httptest.Server, dbPath string) *Config {
	t.Helper()
	wsAddress, err := config.DeriveWSAddress(srv.URL)
	require.NoError(t, err)
	if dbPath == "" {
		dbPath = filepath.Join(t.TempDir(), "vault.db")
	}

	return &Config{
		Adapter: config.ClientAdapter{
			HTTPAddress:    srv.URL,
			WSAddress:      wsAddress,
			RequestTimeout: 5 * time.Second,
		},
		Storage: config.ClientStorage{DB: config.ClientDB{DSN: dbPath}},
		Auth:    config.Auth{RenewalLeadTime: 5 * time.Minute},
		Crypto:  config.Crypto{KDFIterations: 1000},
		Events: config.Events{
			ReconnectBaseDelay:   time.Second,
			ReconnectMaxDelay:    30 * time.Second,
			MaxReconnectAttempts: 10,
			KeepaliveInterval:    30 * time.Second,
			DisableAutoConnect:   true,
		},
	}
}
