package service

import (
	"strings"

	"github.com/MKhiriev/go-chain-vault/models"
)

// CredentialKind names which credential an endpoint is authorized with.
type CredentialKind int

const (
	// CredentialSession is the short-lived session token.
	CredentialSession CredentialKind = iota
	// CredentialSecret is the long-lived account secret.
	CredentialSecret
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialSecret:
		return "secret"
	default:
		return "session"
	}
}

// Route maps an endpoint pattern to a credential kind. A pattern ending in
// "*" matches every endpoint with that prefix.
type Route struct {
	Pattern string
	Kind    CredentialKind
}

// Routes is an ordered routing table; the first matching route wins and
// unmatched endpoints use the session token.
type Routes []Route

// DefaultRoutes sends the raw secret only to data submission, the one
// endpoint that derives the encryption key server-side on the same request.
var DefaultRoutes = Routes{
	{Pattern: models.EndpointDataSubmit.String(), Kind: CredentialSecret},
	{Pattern: "*", Kind: CredentialSession},
}

// KindFor returns the credential kind for endpoint.
func (r Routes) KindFor(endpoint models.Endpoint) CredentialKind {
	path := strings.TrimPrefix(endpoint.String(), "/")
	for _, route := range r {
		if route.matches(path) {
			return route.Kind
		}
	}
	return CredentialSession
}

func (r Route) matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}
	return path == r.Pattern
}
