package models

// Endpoint is a path of the remote service, relative to its API root.
type Endpoint string

// Endpoints of the remote service.
const (
	EndpointAccountCreate Endpoint = "account/create"
	EndpointAccountLogin  Endpoint = "account/login"
	EndpointDataSubmit    Endpoint = "data/submit"
	EndpointDataList      Endpoint = "data/list"
	EndpointDataDecrypt   Endpoint = "data/decrypt/"

	// EndpointEvents is the event stream. It is not an HTTP endpoint, but
	// its handshake credential is selected through the same routing table.
	EndpointEvents Endpoint = "ws"
)

// DecryptEndpoint returns the decrypt endpoint for the collection id.
func DecryptEndpoint(collectionID string) Endpoint {
	return EndpointDataDecrypt + Endpoint(collectionID)
}

// String implements [fmt.Stringer].
func (e Endpoint) String() string {
	return string(e)
}
