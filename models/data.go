package models

import "time"

// SubmitRequest is the body of the data submission endpoint. Data always
// holds an encrypted payload string, never plaintext.
type SubmitRequest struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// SubmitResponse is returned after the server has accepted a submission.
type SubmitResponse struct {
	Message      string `json:"message"`
	CollectionID string `json:"collectionId"`
	BlockNumber  int64  `json:"blockNumber"`
}

// CollectionSummary is one entry of the data listing. It carries no payload.
type CollectionSummary struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	BlockNumber int64     `json:"blockNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// CollectionRecord is a stored collection as returned by the server, with
// Data still encrypted.
type CollectionRecord struct {
	ID          string    `json:"id"`
	Label       string    `json:"label,omitempty"`
	Data        string    `json:"data"`
	BlockNumber int64     `json:"blockNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// DecryptedCollection is a [CollectionRecord] after local decryption.
type DecryptedCollection struct {
	ID          string
	Label       string
	Plaintext   string
	BlockNumber int64
	CreatedAt   time.Time
}

// DecryptRequest identifies a stored collection to fetch and open locally.
type DecryptRequest struct {
	CollectionID string
}
