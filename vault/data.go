package vault

import "context"

// DataAPI is the Data namespace of a [Client].
type DataAPI struct {
	c *Client
}

// Submit encrypts plaintext with the account secret and stores it under
// label. It needs the secret only, not a session.
func (d *DataAPI) Submit(ctx context.Context, label, plaintext string) (SubmitResponse, error) {
	return d.c.services.Data.Submit(ctx, label, plaintext)
}

// List returns the summaries of the stored collections.
func (d *DataAPI) List(ctx context.Context) ([]CollectionSummary, error) {
	return d.c.services.Data.List(ctx)
}

// Decrypt fetches one collection and decrypts it locally.
func (d *DataAPI) Decrypt(ctx context.Context, collectionID string) (DecryptedCollection, error) {
	return d.c.services.Data.Decrypt(ctx, collectionID)
}
