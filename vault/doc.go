// Package vault is the client SDK for the chain vault service.
//
// A [Client] bundles three namespaces:
//
//   - Auth: account creation, login, logout and the session lifecycle,
//     including automatic renewal shortly before the session expires;
//   - Data: encrypted submissions, listing and local decryption;
//   - WS: the event stream, with subscriptions that survive reconnects.
//
// Plaintext never leaves the process: Data.Submit encrypts with a key
// derived from the account secret before sending, and Data.Decrypt decrypts
// what the service returns.
//
//	cfg, err := vault.LoadConfig(os.Args[1:])
//	if err != nil { ... }
//	c, err := vault.New(ctx, cfg)
//	if err != nil { ... }
//	defer c.Close()
//
//	if _, err := c.Auth.Login(ctx); err != nil { ... }
//	resp, err := c.Data.Submit(ctx, "notes", "hello")
//
// Errors belong to a small taxonomy re-exported here ([AuthenticationError],
// [EncryptionError], [NetworkError], [ValidationError]) and are matched with
// errors.As and errors.Is.
package vault
