package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// ParseFlags parses configuration flags from args using a dedicated flag set,
// so it can be called more than once (tests, embedded use).
//
// Flags:
//
//	-a service HTTP address (URL or host:port)
//	-ws event stream address (URL)
//	-d SQLite database path
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "15s")
//	-renewal-lead session renewal lead time (e.g., "5m")
//	-kdf-iterations PBKDF2 round count
//	-no-auto-connect do not open the event stream after login
//
// Positional arguments left after the flags are kept on the returned config
// and exposed through [ClientConfig.Args].
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-chain-vault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		httpAddress    string
		wsAddress      string
		databaseDSN    string
		jsonConfigPath string
		requestTimeout time.Duration
		renewalLead    time.Duration
		kdfIterations  int
		noAutoConnect  bool
	)

	fs.StringVar(&httpAddress, "a", "", "Service HTTP address")
	fs.StringVar(&wsAddress, "ws", "", "Event stream address")
	fs.StringVar(&databaseDSN, "d", "", "SQLite database path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	fs.DurationVar(&renewalLead, "renewal-lead", 0, "Session renewal lead time (e.g., 5m)")
	fs.IntVar(&kdfIterations, "kdf-iterations", 0, "PBKDF2 iterations")
	fs.BoolVar(&noAutoConnect, "no-auto-connect", false, "Do not connect the event stream after login")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    httpAddress,
			WSAddress:      wsAddress,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Auth:         Auth{RenewalLeadTime: renewalLead},
		Crypto:       Crypto{KDFIterations: kdfIterations},
		Events:       Events{DisableAutoConnect: noAutoConnect},
		JSONFilePath: jsonConfigPath,
		Args:         fs.Args(),
	}, nil
}
