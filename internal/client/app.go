package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MKhiriev/go-chain-vault/internal/app"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/models"
	"github.com/MKhiriev/go-chain-vault/vault"
)

// ErrUnknownCommand is returned for an unrecognised sub-command.
var ErrUnknownCommand = errors.New("unknown command")

const usage = `usage: client [global flags] <command> [flags]

commands:
  create                      create an account and store its secret
  login [-secret S]           log in with the stored or the given secret
  logout                      forget all credentials
  status                      show the credential state
  submit -label L -data D     encrypt and store data
  list                        list stored collections
  decrypt -id ID              fetch and decrypt one collection
  watch -event E [-event F]   print events until interrupted
  version                     show build information
`

type App struct {
	auth      Auth
	data      Data
	stream    Stream
	buildInfo models.AppBuildInfo
	out       io.Writer
	logger    *logger.Logger
}

func NewApp(auth Auth, data Data, stream Stream, buildInfo models.AppBuildInfo, out io.Writer, log *logger.Logger) (*App, error) {
	if auth == nil || data == nil || stream == nil {
		return nil, errors.New("client: nil SDK namespace")
	}
	return &App{
		auth:      auth,
		data:      data,
		stream:    stream,
		buildInfo: buildInfo,
		out:       out,
		logger:    log,
	}, nil
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return nil
	}

	command, rest := args[0], args[1:]
	a.logger.Debug().Str("func", "*App.Run").Str("command", command).Msg("running command")

	switch command {
	case "create":
		return a.create(ctx)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "status":
		return a.status()
	case "submit":
		return a.submit(ctx, rest)
	case "list":
		return a.list(ctx)
	case "decrypt":
		return a.decrypt(ctx, rest)
	case "watch":
		return a.watch(ctx, rest)
	case "version":
		return a.version()
	case "help", "-h", "-help", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}

// Describe returns the user-facing message for an error returned by Run.
func (a *App) Describe(err error) string {
	if errors.Is(err, ErrUnknownCommand) {
		return err.Error() + "\n" + usage
	}
	return app.Describe(err)
}

func (a *App) create(ctx context.Context) error {
	account, err := a.auth.CreateAccount(ctx)
	if account.Secret == "" {
		return err
	}

	fmt.Fprintf(a.out, "subject: %s\n", account.SubjectID)
	fmt.Fprintf(a.out, "secret:  %s\n", account.Secret)
	if account.Warning != "" {
		fmt.Fprintf(a.out, "warning: %s\n", account.Warning)
	}
	if err != nil {
		fmt.Fprintln(a.out, "the secret was not saved locally; keep a copy before retrying")
	}
	return err
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	secret := fs.String("secret", "", "account secret (defaults to the stored one)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		session vault.Session
		err     error
	)
	if *secret != "" {
		session, err = a.auth.LoginWithSecret(ctx, *secret)
	} else {
		session, err = a.auth.Login(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "logged in as %s until %s\n", session.SubjectID, session.ExpiresAt.Format(time.RFC3339))
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *App) status() error {
	fmt.Fprintf(a.out, "state: %s\n", a.auth.State())
	if session, ok := a.auth.Session(); ok {
		fmt.Fprintf(a.out, "subject: %s\n", session.SubjectID)
		fmt.Fprintf(a.out, "expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func (a *App) submit(ctx context.Context, args []string) error {
	fs := newFlagSet("submit")
	label := fs.String("label", "", "collection label")
	data := fs.String("data", "", "plaintext to encrypt and store")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.data.Submit(ctx, *label, *data)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "collection: %s\n", resp.CollectionID)
	fmt.Fprintf(a.out, "block:      %d\n", resp.BlockNumber)
	if resp.Message != "" {
		fmt.Fprintf(a.out, "message:    %s\n", resp.Message)
	}
	return nil
}

func (a *App) list(ctx context.Context) error {
	collections, err := a.data.List(ctx)
	if err != nil {
		return err
	}
	if len(collections) == 0 {
		fmt.Fprintln(a.out, "no collections")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tBLOCK\tCREATED")
	for _, c := range collections {
		created := ""
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.ID, c.Label, c.BlockNumber, created)
	}
	return tw.Flush()
}

func (a *App) decrypt(ctx context.Context, args []string) error {
	fs := newFlagSet("decrypt")
	id := fs.String("id", "", "collection id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	collection, err := a.data.Decrypt(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "label: %s\n", collection.Label)
	fmt.Fprintln(a.out, collection.Plaintext)
	return nil
}

// watch prints events until ctx is cancelled or the stream gives up.
func (a *App) watch(ctx context.Context, args []string) error {
	fs := newFlagSet("watch")
	var eventTypes multiFlag
	fs.Var(&eventTypes, "event", "event type to watch, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(eventTypes) == 0 {
		return errors.New("watch: at least one -event is required")
	}

	printed := make(chan vault.Event, 16)
	for _, eventType := range eventTypes {
		if _, err := a.stream.Subscribe(eventType, func(e vault.Event) { printed <- e }); err != nil {
			return err
		}
	}

	failed := make(chan error, 1)
	a.stream.OnError(func(err error) {
		var serverErr *vault.ServerError
		if errors.As(err, &serverErr) {
			fmt.Fprintln(a.out, serverErr.Error())
			return
		}
		select {
		case failed <- err:
		default:
		}
	})

	if err := a.stream.Connect(ctx); err != nil {
		a.logger.Warn().Err(err).Str("func", "*App.watch").Msg("initial connect failed, retrying")
	}
	defer a.stream.Disconnect()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-failed:
			return err
		case e := <-printed:
			fmt.Fprintf(a.out, "%s %s\n", e.Name, strings.TrimSpace(string(e.Data)))
		}
	}
}

func (a *App) version() error {
	fmt.Fprintf(a.out, "Build version: %s\n", a.buildInfo.BuildVersion())
	fmt.Fprintf(a.out, "Build date: %s\n", a.buildInfo.BuildDate())
	fmt.Fprintf(a.out, "Build commit: %s\n", a.buildInfo.BuildCommit())
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// multiFlag collects a repeated string flag.
type multiFlag []string

func (m *multiFlag) String() string {
	sorted := append([]string(nil), *m...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}
