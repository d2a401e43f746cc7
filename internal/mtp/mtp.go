// Package mtp provides the remote side of the conversation purge on top of
// gotd/td.
package mtp

import (
	"context"
	"errors"
	"time"

	"github.com/gotd/contrib/bg"
	"github.com/gotd/contrib/middleware/floodwait"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tgerr"
	"github.com/mattn/go-colorable"
	"github.com/rusq/dlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rusq/purgemychats/internal/convo"
	"github.com/rusq/purgemychats/internal/mtp/authflow"
	"github.com/rusq/purgemychats/internal/session"
)

const defBatchSize = 100

var (
	// ErrAlreadyRunning is returned if the attempt is made to start the client,
	// while there's another instance running asynchronously.
	ErrAlreadyRunning = errors.New("already running asynchronously, stop the running instance first")
	// ErrNoCredentials is returned by New if the API ID or API hash are not
	// set and could not be loaded from the credentials file.
	ErrNoCredentials = errors.New("API ID and API hash are not set")
)

// errPhoneInvalid is the RPC error type for the malformed phone number.
const errPhoneInvalid = "PHONE_NUMBER_INVALID"

// IsPhoneInvalid returns true if err is caused by the invalid phone number.
func IsPhoneInvalid(err error) bool {
	return tgerr.Is(err, errPhoneInvalid)
}

type Client struct {
	cl *telegram.Client

	creds   credsStorage
	appID   int
	appHash string

	waiter *floodwait.SimpleWaiter

	stop bg.StopFunc

	auth         auth.UserAuthenticator
	sendcodeOpts auth.SendCodeOptions
	telegramOpts telegram.Options
}

type Option func(c *Client)

// WithStorage allows to specify the path to the encrypted session file.
func WithStorage(path string) Option {
	return func(c *Client) {
		c.telegramOpts.SessionStorage = &session.FileStorage{Path: path}
	}
}

// WithAuth allows to override the authorization flow
func WithAuth(flow auth.UserAuthenticator) Option {
	return func(c *Client) {
		c.auth = flow
	}
}

// WithApiCredsFile sets the path of the encrypted file with API credentials.
// If the credentials are not passed to New, they are loaded from this file,
// and the credentials are saved to this file after successful start.
func WithApiCredsFile(path string) Option {
	return func(c *Client) {
		c.creds = credsStorage{filename: path}
	}
}

// WithFloodWait enables waiting on FLOOD_WAIT errors for up to maxWait.
// Longer waits are returned to the caller.  Zero disables waiting, all
// FLOOD_WAIT errors are returned.
func WithFloodWait(maxWait time.Duration) Option {
	return func(c *Client) {
		if maxWait <= 0 {
			c.waiter = nil
			return
		}
		c.waiter = floodwait.NewSimpleWaiter().WithMaxWait(maxWait)
	}
}

func WithDebug(enable bool) Option {
	return func(c *Client) {
		if !enable {
			c.telegramOpts.Logger = nil
			return
		}
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		c.telegramOpts.Logger = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zapcore.AddSync(colorable.NewColorableStdout()),
			zapcore.DebugLevel,
		))
	}
}

func New(appID int, appHash string, opts ...Option) (*Client, error) {
	// Client with the default parameters
	var c = Client{
		auth: authflow.TermAuth{}, // default is the terminal authentication

		telegramOpts: telegram.Options{},
	}

	for _, opt := range opts {
		opt(&c)
	}

	if c.waiter != nil {
		c.telegramOpts.Middlewares = append(c.telegramOpts.Middlewares, c.waiter)
	}
	if appID == 0 || appHash == "" {
		var err error
		appID, appHash, err = c.loadCredentials()
		if err != nil {
			return nil, err
		}
	}
	c.appID, c.appHash = appID, appHash

	c.cl = telegram.NewClient(appID, appHash, c.telegramOpts)

	return &c, nil
}

func (c *Client) loadCredentials() (int, string, error) {
	if !c.creds.IsAvailable() {
		return 0, "", ErrNoCredentials
	}
	apiID, apiHash, err := c.creds.Load()
	if err != nil {
		dlog.Debugf("error loading credentials file: %s", err)
		return 0, "", ErrNoCredentials
	}
	if apiID <= 0 || apiHash == "" {
		return 0, "", ErrNoCredentials
	}
	return apiID, apiHash, nil
}

// Start starts the telegram session in goroutine and authenticates the user,
// if necessary.
func (c *Client) Start(ctx context.Context) error {
	if c.stop != nil {
		return ErrAlreadyRunning
	}

	stop, err := bg.Connect(c.cl)
	if err != nil {
		return err
	}
	c.stop = stop

	flow := auth.NewFlow(c.auth, c.sendcodeOpts)
	if err := c.cl.Auth().IfNecessary(ctx, flow); err != nil {
		if err := c.Stop(); err != nil {
			dlog.Debugf("error stopping: %s", err)
		}
		return err
	}
	dlog.Debug("auth success")

	if c.creds.IsAvailable() {
		if err := c.creds.Save(c.appID, c.appHash); err != nil {
			// not a fatal error
			dlog.Debugf("failed to save credentials: %s", err)
		}
	}

	return nil
}

// Stop stops the running client.  It is safe to call Stop on the client that
// was not started.
func (c *Client) Stop() error {
	if c.stop == nil {
		return nil
	}
	stop := c.stop
	c.stop = nil
	return stop()
}

// Authorized reports if the session is authorized.
func (c *Client) Authorized(ctx context.Context) (bool, error) {
	status, err := c.cl.Auth().Status(ctx)
	if err != nil {
		return false, err
	}
	return status.Authorized, nil
}

// Self returns the current user.
func (c *Client) Self(ctx context.Context) (convo.Entity, error) {
	u, err := c.cl.Self(ctx)
	if err != nil {
		return convo.Entity{}, err
	}
	return userEntity(u), nil
}
