package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rusq/dlog"
	"github.com/rusq/osenv/v2"
	"github.com/rusq/tracer"
	"github.com/schollz/progressbar/v3"

	"github.com/rusq/purgemychats/internal/convo"
	"github.com/rusq/purgemychats/internal/mtp"
	"github.com/rusq/purgemychats/internal/mtp/authflow"
	"github.com/rusq/purgemychats/internal/session"
	"github.com/rusq/purgemychats/internal/tui"
	"github.com/rusq/purgemychats/internal/waipu"
)

const cacheDirName = "purgemychats"

const AppName = "Purge My Chats for Telegram"

var (
	version   = "dev"
	builtOn   = "just now"
	gitCommit = ""
	gitRef    = ""

	versionSig = fmt.Sprintf("%s %s (built %s)", AppName, version, builtOn)
)

var _ = godotenv.Load() // load environment variables from .env, if present

type Params struct {
	ApiID   int
	ApiHash string
	Phone   string

	All         bool
	Chats       bool
	Groups      bool
	Channels    bool
	Interactive bool
	Delay       float64
	FloodWait   time.Duration

	TUI   bool
	Reset bool
	List  bool

	Batch chatIDs

	Version bool
	Verbose bool
	Trace   string

	cacheDir string
}

func main() {
	p, err := parseCmdLine()
	if err != nil {
		dlog.Fatal(err)
	}
	if p.Version {
		ver(os.Stdout)
		return
	}

	dlog.SetDebug(p.Verbose)

	if err := p.initCacheDir(cacheDirName); err != nil {
		dlog.Fatalf("failed to create cache directory: %s", err)
	}

	if err := run(context.Background(), p); err != nil {
		if errors.Is(err, mtp.ErrNoCredentials) {
			authflow.Instructions(os.Stderr)
			os.Exit(1)
		}
		dlog.Fatal(err)
	}
}

type chatIDs []int64

func (c *chatIDs) Set(val string) error {
	ss := strings.Split(val, ",")
	var ids = make([]int64, 0, len(ss))

	for _, sID := range ss {
		id, err := strconv.ParseInt(strings.TrimSpace(sID), 10, 64)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	*c = ids
	return nil
}

func (c *chatIDs) String() string {
	return fmt.Sprint([]int64(*c))
}

func parseCmdLine() (Params, error) {
	var p Params
	{
		flag.IntVar(&p.ApiID, "api-id", osenv.Secret("API_ID", 0), "Telegram API ID")
		flag.StringVar(&p.ApiHash, "api-hash", osenv.Secret("API_HASH", ""), "Telegram API hash")
		flag.StringVar(&p.Phone, "phone", osenv.Value("PHONE", ""), "phone `number` in international format for authentication (optional)")

		flag.BoolVar(&p.All, "all", false, "select all conversations")
		flag.BoolVar(&p.Chats, "chats", false, "select all private chats")
		flag.BoolVar(&p.Groups, "groups", false, "select all groups")
		flag.BoolVar(&p.Channels, "channels", false, "select all channels")
		flag.BoolVar(&p.Interactive, "interactive", false, "select conversations interactively, category flags are ignored")
		flag.Float64Var(&p.Delay, "delay", waipu.DefDelay.Seconds(), "delay between operations in `seconds`")
		flag.DurationVar(&p.FloodWait, "flood-wait", 0, "wait up to this `duration` on rate limits, 0 reports them instead")

		flag.BoolVar(&p.TUI, "tui", false, "use the full screen interface to select conversations")
		flag.BoolVar(&p.Reset, "reset", false, "reset authentication")
		flag.BoolVar(&p.List, "list", false, "list conversations and their IDs")
		flag.Var(&p.Batch, "wipe", "batch mode, specify comma separated conversation IDs on the command line")

		flag.BoolVar(&p.Version, "v", false, "print version and exit")
		flag.BoolVar(&p.Verbose, "verbose", osenv.Value("DEBUG", "") != "", "verbose output")
		flag.StringVar(&p.Trace, "trace", osenv.Value("TRACE_FILE", ""), "trace `filename`")

		flag.Parse()
	}
	if p.Delay < 0 {
		return p, fmt.Errorf("invalid delay: %v", p.Delay)
	}
	return p, nil
}

func (p *Params) delay() time.Duration {
	return time.Duration(p.Delay * float64(time.Second))
}

func (p *Params) options() waipu.Options {
	return waipu.Options{
		Categories: waipu.Categories{
			All:      p.All,
			Chats:    p.Chats,
			Groups:   p.Groups,
			Channels: p.Channels,
		},
		IDs:         p.Batch,
		Interactive: p.Interactive,
		Delay:       p.delay(),
	}
}

func (p *Params) initCacheDir(appName string) error {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return err
	}
	cacheDir = filepath.Join(cacheDir, appName)
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		return err
	}
	p.cacheDir = cacheDir
	return nil
}

func run(ctx context.Context, p Params) error {
	if p.Trace != "" {
		tr := tracer.New(p.Trace)
		if err := tr.Start(); err != nil {
			return err
		}
		defer tr.End()
	}

	sessStorage := session.FileStorage{Path: filepath.Join(p.cacheDir, "session.dat")}
	apiCredsFile := filepath.Join(p.cacheDir, "telegram.dat")
	if p.Reset {
		if err := sessStorage.Reset(); err != nil {
			return err
		}
		if err := mtp.RemoveCredentials(apiCredsFile); err != nil {
			return err
		}
	}
	if _, err := migrateSession(sessStorage.Path); err != nil {
		return err
	}

	// stdin is shared between the login prompts and the selection prompts.
	stdin := bufio.NewReader(os.Stdin)

	cl, err := mtp.New(p.ApiID, p.ApiHash,
		mtp.WithAuth(authflow.NewTermAuth(p.Phone, stdin)),
		mtp.WithApiCredsFile(apiCredsFile),
		mtp.WithStorage(sessStorage.Path),
		mtp.WithFloodWait(p.FloodWait),
		mtp.WithDebug(p.Verbose),
	)
	if err != nil {
		return err
	}

	header(os.Stdout)

	dlog.Println("Connecting to telegram . . .")
	if err := cl.Start(ctx); err != nil {
		if mtp.IsPhoneInvalid(err) {
			return errors.New("invalid phone number, please make sure to include the country code")
		}
		return err
	}
	defer func() {
		if err := cl.Stop(); err != nil {
			dlog.Printf("stop error: %s", err)
		}
	}()

	if ok, err := cl.Authorized(ctx); err != nil {
		return err
	} else if !ok {
		fmt.Println("Authentication failed. Please try again.")
		return nil
	}
	me, err := cl.Self(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as: %s\n", convo.Classify(convo.Record{Entity: me}).Name)

	fctx, stop := interruptible(ctx)
	done, finished := fakeProgress("Fetching all conversations . . .", 0)
	inv, err := waipu.Fetch(fctx, cl)
	close(done)
	<-finished
	stop()
	if err != nil {
		return err
	}
	dlog.Debugf("got %d conversations", inv.Len())

	switch {
	case p.List:
		return waipu.List(os.Stdout, inv)
	case p.TUI:
		ctx, stop := interruptible(ctx)
		defer stop()
		return tui.New(ctx, cl, p.delay()).Run(ctx, inv.Flatten())
	default:
		// Ctrl+C at the prompts terminates the program, during the removal
		// it cancels the run.
		opts := p.options()
		opts.Interrupt = interruptible
		return waipu.NewSession(cl, stdin, os.Stdout, opts).Run(ctx, inv)
	}
}

// interruptible returns the context that is cancelled on SIGINT or SIGTERM.
// The default signal behaviour is restored once stop is called.
func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// fakeProgress starts a fake spinner and returns a channel that must be closed
// once the operation completes. interval is interval between iterations. If not
// set, will default to 50ms.
func fakeProgress(title string, interval time.Duration) (chan<- struct{}, <-chan struct{}) {
	if interval == 0 {
		interval = 50 * time.Millisecond
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		bar := progressbar.NewOptions(
			-1,
			progressbar.OptionSetDescription(title),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSpinnerType(9),
		)
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-done:
				bar.Finish()
				fmt.Println()
				close(finished)
				return
			case <-t.C:
				bar.Add(1)
			}
		}
	}()
	return done, finished
}

func header(w io.Writer) {
	fmt.Fprintf(w,
		"%s\n%s\n%s\n", versionSig, strings.Repeat("-", len(versionSig)),
		color.New(color.Italic).Sprint("Leaves groups and channels, erases private chats."),
	)
	fmt.Fprintln(w)
}

func ver(w io.Writer) {
	header(w)
	if gitCommit != "" {
		fmt.Fprintf(w, "commit: %s ref: %s\n", gitCommit, gitRef)
	}
}
