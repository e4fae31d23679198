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
	"sort"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/d-madiou/job-board-client/apiclient"
	"github.com/d-madiou/job-board-client/auth"
	"github.com/d-madiou/job-board-client/internal/config"
	"github.com/d-madiou/job-board-client/sessions"
	"github.com/d-madiou/job-board-client/sessions/filestore"
	"github.com/d-madiou/job-board-client/sessions/redisstore"
)

var errSessionExpired = errors.New(auth.SessionExpiredMsg)

type commandFn func(cc *commandContext, args []string) error

type command struct {
	name        string
	usage       string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx        context.Context
	Logger     zerolog.Logger
	Out        io.Writer
	Err        io.Writer
	In         *bufio.Reader
	Client     *apiclient.Client
	Store      *sessions.Store
	Controller *auth.Controller
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("jobboard", flag.ContinueOnError)
	global.SetOutput(stderr)
	verbose := global.Bool("v", false, "log requests and token refreshes")
	if err := global.Parse(args); err != nil {
		return 2
	}
	args = global.Args()
	if len(args) == 0 || args[0] == "help" {
		printUsage(stdout)
		return 2
	}
	cmd, ok := commands()[args[0]]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	logger := newLogger(stderr, *verbose)
	cfg, err := config.New()
	if err != nil {
		logger.Error().Err(err).Msg("load config")
		return 1
	}

	storage, closeStorage, err := openStorage(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("open session storage")
		return 1
	}
	defer func() {
		if cerr := closeStorage(); cerr != nil {
			logger.Warn().Err(cerr).Msg("close session storage failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cc, err := newCommandContext(ctx, cfg, storage, logger)
	if err != nil {
		logger.Error().Err(err).Msg("initialise client")
		return 1
	}
	cc.In, cc.Out, cc.Err = bufio.NewReader(stdin), stdout, stderr

	if err := execute(cc, cmd, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		_, _ = fmt.Fprintf(stderr, "%s: %s\n", cmd.name, describeError(err))
		return 1
	}
	return 0
}

// newCommandContext wires the session store, API client and auth controller and restores
// any persisted session.
func newCommandContext(ctx context.Context, cfg config.ClientConfig, storage sessions.Storage, logger zerolog.Logger) (*commandContext, error) {
	store, err := sessions.NewStore(storage, sessions.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	client, err := apiclient.New(cfg.GetAPIBaseURL(), store,
		apiclient.WithTimeout(cfg.GetRequestTimeout()),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	controller, err := auth.NewController(store, client, auth.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	controller.Init(ctx)

	return &commandContext{
		Ctx:        ctx,
		Logger:     logger,
		Out:        os.Stdout,
		Err:        os.Stderr,
		In:         bufio.NewReader(os.Stdin),
		Client:     client,
		Store:      store,
		Controller: controller,
	}, nil
}

// execute runs cmd and ends the session when the API rejected the refresh token.
func execute(cc *commandContext, cmd command, args []string) error {
	err := cmd.run(cc, args)
	if err != nil && cc.Controller.ExpireSession(cc.Ctx, err) {
		return errSessionExpired
	}
	return err
}

// openStorage picks Redis when an address is configured, the session file otherwise.
func openStorage(cfg config.SessionConfig) (sessions.Storage, func() error, error) {
	if addr := cfg.GetRedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		storage, err := redisstore.New(client, redisstore.WithPrefix(cfg.GetRedisPrefix()))
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return storage, client.Close, nil
	}

	storage, err := filestore.New(cfg.GetSessionFile())
	if err != nil {
		return nil, nil, err
	}
	return storage, func() error { return nil }, nil
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).Level(level)
	log.Logger = logger
	return logger
}

func commands() map[string]command {
	list := []command{
		{"login", "login -email EMAIL [-password PASSWORD]", "Sign in and save the session", runLogin},
		{"register", "register -username NAME -email EMAIL -first NAME -last NAME [flags]", "Create an account and sign in", runRegister},
		{"logout", "logout", "Forget the saved session", runLogout},
		{"whoami", "whoami", "Show the signed-in user", runWhoami},
		{"profile", "profile [-first NAME] [-last NAME] [-phone P] [-location L] [-bio B]", "Show or edit your profile", runProfile},
		{"jobs", "jobs [-search Q] [-location L] [-type T] [-level L] [-company ID] [-page N]", "Browse open jobs", runJobs},
		{"job", "job ID", "Show one job", runJob},
		{"companies", "companies [-search Q] [-page N]", "Browse companies", runCompanies},
		{"apply", "apply JOB_ID [-cover TEXT] [-resume URL]", "Apply for a job", runApply},
		{"applications", "applications [-status S] [-page N]", "List your applications", runApplications},
		{"withdraw", "withdraw APPLICATION_ID", "Withdraw a pending application", runWithdraw},
	}
	out := make(map[string]command, len(list))
	for _, c := range list {
		out[c.name] = c
	}
	return out
}

func printUsage(w io.Writer) {
	banner := figure.NewFigure("jobboard", "cybermedium", true)
	_, _ = fmt.Fprintln(w, banner.String())
	_, _ = fmt.Fprintf(w, "Usage: jobboard [-v] <command> [flags]\n\nAvailable commands:\n")

	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-14s %s\n", name, cmds[name].description)
	}
}

// describeError prefers the API's own message for a failed request.
func describeError(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && !errors.Is(err, apiclient.ErrRefreshFailed) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
		return fmt.Sprintf("request failed with status %d", apiErr.StatusCode)
	}
	return err.Error()
}
