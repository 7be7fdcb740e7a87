package main

import (
	"context"
	"flag"
	"io"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"restaurant-booking/internal/infra/apiclient"
	"restaurant-booking/internal/pkg/clock"
	"restaurant-booking/internal/pkg/config"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/pkg/logger"
)

const usage = `usage: booking-cli [flags] <command> [command flags]

commands:
  tables        show tables and whether they are free for a window
  book          reserve a table
  watch         keep today's unread notification count on screen
  read          mark a notification as read
  call-waiter   call a waiter to a table
`

// app bundles what every command needs once signed in.
type app struct {
	cfg    config.ClientConfig
	log    *slog.Logger
	api    *apiclient.Client
	clock  clock.Clock
	stdout io.Writer
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	email := flag.String("email", "", "account email (default $BOOKING_EMAIL)")
	password := flag.String("password", "", "account password (default $BOOKING_PASSWORD)")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadClientConfig()
	if err != nil {
		slog.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}
	if *email != "" {
		cfg.Email = *email
	}
	if *password != "" {
		cfg.Password = *password
	}

	log := logger.NewWithWriter(os.Stderr, cfg.Log, false)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		cfg:    cfg,
		log:    log,
		api:    apiclient.New(cfg.APIURL, cfg.HTTPTimeout, log),
		clock:  clock.NewRealClockIn(cfg.Location()),
		stdout: os.Stdout,
	}

	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Error("コマンドの実行に失敗しました", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		flag.Usage()
		return errs.Newf("unknown command %q", name)
	}
	if a.cfg.Email == "" || a.cfg.Password == "" {
		return errs.New("email and password are required")
	}
	if _, err := a.api.Login(ctx, a.cfg.Email, a.cfg.Password); err != nil {
		return err
	}
	return cmd(ctx, a, args)
}
