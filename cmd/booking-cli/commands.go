package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/usecase/booking"
	"restaurant-booking/internal/usecase/notification"

	"github.com/google/uuid"
)

const startLayout = "2006-01-02T15:04"

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"tables":      tablesCmd,
	"book":        bookCmd,
	"watch":       watchCmd,
	"read":        readCmd,
	"call-waiter": callWaiterCmd,
}

// windowFlags are shared by tables and book. An empty start keeps the session default.
type windowFlags struct {
	start    string
	duration time.Duration
}

func (w *windowFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&w.start, "start", "", "window start, "+startLayout+" in the restaurant time zone")
	fs.DurationVar(&w.duration, "duration", reservation.DefaultDuration, "window length")
}

func (w *windowFlags) apply(a *app, wf *booking.Workflow) error {
	if w.start == "" {
		return nil
	}
	start, err := time.ParseInLocation(startLayout, w.start, a.cfg.Location())
	if err != nil {
		return errs.Wrap(err, "parse -start")
	}
	return wf.SetWindow(start, start.Add(w.duration))
}

func (a *app) openWorkflow(ctx context.Context, opts booking.Options) (*booking.Workflow, error) {
	opts.ClientID = a.api.ClientID()
	opts.StartOffset = a.cfg.DefaultStartOffset
	opts.Logger = a.log
	wf := booking.NewWorkflow(a.api, a.clock, opts)
	if err := wf.Open(ctx); err != nil {
		return nil, err
	}
	if c := wf.View().Candidate; c.HasError && c.Reason == reservation.ReasonCollaboratorUnreachable {
		wf.Close()
		return nil, errs.Mark(errs.New("could not load tables and reservations"), reservation.ErrCollaboratorUnreachable)
	}
	return wf, nil
}

func tablesCmd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("tables", flag.ContinueOnError)
	var window windowFlags
	window.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	wf, err := a.openWorkflow(ctx, booking.Options{})
	if err != nil {
		return err
	}
	defer wf.Close()
	if err := window.apply(a, wf); err != nil {
		return err
	}

	view := wf.View()
	fmt.Fprintf(a.stdout, "%s - %s\n",
		view.Candidate.Start.Format(startLayout), view.Candidate.End.Format(startLayout))
	for _, av := range view.Tables {
		status := "free"
		if !av.Available {
			status = "taken"
		}
		fmt.Fprintf(a.stdout, "table %-3d seats %-2d %s\n", av.Table.ID(), av.Table.Capacity(), status)
	}
	return nil
}

func bookCmd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	var window windowFlags
	window.register(fs)
	tableID := fs.Int64("table", 0, "table number")
	party := fs.String("party", booking.DefaultPartySize, "party size")
	retries := fs.Int("retries", 2, "resubmissions when the server cannot be reached")
	if err := fs.Parse(args); err != nil {
		return err
	}

	wf, err := a.openWorkflow(ctx, booking.Options{
		OnBooked: func(c booking.Confirmation) {
			a.log.Info("予約が確定しました", "reservation_id", c.ReservationID.String(), "replayed", c.Replayed)
		},
	})
	if err != nil {
		return err
	}
	defer wf.Close()

	if err := window.apply(a, wf); err != nil {
		return err
	}
	if err := wf.SetPartySize(*party); err != nil {
		return err
	}
	if *tableID != 0 {
		if err := wf.SelectTable(*tableID); err != nil {
			return err
		}
	}

	// Resubmitting an unchanged candidate reuses its idempotency key.
	var conf *booking.Confirmation
	for attempt := 0; ; attempt++ {
		conf, err = wf.Submit(ctx)
		if err == nil || !errs.Is(err, reservation.ErrCollaboratorUnreachable) || attempt >= *retries {
			break
		}
		a.log.Warn("サーバーに接続できません。再送します", "attempt", attempt+1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second << attempt):
		}
	}
	if err != nil {
		return describeRejection(wf.View().Candidate, err)
	}

	fmt.Fprintf(a.stdout, "booked table %d for %d, %s - %s (reservation %s)\n",
		conf.TableID, conf.PartySize,
		conf.Start.In(a.cfg.Location()).Format(startLayout),
		conf.End.In(a.cfg.Location()).Format(startLayout),
		conf.ReservationID)
	return nil
}

func describeRejection(c booking.Candidate, err error) error {
	if !c.HasError {
		return err
	}
	if c.Reason == reservation.ReasonPartySizeOutOfRange && c.MaxPartySize > 0 {
		return errs.Wrapf(err, "%s: this table seats %d to %d", c.Reason, c.MinPartySize, c.MaxPartySize)
	}
	return errs.Wrap(err, c.Reason.String())
}

func watchCmd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	interval := fs.Duration("interval", a.cfg.PollInterval, "poll interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	counter := notification.NewCounter(a.api, a.clock, a.log, a.api.ClientID(), *interval,
		notification.WithOnChange(func(n int) {
			fmt.Fprintf(a.stdout, "unread today: %d\n", n)
		}))
	counter.Run(ctx)
	return nil
}

func readCmd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	id := fs.String("id", "", "notification id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	nid, err := uuid.Parse(*id)
	if err != nil {
		return errs.Wrap(err, "parse -id")
	}
	return a.api.MarkNotificationRead(ctx, nid)
}

func callWaiterCmd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("call-waiter", flag.ContinueOnError)
	tableArg := fs.String("table", "", "table number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var tableID *int64
	if *tableArg != "" {
		n, err := strconv.ParseInt(*tableArg, 10, 64)
		if err != nil {
			return errs.Wrap(err, "parse -table")
		}
		tableID = &n
	}

	call, err := a.api.CallWaiter(ctx, tableID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "waiter called to table %d\n", call.TableID)
	return nil
}
