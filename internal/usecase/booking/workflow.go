package booking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/domain/table"
	"restaurant-booking/internal/pkg/clock"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/pkg/ptr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultStartOffset places a fresh window safely past the lead time.
const DefaultStartOffset = 4 * time.Hour

type Options struct {
	ClientID uuid.UUID
	// StartOffset is added to now for the default window start.
	StartOffset time.Duration
	// OnBooked runs after a successful submission, outside the session lock.
	OnBooked func(Confirmation)
	Logger   *slog.Logger
}

// Workflow sequences one booking session:
// Closed -> Loading -> Editing -> Submitting -> Closed.
//
// Methods are safe to call from several goroutines. The lock is never held
// across a backend call; results that arrive after the session moved on are
// dropped by comparing epoch and fetch sequence numbers.
type Workflow struct {
	backend     Backend
	clock       clock.Clock
	logger      *slog.Logger
	clientID    uuid.UUID
	startOffset time.Duration
	onBooked    func(Confirmation)
	newKey      func() uuid.UUID

	mu           sync.Mutex
	state        State
	epoch        uint64
	fetchSeq     uint64
	tables       []table.Table
	reservations []reservation.Reservation
	availability []table.Availability
	candidate    Candidate
	lastAttempt  *attempt
	lastKey      uuid.UUID
	pendingClose bool
}

func NewWorkflow(backend Backend, clk clock.Clock, opts Options) *Workflow {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	offset := opts.StartOffset
	if offset <= 0 {
		offset = DefaultStartOffset
	}
	return &Workflow{
		backend:     backend,
		clock:       clk,
		logger:      logger.With("component", "booking"),
		clientID:    opts.ClientID,
		startOffset: offset,
		onBooked:    opts.OnBooked,
		newKey:      uuid.New,
	}
}

// Open starts a session and blocks until tables and reservations are loaded.
// A failed load still enters Editing, flagged collaborator_unreachable; call
// Refresh to retry.
func (w *Workflow) Open(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateClosed {
		w.mu.Unlock()
		return ErrAlreadyOpen
	}
	w.epoch++
	w.fetchSeq++
	epoch, seq := w.epoch, w.fetchSeq
	w.state = StateLoading
	w.pendingClose = false
	w.candidate = w.defaultCandidate()
	w.tables, w.reservations, w.availability = nil, nil, nil
	w.mu.Unlock()

	w.logger.Debug("booking session opening", "epoch", epoch)
	tables, reservations, err := w.fetch(ctx)
	return w.applyFetch(epoch, seq, tables, reservations, err)
}

// Refresh refetches tables and reservations while editing. Only the most
// recently triggered refresh is applied.
func (w *Workflow) Refresh(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateEditing {
		w.mu.Unlock()
		return ErrNotEditing
	}
	w.fetchSeq++
	epoch, seq := w.epoch, w.fetchSeq
	w.mu.Unlock()

	tables, reservations, err := w.fetch(ctx)
	return w.applyFetch(epoch, seq, tables, reservations, err)
}

func (w *Workflow) fetch(ctx context.Context) ([]table.Table, []reservation.Reservation, error) {
	var (
		tables       []table.Table
		reservations []reservation.Reservation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tables, err = w.backend.FetchTables(gctx)
		return errs.Wrap(err, "fetch tables")
	})
	g.Go(func() error {
		var err error
		reservations, err = w.backend.FetchReservations(gctx)
		return errs.Wrap(err, "fetch reservations")
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return tables, reservations, nil
}

func (w *Workflow) applyFetch(epoch, seq uint64, tables []table.Table, reservations []reservation.Reservation, fetchErr error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if epoch != w.epoch || w.state == StateClosed {
		w.logger.Debug("discarding fetch for closed session", "epoch", epoch)
		return ErrSessionClosed
	}
	if seq != w.fetchSeq {
		w.logger.Debug("discarding superseded fetch", "seq", seq, "latest", w.fetchSeq)
		return ErrSuperseded
	}
	if w.state == StateLoading {
		w.state = StateEditing
	}

	if fetchErr != nil {
		w.logger.Warn("failed to load tables and reservations", "error", fetchErr.Error())
		// A refresh landing mid-submit must not overwrite the submit's outcome.
		if w.state == StateEditing {
			w.candidate.setError(reservation.NewValidationError(reservation.ReasonCollaboratorUnreachable))
		}
		return errs.Mark(fetchErr, reservation.ErrCollaboratorUnreachable)
	}

	w.tables = tables
	w.reservations = reservations
	w.availability = table.FreshAvailability(tables)
	w.recompute()
	if w.candidate.Reason == reservation.ReasonCollaboratorUnreachable {
		w.candidate.clearError()
	}
	return nil
}

// SetStart moves the window start. If the new start is at or past the current
// end, the end is pushed to start plus the default duration.
func (w *Workflow) SetStart(start time.Time) error {
	return w.edit(func(c *Candidate) error {
		c.Start = start
		if !c.End.IsZero() && !start.Before(c.End) {
			c.End = start.Add(reservation.DefaultDuration)
		}
		return nil
	})
}

func (w *Workflow) SetEnd(end time.Time) error {
	return w.edit(func(c *Candidate) error {
		c.End = end
		return nil
	})
}

func (w *Workflow) SetWindow(start, end time.Time) error {
	return w.edit(func(c *Candidate) error {
		c.Start = start
		c.End = end
		return nil
	})
}

func (w *Workflow) SetPartySize(size string) error {
	return w.edit(func(c *Candidate) error {
		c.PartySize = size
		return nil
	})
}

// SelectTable toggles the selection. Selecting the selected table clears it;
// a table that is busy for the current window cannot be selected.
func (w *Workflow) SelectTable(id int64) error {
	return w.edit(func(c *Candidate) error {
		if c.TableID != nil && *c.TableID == id {
			c.TableID = nil
			return nil
		}
		for _, a := range w.availability {
			if a.Table.ID() != id {
				continue
			}
			if !a.Available {
				return reservation.NewValidationError(reservation.ReasonTableUnavailable)
			}
			c.TableID = ptr.Of(id)
			return nil
		}
		return ErrUnknownTable
	})
}

func (w *Workflow) edit(apply func(*Candidate) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateEditing {
		return ErrNotEditing
	}
	next := w.candidate
	if err := apply(&next); err != nil {
		return err
	}
	next.clearError()
	w.candidate = next
	w.recompute()
	return nil
}

// recompute must be called with mu held.
func (w *Workflow) recompute() {
	w.availability = reservation.ComputeAvailability(w.availability, w.reservations, reservation.Window{
		Start: w.candidate.Start,
		End:   w.candidate.End,
	})
}

// Submit validates the candidate and, when accepted, creates the reservation.
// A rejection keeps the session in Editing with the reason on the candidate.
// On success the session closes and OnBooked fires.
func (w *Workflow) Submit(ctx context.Context) (*Confirmation, error) {
	w.mu.Lock()
	if w.state != StateEditing {
		w.mu.Unlock()
		return nil, ErrNotEditing
	}

	now := w.clock.Now()
	verdict := reservation.Validate(w.candidate.request(), reservation.Snapshot{
		Tables:       w.tables,
		Reservations: w.reservations,
	}, now)
	if !verdict.Accepted {
		err := verdict.Err()
		w.candidate.setError(err.(*reservation.ValidationError))
		w.mu.Unlock()
		w.logger.Info("booking rejected", "reason", verdict.Reason.String())
		return nil, err
	}

	params := CreateParams{
		ClientID:  w.clientID,
		TableID:   *w.candidate.TableID,
		PartySize: verdict.PartySize,
		Start:     w.candidate.Start,
		End:       w.candidate.End,
	}
	params.IdempotencyKey = w.keyFor(attempt{
		tableID:   params.TableID,
		partySize: params.PartySize,
		start:     params.Start,
		end:       params.End,
	})
	// Close defers while Submitting, so the epoch cannot change until we relock.
	w.state = StateSubmitting
	w.mu.Unlock()

	conf, err := w.backend.CreateReservation(ctx, params)
	if err == nil && conf == nil {
		err = errs.New("empty reservation confirmation")
	}

	w.mu.Lock()
	if err != nil {
		ve := reservation.NewValidationError(reservation.ReasonCollaboratorUnreachable)
		var backendVE *reservation.ValidationError
		if errs.As(err, &backendVE) {
			ve = backendVE
			// A definitive rejection consumes the key.
			w.lastAttempt = nil
		}
		if w.pendingClose {
			w.teardown()
		} else {
			w.state = StateEditing
			w.candidate.setError(ve)
		}
		w.mu.Unlock()
		w.logger.Warn("booking submission failed", "reason", ve.Reason.String(), "error", err.Error())
		if ve.Reason == reservation.ReasonCollaboratorUnreachable {
			return nil, errs.Mark(err, reservation.ErrCollaboratorUnreachable)
		}
		return nil, ve
	}

	w.teardown()
	onBooked := w.onBooked
	w.mu.Unlock()

	w.logger.Info("reservation created",
		"reservation_id", conf.ReservationID.String(),
		"table_id", conf.TableID,
		"replayed", conf.Replayed)
	if onBooked != nil {
		onBooked(*conf)
	}
	return conf, nil
}

// keyFor reuses the previous idempotency key while the request is unchanged.
// Must be called with mu held.
func (w *Workflow) keyFor(a attempt) uuid.UUID {
	if w.lastAttempt != nil && w.lastAttempt.same(a) {
		return w.lastKey
	}
	w.lastAttempt = &a
	w.lastKey = w.newKey()
	return w.lastKey
}

// Close ends the session. Results of in-flight fetches are discarded. While a
// submission is in flight the teardown waits until it settles.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateClosed:
		return
	case StateSubmitting:
		w.pendingClose = true
		w.logger.Debug("close deferred until submission settles")
	default:
		w.teardown()
	}
}

// teardown must be called with mu held.
func (w *Workflow) teardown() {
	w.state = StateClosed
	w.epoch++
	w.pendingClose = false
	w.tables = nil
	w.reservations = nil
	w.availability = nil
	w.candidate = Candidate{}
	w.lastAttempt = nil
	w.lastKey = uuid.Nil
}

func (w *Workflow) defaultCandidate() Candidate {
	start := w.clock.Now().Add(w.startOffset)
	return Candidate{
		Start:     start,
		End:       start.Add(reservation.DefaultDuration),
		PartySize: DefaultPartySize,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := w.candidate
	if c.TableID != nil {
		c.TableID = ptr.Of(*c.TableID)
	}
	tables := make([]table.Availability, len(w.availability))
	copy(tables, w.availability)
	return View{State: w.state, Candidate: c, Tables: tables}
}
