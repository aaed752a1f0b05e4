// Package session runs the quiz loop as explicit state transitions.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/picverb/internal/catalog"
	"github.com/verte-zerg/picverb/internal/generator"
	"github.com/verte-zerg/picverb/internal/ledger"
	"github.com/verte-zerg/picverb/internal/model"
)

// Status is the lifecycle stage of a session.
type Status int

const (
	// StatusLoading means the catalog has not arrived yet.
	StatusLoading Status = iota
	// StatusReady means a round is available.
	StatusReady
	// StatusCatalogUnavailable is terminal; State.Err carries the cause.
	StatusCatalogUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusCatalogUnavailable:
		return "catalog unavailable"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is the snapshot handed to the presentation layer after every transition.
type State struct {
	Status Status
	Err    error
	Round  model.Round
	Picked string
	Ledger ledger.Ledger
}

// Answered reports whether the current round has been answered.
func (s State) Answered() bool {
	return s.Picked != ""
}

// Correct reports whether the picked option is the target.
func (s State) Correct() bool {
	return s.Answered() && s.Picked == s.Round.Target.ID
}

// Builder produces rounds. *generator.Generator implements it.
type Builder interface {
	BuildRound(items []model.Item, perf generator.Performance, avoidID string, optionCount int) model.Round
}

// Options tunes round building.
type Options struct {
	OptionCount int
	AvoidRepeat bool
}

// Session owns the catalog, the current round and the ledger.
type Session struct {
	id      string
	items   []model.Item
	book    *ledger.Book
	builder Builder
	opts    Options
	log     logrus.FieldLogger
	state   State
}

// New returns a session in the loading state.
func New(book *ledger.Book, builder Builder, opts Options, log logrus.FieldLogger) *Session {
	if opts.OptionCount == 0 {
		opts.OptionCount = generator.DefaultOptions
	}
	if log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		log = quiet
	}
	id := uuid.NewString()
	return &Session{
		id:      id,
		book:    book,
		builder: builder,
		opts:    opts,
		log:     log.WithField("session", id),
		state:   State{Status: StatusLoading},
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// State returns the current snapshot.
func (s *Session) State() State {
	return s.state
}

// Items returns the loaded catalog.
func (s *Session) Items() []model.Item {
	return s.items
}

// Start finishes loading. A load error or an invalid catalog moves the
// session to StatusCatalogUnavailable; otherwise the ledger is loaded and the
// first round is built.
func (s *Session) Start(ctx context.Context, items []model.Item, loadErr error) State {
	if s.state.Status != StatusLoading {
		return s.state
	}
	err := loadErr
	if err == nil {
		err = catalog.Validate(items)
	}
	if err != nil {
		if !errors.Is(err, catalog.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
		}
		s.log.WithError(err).Error("catalog unavailable")
		s.state = State{Status: StatusCatalogUnavailable, Err: err, Ledger: s.state.Ledger}
		return s.state
	}

	s.items = items
	l := s.book.Load(ctx)
	s.state = State{
		Status: StatusReady,
		Round:  s.build(l, ""),
		Ledger: l,
	}
	s.log.WithFields(logrus.Fields{
		"items":    len(items),
		"attempts": l.Total,
	}).Info("session started")
	return s.state
}

// Answer records the pick for the current round. It is a no-op when the
// round is already answered or optionID is not one of its options.
func (s *Session) Answer(ctx context.Context, optionID string) State {
	if s.state.Status != StatusReady || s.state.Answered() || !s.state.Round.HasOption(optionID) {
		return s.state
	}
	target := s.state.Round.Target.ID
	correct := optionID == target
	s.state.Ledger = s.book.Record(ctx, s.state.Ledger, target, correct)
	s.state.Picked = optionID
	s.log.WithFields(logrus.Fields{
		"target":  target,
		"picked":  optionID,
		"correct": correct,
	}).Debug("answer recorded")
	return s.state
}

// Advance builds the next round from the updated ledger. It is a no-op until
// the current round is answered.
func (s *Session) Advance(_ context.Context) State {
	if s.state.Status != StatusReady || !s.state.Answered() {
		return s.state
	}
	avoid := ""
	if s.opts.AvoidRepeat {
		avoid = s.state.Round.Target.ID
	}
	s.state.Round = s.build(s.state.Ledger, avoid)
	s.state.Picked = ""
	return s.state
}

// ResetStats clears the ledger and its persisted record. The current round stays.
func (s *Session) ResetStats(ctx context.Context) State {
	s.state.Ledger = s.book.Reset(ctx)
	s.log.Info("stats reset")
	return s.state
}

func (s *Session) build(l ledger.Ledger, avoidID string) model.Round {
	perf := generator.Performance{Hits: l.Hits, Misses: l.Misses}
	return s.builder.BuildRound(s.items, perf, avoidID, s.opts.OptionCount)
}
