// Package lifecycle keeps objects, their offers and the competing interests
// consistent while members show interest, offerors assign or cancel, and
// objects are handed over.
//
// Every operation runs in one transaction obtained from a
// TransactionController. Status changes are conditional updates, so a
// concurrent change between the read and the write surfaces as Forbidden
// instead of a lost update.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/offer"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/metrics"
	"github.com/Naya-01/PAE/internal/storage/images"
	"github.com/Naya-01/PAE/internal/validation"
)

// ImageStore keeps object pictures
type ImageStore interface {
	Put(ctx context.Context, key string, upload images.Upload) error
	Delete(ctx context.Context, key string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Engine runs the offer and interest lifecycle operations
type Engine struct {
	tc          TransactionController
	images      ImageStore
	maxFileSize int64
	now         func() time.Time
	log         *log.Logger

	offerValidator validation.OfferValidation
	typeValidator  validation.TypeValidation
}

// Option configures an Engine
type Option func(*Engine)

// WithImageStore enables picture uploads, rejecting pictures larger than maxFileSize bytes
func WithImageStore(store ImageStore, maxFileSize int64) Option {
	return func(e *Engine) {
		e.images = store
		e.maxFileSize = maxFileSize
	}
}

// WithClock overrides the time source used to date offers and interests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine running its operations through tc
func NewEngine(tc TransactionController, opts ...Option) *Engine {
	e := &Engine{
		tc:  tc,
		now: func() time.Time { return time.Now().UTC() },
		log: logger.Lifecycle(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// withTx runs body inside a transaction. The transaction is committed when
// body succeeds and rolled back when it fails or panics; body's error is
// returned unchanged.
func withTx[T any](ctx context.Context, e *Engine, operation string, body func(Stores) (T, error)) (result T, err error) {
	defer func() {
		metrics.ObserveOperation(operation, err)
	}()

	tx, err := e.tc.Begin(ctx)
	if err != nil {
		e.log.Error("Failed to begin transaction", "operation", operation, "error", err)
		return result, fmt.Errorf("failed to begin transaction for %s: %w", operation, err)
	}

	defer func() {
		if p := recover(); p != nil {
			e.rollback(tx, operation)
			panic(p)
		}
	}()

	result, err = body(tx)
	if err != nil {
		e.rollback(tx, operation)
		e.log.Debug("Operation rolled back", "operation", operation, "error", err)
		var zero T
		return zero, err
	}

	if err = tx.Commit(); err != nil {
		e.rollback(tx, operation)
		e.log.Error("Failed to commit transaction", "operation", operation, "error", err)
		var zero T
		return zero, fmt.Errorf("failed to commit %s: %w", operation, err)
	}

	return result, nil
}

// inTx is withTx for bodies without a result
func (e *Engine) inTx(ctx context.Context, operation string, body func(Stores) error) error {
	_, err := withTx(ctx, e, operation, func(s Stores) (struct{}, error) {
		return struct{}{}, body(s)
	})
	return err
}

func (e *Engine) rollback(tx Tx, operation string) {
	if err := tx.Rollback(); err != nil {
		e.log.Error("Failed to roll back transaction", "operation", operation, "error", err)
	}
}

// stale turns a lost conditional update into a Forbidden error
func stale(err error, format string, args ...any) error {
	if errors.Is(err, apierr.ErrStaleState) {
		return apierr.New(apierr.KindForbidden, fmt.Sprintf(format, args...), err)
	}
	return err
}

func (e *Engine) moveObject(ctx context.Context, s Stores, o *object.Object, to object.Status) error {
	from := o.Status
	if !from.CanTransitionTo(to) {
		return apierr.Forbidden(fmt.Sprintf("object %d cannot go from %s to %s", o.ID, from, to))
	}
	if err := s.Objects().UpdateStatus(ctx, o.ID, from, to); err != nil {
		return stale(err, "object %d is no longer %s", o.ID, from)
	}
	o.Status = to
	metrics.ObserveTransition("object", from.String(), to.String())
	return nil
}

func (e *Engine) moveOffer(ctx context.Context, s Stores, o *offer.Offer, to offer.Status) error {
	from := o.Status
	if !from.CanTransitionTo(to) {
		return apierr.Forbidden(fmt.Sprintf("offer %d cannot go from %s to %s", o.ID, from, to))
	}
	if err := s.Offers().UpdateStatus(ctx, o.ID, from, to); err != nil {
		return stale(err, "offer %d is no longer %s", o.ID, from)
	}
	o.Status = to
	metrics.ObserveTransition("offer", from.String(), to.String())
	return nil
}

// moveInterest changes the interest status and flags it so the member sees the change
func (e *Engine) moveInterest(ctx context.Context, s Stores, i *interest.Interest, to interest.Status) error {
	from := i.Status
	if !from.CanTransitionTo(to) {
		return apierr.Forbidden(fmt.Sprintf("interest of member %d cannot go from %s to %s", i.MemberID, from, to))
	}
	if err := s.Interests().UpdateStatus(ctx, i.ObjectID, i.MemberID, from, to); err != nil {
		return stale(err, "interest of member %d on object %d is no longer %s", i.MemberID, i.ObjectID, from)
	}
	if err := s.Interests().SetNotify(ctx, i.ObjectID, i.MemberID, true); err != nil {
		return err
	}
	i.Status = to
	i.Notify = true
	metrics.ObserveTransition("interest", from.String(), to.String())
	return nil
}
