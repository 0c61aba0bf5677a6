// Package memory is a transactional in-memory backend. Transactions are
// serialised: Begin waits until the previous transaction is finished, works
// on a private copy of the data and publishes it on Commit.
package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/domain/offer"
	"github.com/Naya-01/PAE/internal/logger"
)

var errTxDone = errors.New("transaction already finished")

type interestKey struct {
	objectID int
	memberID int
}

type dataset struct {
	objects   map[int]object.Object
	offers    map[int]offer.Offer
	interests map[interestKey]interest.Interest
	types     map[int]objecttype.Type

	nextObjectID int
	nextOfferID  int
	nextTypeID   int
}

func newDataset() *dataset {
	return &dataset{
		objects:      make(map[int]object.Object),
		offers:       make(map[int]offer.Offer),
		interests:    make(map[interestKey]interest.Interest),
		types:        make(map[int]objecttype.Type),
		nextObjectID: 1,
		nextOfferID:  1,
		nextTypeID:   1,
	}
}

// clone copies the rows by value. Relations are never kept in the maps,
// they are attached on read.
func (d *dataset) clone() *dataset {
	c := &dataset{
		objects:      make(map[int]object.Object, len(d.objects)),
		offers:       make(map[int]offer.Offer, len(d.offers)),
		interests:    make(map[interestKey]interest.Interest, len(d.interests)),
		types:        make(map[int]objecttype.Type, len(d.types)),
		nextObjectID: d.nextObjectID,
		nextOfferID:  d.nextOfferID,
		nextTypeID:   d.nextTypeID,
	}
	for k, v := range d.objects {
		c.objects[k] = v
	}
	for k, v := range d.offers {
		c.offers[k] = v
	}
	for k, v := range d.interests {
		c.interests[k] = v
	}
	for k, v := range d.types {
		c.types[k] = v
	}
	return c
}

// access runs fn against the data a store view is bound to
type access interface {
	with(ctx context.Context, fn func(*dataset) error) error
}

// Store is the in-memory backend
type Store struct {
	sem  chan struct{}
	data *dataset
	log  *log.Logger
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sem:  make(chan struct{}, 1),
		data: newDataset(),
		log:  logger.Repository("memory"),
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.sem
}

// with runs fn as its own single-statement transaction
func (s *Store) with(ctx context.Context, fn func(*dataset) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	work := s.data.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Begin waits for exclusive access and opens a transaction
func (s *Store) Begin(ctx context.Context) (lifecycle.Tx, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.log.Debug("Memory transaction started")
	return &Tx{store: s, data: s.data.clone()}, nil
}

func (s *Store) Objects() lifecycle.ObjectStore     { return &objectStore{s} }
func (s *Store) Offers() lifecycle.OfferStore       { return &offerStore{s} }
func (s *Store) Interests() lifecycle.InterestStore { return &interestStore{s} }
func (s *Store) Types() lifecycle.TypeStore         { return &typeStore{s} }

// Health always succeeds
func (s *Store) Health() error {
	return nil
}

// GetInfo describes the store
func (s *Store) GetInfo() map[string]any {
	return map[string]any{
		"type":         "memory",
		"repositories": []string{"types", "objects", "offers", "interests"},
	}
}

// Close drops the data
func (s *Store) Close() error {
	if err := s.acquire(context.Background()); err != nil {
		return err
	}
	defer s.release()
	s.data = newDataset()
	return nil
}

// Tx is an open in-memory transaction
type Tx struct {
	store *Store
	data  *dataset
	done  bool
}

func (tx *Tx) with(_ context.Context, fn func(*dataset) error) error {
	if tx.done {
		return errTxDone
	}
	return fn(tx.data)
}

func (tx *Tx) Objects() lifecycle.ObjectStore     { return &objectStore{tx} }
func (tx *Tx) Offers() lifecycle.OfferStore       { return &offerStore{tx} }
func (tx *Tx) Interests() lifecycle.InterestStore { return &interestStore{tx} }
func (tx *Tx) Types() lifecycle.TypeStore         { return &typeStore{tx} }

// Commit publishes the transaction's writes
func (tx *Tx) Commit() error {
	if tx.done {
		return errTxDone
	}
	tx.done = true
	tx.store.data = tx.data
	tx.store.release()
	tx.store.log.Debug("Memory transaction committed")
	return nil
}

// Rollback discards the transaction's writes. It is a no-op once the
// transaction is finished.
func (tx *Tx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true
	tx.data = nil
	tx.store.release()
	tx.store.log.Debug("Memory transaction rolled back")
	return nil
}
