package lifecycle_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/domain/offer"
	"github.com/Naya-01/PAE/internal/storage/images"
	"github.com/Naya-01/PAE/internal/storage/memory"
)

const offerorID = 1

var errInjected = errors.New("injected store failure")

type fixture struct {
	store  *memory.Store
	engine *lifecycle.Engine
	clock  time.Time
}

func newFixture(t *testing.T, opts ...lifecycle.Option) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.NewStore(),
		clock: time.Date(2022, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	opts = append([]lifecycle.Option{lifecycle.WithClock(f.tick)}, opts...)
	f.engine = lifecycle.NewEngine(f.store, opts...)
	return f
}

// tick returns a strictly increasing time so dates order writes
func (f *fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

// seedOffer stores an object with the given id and its offer, both available
func (f *fixture) seedOffer(t *testing.T, objectID int) *offer.Offer {
	t.Helper()
	ctx := context.Background()

	typ, err := f.store.Types().GetByName(ctx, "Furniture")
	if err != nil {
		typ = &objecttype.Type{Name: "Furniture", IsDefault: true}
		require.NoError(t, f.store.Types().Create(ctx, typ))
	}

	obj := &object.Object{ID: objectID, Description: "Chair", OfferorID: offerorID, TypeID: typ.ID, Status: object.StatusAvailable}
	require.NoError(t, f.store.Objects().Create(ctx, obj))

	o := &offer.Offer{ObjectID: obj.ID, Date: f.tick(), TimeSlot: "weekday evenings", Status: offer.StatusAvailable}
	require.NoError(t, f.store.Offers().Create(ctx, o))
	return o
}

func (f *fixture) objectStatus(t *testing.T, objectID int) object.Status {
	t.Helper()
	obj, err := f.store.Objects().GetByID(context.Background(), objectID)
	require.NoError(t, err)
	return obj.Status
}

func (f *fixture) offerStatus(t *testing.T, objectID int) offer.Status {
	t.Helper()
	o, err := f.store.Offers().GetLatestForObject(context.Background(), objectID)
	require.NoError(t, err)
	return o.Status
}

func (f *fixture) interests(t *testing.T, objectID int) []*interest.Interest {
	t.Helper()
	all, err := f.store.Interests().GetAllForObject(context.Background(), objectID)
	require.NoError(t, err)
	return all
}

func countAssigned(interests []*interest.Interest) int {
	n := 0
	for _, i := range interests {
		if i.Status == interest.StatusAssigned {
			n++
		}
	}
	return n
}

// faultyController wraps the memory store and injects failures into the
// interest store of every transaction it opens.
type faultyController struct {
	inner      *memory.Store
	failCreate bool
	panicOn    bool
	failCommit bool
}

func (c *faultyController) Begin(ctx context.Context) (lifecycle.Tx, error) {
	tx, err := c.inner.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &faultyTx{Tx: tx, c: c}, nil
}

type faultyTx struct {
	lifecycle.Tx
	c *faultyController
}

func (tx *faultyTx) Interests() lifecycle.InterestStore {
	return &faultyInterests{InterestStore: tx.Tx.Interests(), c: tx.c}
}

func (tx *faultyTx) Commit() error {
	if tx.c.failCommit {
		return errInjected
	}
	return tx.Tx.Commit()
}

type faultyInterests struct {
	lifecycle.InterestStore
	c *faultyController
}

func (s *faultyInterests) Create(ctx context.Context, i *interest.Interest) error {
	if s.c.panicOn {
		panic("interest store exploded")
	}
	if s.c.failCreate {
		return errInjected
	}
	return s.InterestStore.Create(ctx, i)
}

type fakeImages struct {
	stored  map[string]int64
	deleted []string
	failPut bool
}

func newFakeImages() *fakeImages {
	return &fakeImages{stored: make(map[string]int64)}
}

func (f *fakeImages) Put(_ context.Context, key string, upload images.Upload) error {
	if f.failPut {
		return errInjected
	}
	f.stored[key] = upload.Size
	return nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	delete(f.stored, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImages) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if _, ok := f.stored[key]; !ok {
		return nil, errInjected
	}
	return io.NopCloser(strings.NewReader("picture " + key)), nil
}

func (f *fixture) latestOfferID(t *testing.T, objectID int) int {
	t.Helper()
	o, err := f.store.Offers().GetLatestForObject(context.Background(), objectID)
	require.NoError(t, err)
	return o.ID
}
