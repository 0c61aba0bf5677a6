package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/domain/offer"
)

func seedObject(t *testing.T, s *Store, offerorID int, status object.Status) *object.Object {
	t.Helper()
	ctx := context.Background()

	typ := &objecttype.Type{Name: "Furniture", IsDefault: true}
	if existing, err := s.Types().GetByName(ctx, typ.Name); err == nil {
		typ = existing
	} else {
		require.NoError(t, s.Types().Create(ctx, typ))
	}

	obj := &object.Object{Description: "Chair", OfferorID: offerorID, TypeID: typ.ID, Status: status}
	require.NoError(t, s.Objects().Create(ctx, obj))
	return obj
}

func TestCommitPublishesWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	obj := seedObject(t, s, 1, object.StatusAvailable)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Objects().UpdateStatus(ctx, obj.ID, object.StatusAvailable, object.StatusInterested))
	require.NoError(t, tx.Commit())

	got, err := s.Objects().GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, object.StatusInterested, got.Status)
	assert.Equal(t, "Furniture", got.Type.Name)
}

func TestRollbackDiscardsWritesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	obj := seedObject(t, s, 1, object.StatusAvailable)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Objects().UpdateStatus(ctx, obj.ID, object.StatusAvailable, object.StatusCancelled))
	require.NoError(t, tx.Rollback())
	require.NoError(t, tx.Rollback())

	got, err := s.Objects().GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, object.StatusAvailable, got.Status)

	_, err = tx.Objects().GetByID(ctx, obj.ID)
	assert.ErrorIs(t, err, errTxDone)
}

func TestRollbackAfterCommitIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.Rollback())
	assert.Error(t, tx.Commit())

	// the lock was released exactly once
	next, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, next.Rollback())
}

func TestBeginWaitsForRunningTransaction(t *testing.T) {
	s := NewStore()
	tx, err := s.Begin(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.Begin(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, tx.Rollback())
	next, err := s.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, next.Rollback())
}

func TestConditionalStatusUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	obj := seedObject(t, s, 1, object.StatusInterested)

	err := s.Objects().UpdateStatus(ctx, obj.ID, object.StatusAvailable, object.StatusInterested)
	assert.ErrorIs(t, err, apierr.ErrStaleState)

	err = s.Objects().UpdateStatus(ctx, 999, object.StatusAvailable, object.StatusInterested)
	assert.ErrorIs(t, err, apierr.ErrStaleState)
}

func TestSingleAssignedInterestPerObject(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	obj := seedObject(t, s, 1, object.StatusInterested)
	now := time.Now()

	require.NoError(t, s.Interests().Create(ctx, interest.New(obj.ID, 2, now)))
	require.NoError(t, s.Interests().Create(ctx, interest.New(obj.ID, 3, now)))

	require.NoError(t, s.Interests().UpdateStatus(ctx, obj.ID, 2, interest.StatusPublished, interest.StatusAssigned))
	err := s.Interests().UpdateStatus(ctx, obj.ID, 3, interest.StatusPublished, interest.StatusAssigned)
	assert.ErrorIs(t, err, apierr.ErrStaleState)

	assigned, err := s.Interests().GetAssignedForObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, assigned.MemberID)
}

func TestDuplicateInterestConflicts(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	obj := seedObject(t, s, 1, object.StatusAvailable)

	require.NoError(t, s.Interests().Create(ctx, interest.New(obj.ID, 2, time.Now())))
	err := s.Interests().Create(ctx, interest.New(obj.ID, 2, time.Now()))
	assert.True(t, apierr.IsConflict(err))
}

func TestLatestOfferAndListing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	chair := seedObject(t, s, 1, object.StatusCancelled)
	day := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

	first := &offer.Offer{ObjectID: chair.ID, Date: day, TimeSlot: "mornings", Status: offer.StatusCancelled}
	second := &offer.Offer{ObjectID: chair.ID, Date: day.Add(24 * time.Hour), TimeSlot: "evenings", Status: offer.StatusAvailable}
	require.NoError(t, s.Offers().Create(ctx, first))
	require.NoError(t, s.Offers().Create(ctx, second))

	latest, err := s.Offers().GetLatestForObject(ctx, chair.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "Chair", latest.Object.Description)

	found, err := s.Offers().List(ctx, offer.Filter{Search: "EVEN"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, second.ID, found[0].ID)

	found, err = s.Offers().List(ctx, offer.Filter{TypeName: "furniture", OfferorID: 1})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	status := object.StatusGiven
	found, err = s.Offers().List(ctx, offer.Filter{ObjectStatus: &status})
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = s.Offers().GetLatestForObject(ctx, 404)
	assert.True(t, apierr.IsNotFound(err))
}

func TestNotificationsProjection(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	mine := seedObject(t, s, 1, object.StatusInterested)
	theirs := seedObject(t, s, 2, object.StatusAssigned)
	now := time.Now()

	// a candidate on an object member 1 offers
	require.NoError(t, s.Interests().Create(ctx, interest.New(mine.ID, 5, now)))
	// member 1's own interest, changed and not yet seen
	own := interest.New(theirs.ID, 1, now.Add(time.Minute))
	own.Notify = true
	require.NoError(t, s.Interests().Create(ctx, own))
	// another member's interest elsewhere is not visible
	require.NoError(t, s.Interests().Create(ctx, interest.New(theirs.ID, 6, now)))

	got, err := s.Interests().GetNotifications(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, theirs.ID, got[0].ObjectID)
	assert.Equal(t, mine.ID, got[1].ObjectID)
	assert.Equal(t, 5, got[1].MemberID)
}

func TestSaveKeepsStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	obj := seedObject(t, s, 1, object.StatusAssigned)

	obj.Status = object.StatusAvailable
	obj.Description = "Oak chair"
	require.NoError(t, s.Objects().Save(ctx, obj))

	got, err := s.Objects().GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oak chair", got.Description)
	assert.Equal(t, object.StatusAssigned, got.Status)
}
