package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/domain/offer"
	"github.com/Naya-01/PAE/internal/storage/migrations"
	"github.com/Naya-01/PAE/internal/storage/postgres"
	"github.com/Naya-01/PAE/internal/storage/sqlite"
)

const offerorID = 1

func newContainer(t *testing.T) *postgres.Container {
	t.Helper()
	db, err := sqlite.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, migrations.RunMigrations(db))

	c := postgres.NewContainerWithDB(db)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func seedObject(t *testing.T, c *postgres.Container, status object.Status) (*object.Object, *offer.Offer) {
	t.Helper()
	ctx := context.Background()

	typ, err := c.Types().GetByName(ctx, "Meuble")
	require.NoError(t, err)

	obj := &object.Object{Description: "Chaise en bois", OfferorID: offerorID, TypeID: typ.ID, Status: status}
	require.NoError(t, c.Objects().Create(ctx, obj))

	o := &offer.Offer{ObjectID: obj.ID, Date: time.Now().UTC(), TimeSlot: "samedi matin", Status: offer.Status(status)}
	require.NoError(t, c.Offers().Create(ctx, o))
	return obj, o
}

func TestHealthChecksEveryTable(t *testing.T) {
	c := newContainer(t)
	assert.NoError(t, c.Health())
	assert.Equal(t, []string{"types", "objects", "offers", "interests"}, c.GetInfo()["repositories"])
}

func TestObjectUpdateStatusIsConditional(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	obj, _ := seedObject(t, c, object.StatusAvailable)

	require.NoError(t, c.Objects().UpdateStatus(ctx, obj.ID, object.StatusAvailable, object.StatusInterested))

	err := c.Objects().UpdateStatus(ctx, obj.ID, object.StatusAvailable, object.StatusCancelled)
	assert.ErrorIs(t, err, apierr.ErrStaleState)

	got, err := c.Objects().GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, object.StatusInterested, got.Status)
	require.NotNil(t, got.Type)
	assert.Equal(t, "Meuble", got.Type.Name)
}

func TestObjectSaveKeepsStatus(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	obj, _ := seedObject(t, c, object.StatusInterested)

	obj.Description = "Table basse"
	obj.Status = object.StatusGiven
	require.NoError(t, c.Objects().Save(ctx, obj))

	got, err := c.Objects().GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Table basse", got.Description)
	assert.Equal(t, object.StatusInterested, got.Status)

	assert.True(t, apierr.IsNotFound(c.Objects().Save(ctx, &object.Object{ID: 999})))
}

func TestGetMissingRowsReportNotFound(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()

	_, err := c.Objects().GetByID(ctx, 42)
	assert.True(t, apierr.IsNotFound(err))
	_, err = c.Offers().GetLatestForObject(ctx, 42)
	assert.True(t, apierr.IsNotFound(err))
	_, err = c.Interests().Get(ctx, 42, 2)
	assert.True(t, apierr.IsNotFound(err))
	_, err = c.Interests().GetAssignedForObject(ctx, 42)
	assert.True(t, apierr.IsNotFound(err))
	_, err = c.Types().GetByID(ctx, 999)
	assert.True(t, apierr.IsNotFound(err))
}

func TestLatestOfferIsNewestDate(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	obj, first := seedObject(t, c, object.StatusAvailable)

	second := &offer.Offer{ObjectID: obj.ID, Date: first.Date.Add(time.Hour), TimeSlot: "dimanche", Status: offer.StatusAvailable}
	require.NoError(t, c.Offers().Create(ctx, second))

	latest, err := c.Offers().GetLatestForObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, obj.Description, latest.Object.Description)
}

func TestListOffersFilters(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	seedObject(t, c, object.StatusAvailable)
	given, _ := seedObject(t, c, object.StatusGiven)
	require.NoError(t, c.Objects().Save(ctx, &object.Object{ID: given.ID, Description: "Lampe 100% laiton", TypeID: given.TypeID}))

	all, err := c.Offers().List(ctx, offer.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byPercent, err := c.Offers().List(ctx, offer.Filter{Search: "100%"})
	require.NoError(t, err)
	require.Len(t, byPercent, 1)
	assert.Equal(t, given.ID, byPercent[0].ObjectID)

	status := object.StatusAvailable
	available, err := c.Offers().List(ctx, offer.Filter{ObjectStatus: &status, TypeName: "meuble"})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.NotEqual(t, given.ID, available[0].ObjectID)

	none, err := c.Offers().List(ctx, offer.Filter{OfferorID: offerorID + 1})
	require.NoError(t, err)
	assert.Empty(t, none)

	latest, err := c.Offers().ListLatest(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, latest, 1)
}

func TestDuplicateInterestIsConflict(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	obj, _ := seedObject(t, c, object.StatusInterested)

	require.NoError(t, c.Interests().Create(ctx, interest.New(obj.ID, 2, time.Now().UTC())))
	err := c.Interests().Create(ctx, interest.New(obj.ID, 2, time.Now().UTC()))
	assert.True(t, apierr.IsConflict(err))
}

func TestSecondAssignedInterestIsStale(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	obj, _ := seedObject(t, c, object.StatusInterested)
	require.NoError(t, c.Interests().Create(ctx, interest.New(obj.ID, 2, time.Now().UTC())))
	require.NoError(t, c.Interests().Create(ctx, interest.New(obj.ID, 3, time.Now().UTC())))

	require.NoError(t, c.Interests().UpdateStatus(ctx, obj.ID, 2, interest.StatusPublished, interest.StatusAssigned))
	err := c.Interests().UpdateStatus(ctx, obj.ID, 3, interest.StatusPublished, interest.StatusAssigned)
	assert.ErrorIs(t, err, apierr.ErrStaleState)

	assigned, err := c.Interests().GetAssignedForObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, assigned.MemberID)

	published, err := c.Interests().GetPublishedForObject(ctx, obj.ID)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, 3, published[0].MemberID)
}

func TestSetNotify(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	obj, _ := seedObject(t, c, object.StatusInterested)
	require.NoError(t, c.Interests().Create(ctx, interest.New(obj.ID, 2, time.Now().UTC())))

	require.NoError(t, c.Interests().SetNotify(ctx, obj.ID, 2, true))
	got, err := c.Interests().Get(ctx, obj.ID, 2)
	require.NoError(t, err)
	assert.True(t, got.Notify)

	assert.True(t, apierr.IsNotFound(c.Interests().SetNotify(ctx, obj.ID, 9, true)))
}

func TestTypeLookupIgnoresCase(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()

	typ, err := c.Types().GetByName(ctx, "MEUBLE")
	require.NoError(t, err)
	assert.True(t, typ.IsDefault)

	err = c.Types().Create(ctx, objecttype.New("Meuble"))
	assert.True(t, apierr.IsConflict(err))

	custom := objecttype.New("Instruments")
	require.NoError(t, c.Types().Create(ctx, custom))
	assert.NotZero(t, custom.ID)
	assert.False(t, custom.IsDefault)

	defaults, err := c.Types().GetDefaults(ctx)
	require.NoError(t, err)
	assert.Len(t, defaults, len(migrations.DefaultTypeNames))
}

func TestRollbackDiscardsWrites(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	obj, _ := seedObject(t, c, object.StatusAvailable)

	tx, err := c.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Objects().UpdateStatus(ctx, obj.ID, object.StatusAvailable, object.StatusCancelled))
	require.NoError(t, tx.Rollback())
	require.NoError(t, tx.Rollback())

	got, err := c.Objects().GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, object.StatusAvailable, got.Status)
}

func TestRollbackAfterCommitIsNoop(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	obj, _ := seedObject(t, c, object.StatusAvailable)

	tx, err := c.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Objects().UpdateStatus(ctx, obj.ID, object.StatusAvailable, object.StatusInterested))
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback())

	got, err := c.Objects().GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, object.StatusInterested, got.Status)
}

func TestInitialStatusesAreStoredAsText(t *testing.T) {
	db, err := sqlite.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, migrations.RunMigrations(db))
	c := postgres.NewContainerWithDB(db)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	engine := lifecycle.NewEngine(c)

	created, err := engine.AddOffer(ctx, offer.NewOffer{
		OfferorID: offerorID, Description: "Chaise", TimeSlot: "samedi matin", TypeName: "Meuble",
	})
	require.NoError(t, err)
	assert.Equal(t, offer.StatusAvailable, created.Status)

	var status string
	require.NoError(t, db.Raw("SELECT status FROM objects WHERE id = ?", created.ObjectID).Scan(&status).Error)
	assert.Equal(t, "available", status)
	require.NoError(t, db.Raw("SELECT status FROM offers WHERE id = ?", created.ID).Scan(&status).Error)
	assert.Equal(t, "available", status)

	_, err = engine.AddInterest(ctx, created.ObjectID, 13)
	require.NoError(t, err)
	require.NoError(t, db.Raw("SELECT status FROM interests WHERE object_id = ? AND member_id = ?", created.ObjectID, 13).Scan(&status).Error)
	assert.Equal(t, "published", status)

	got, err := c.Interests().Get(ctx, created.ObjectID, 13)
	require.NoError(t, err)
	assert.Equal(t, interest.StatusPublished, got.Status)
}

// The engine runs unchanged on the SQL store: interest, assignment,
// cancellation and re-offer keep the three entities in step.
func TestEngineLifecycleOverSQL(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	clock := time.Date(2022, 4, 1, 9, 0, 0, 0, time.UTC)
	engine := lifecycle.NewEngine(c, lifecycle.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))

	created, err := engine.AddOffer(ctx, offer.NewOffer{
		OfferorID: offerorID, Description: "Armoire", TimeSlot: "lundi soir", TypeName: "Meuble",
	})
	require.NoError(t, err)
	objectID := created.ObjectID

	_, err = engine.AddInterest(ctx, objectID, 13)
	require.NoError(t, err)
	_, err = engine.AddInterest(ctx, objectID, 14)
	require.NoError(t, err)

	assigned, err := engine.AssignOffer(ctx, objectID, 13)
	require.NoError(t, err)
	assert.Equal(t, interest.StatusAssigned, assigned.Status)

	_, err = engine.AssignOffer(ctx, objectID, 14)
	assert.True(t, apierr.IsForbidden(err))

	_, err = engine.CancelOffer(ctx, created.ID)
	require.NoError(t, err)

	back, err := c.Interests().Get(ctx, objectID, 13)
	require.NoError(t, err)
	assert.Equal(t, interest.StatusPublished, back.Status)
	assert.True(t, back.Notify)

	notifications, err := engine.GetNotifications(ctx, 13)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, objectID, notifications[0].ObjectID)

	again, err := engine.AddOffer(ctx, offer.NewOffer{ObjectID: objectID, OfferorID: offerorID, TimeSlot: "mardi soir"})
	require.NoError(t, err)
	assert.Equal(t, offer.StatusInterested, again.Status)

	obj, err := c.Objects().GetByID(ctx, objectID)
	require.NoError(t, err)
	assert.Equal(t, object.StatusInterested, obj.Status)

	latest, err := c.Offers().GetLatestForObject(ctx, objectID)
	require.NoError(t, err)
	assert.Equal(t, again.ID, latest.ID)
}
