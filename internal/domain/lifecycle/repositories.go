package lifecycle

import (
	"context"

	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/domain/offer"
)

// Absent rows are reported as apierr NotFound errors. UpdateStatus methods
// are conditional updates: when the row is no longer in status from they
// return an error wrapping apierr.ErrStaleState and change nothing.
// Save methods persist editable attributes only and never touch a status.

// ObjectStore persists objects
type ObjectStore interface {
	GetByID(ctx context.Context, id int) (*object.Object, error)
	GetByOfferor(ctx context.Context, offerorID int) ([]*object.Object, error)
	Create(ctx context.Context, o *object.Object) error
	Save(ctx context.Context, o *object.Object) error
	UpdateStatus(ctx context.Context, id int, from, to object.Status) error
	UpdateImage(ctx context.Context, id int, image string) error
}

// OfferStore persists offers. The latest offer of an object is the one with
// the greatest date, then the greatest id.
type OfferStore interface {
	GetByID(ctx context.Context, id int) (*offer.Offer, error)
	GetLatestForObject(ctx context.Context, objectID int) (*offer.Offer, error)
	ListLatest(ctx context.Context, limit int) ([]*offer.Offer, error)
	List(ctx context.Context, filter offer.Filter) ([]*offer.Offer, error)
	Create(ctx context.Context, o *offer.Offer) error
	Save(ctx context.Context, o *offer.Offer) error
	UpdateStatus(ctx context.Context, id int, from, to offer.Status) error
}

// InterestStore persists interests keyed by (object, member)
type InterestStore interface {
	Get(ctx context.Context, objectID, memberID int) (*interest.Interest, error)
	GetAllForObject(ctx context.Context, objectID int) ([]*interest.Interest, error)
	GetPublishedForObject(ctx context.Context, objectID int) ([]*interest.Interest, error)
	GetAssignedForObject(ctx context.Context, objectID int) (*interest.Interest, error)
	// GetNotifications returns the member's interests flagged for notification
	// and the published interests on interested objects the member offers,
	// newest first.
	GetNotifications(ctx context.Context, memberID int) ([]*interest.Interest, error)
	Create(ctx context.Context, i *interest.Interest) error
	SetNotify(ctx context.Context, objectID, memberID int, notify bool) error
	UpdateStatus(ctx context.Context, objectID, memberID int, from, to interest.Status) error
}

// TypeStore persists the object type catalogue
type TypeStore interface {
	GetByID(ctx context.Context, id int) (*objecttype.Type, error)
	GetByName(ctx context.Context, name string) (*objecttype.Type, error)
	GetDefaults(ctx context.Context) ([]*objecttype.Type, error)
	Create(ctx context.Context, t *objecttype.Type) error
}

// Stores gives access to every store bound to the same unit of work
type Stores interface {
	Objects() ObjectStore
	Offers() OfferStore
	Interests() InterestStore
	Types() TypeStore
}

// Tx is an open transaction. Rollback is idempotent and may be called after
// Commit, successful or not.
type Tx interface {
	Stores
	Commit() error
	Rollback() error
}

// TransactionController opens transactions
type TransactionController interface {
	Begin(ctx context.Context) (Tx, error)
}
