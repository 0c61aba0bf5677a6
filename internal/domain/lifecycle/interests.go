package lifecycle

import (
	"context"
	"fmt"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/offer"
)

// AddInterest registers the interest of memberID in objectID. The first
// interest on an object moves the object and its latest offer from
// available to interested.
func (e *Engine) AddInterest(ctx context.Context, objectID, memberID int) (*interest.Interest, error) {
	return withTx(ctx, e, "add_interest", func(s Stores) (*interest.Interest, error) {
		if _, err := s.Interests().Get(ctx, objectID, memberID); err == nil {
			return nil, apierr.Conflict("interest already exists")
		} else if !apierr.IsNotFound(err) {
			return nil, err
		}

		obj, err := s.Objects().GetByID(ctx, objectID)
		if err != nil {
			return nil, err
		}
		// Stricter than registration needs: the stores accept interests from
		// the offeror and on closed objects, the engine refuses both.
		if obj.IsOfferor(memberID) {
			return nil, apierr.Forbidden("a member cannot be interested in their own object")
		}
		if obj.Status != object.StatusAvailable && obj.Status != object.StatusInterested {
			return nil, apierr.Forbidden(fmt.Sprintf("object %d is %s", obj.ID, obj.Status))
		}

		existing, err := s.Interests().GetAllForObject(ctx, objectID)
		if err != nil {
			return nil, err
		}
		if len(existing) == 0 {
			if err := e.moveObject(ctx, s, obj, object.StatusInterested); err != nil {
				return nil, err
			}
			latest, err := s.Offers().GetLatestForObject(ctx, objectID)
			if err != nil {
				return nil, err
			}
			if err := e.moveOffer(ctx, s, latest, offer.StatusInterested); err != nil {
				return nil, err
			}
		}

		created := interest.New(objectID, memberID, e.now())
		if err := s.Interests().Create(ctx, created); err != nil {
			return nil, err
		}
		created.Object = *obj

		e.log.Info("Interest registered", "object_id", objectID, "member_id", memberID, "first", len(existing) == 0)
		return created, nil
	})
}

// GetInterest returns the interest of memberID in objectID
func (e *Engine) GetInterest(ctx context.Context, objectID, memberID int) (*interest.Interest, error) {
	return withTx(ctx, e, "get_interest", func(s Stores) (*interest.Interest, error) {
		return s.Interests().Get(ctx, objectID, memberID)
	})
}

// GetInterestedCount returns the published interests of an object
func (e *Engine) GetInterestedCount(ctx context.Context, objectID int) ([]*interest.Interest, error) {
	return withTx(ctx, e, "get_interested_count", func(s Stores) ([]*interest.Interest, error) {
		if _, err := s.Objects().GetByID(ctx, objectID); err != nil {
			return nil, err
		}
		return s.Interests().GetPublishedForObject(ctx, objectID)
	})
}

// GetNotifications returns the interests memberID should be told about:
// their own interests whose status changed, and new candidates on the
// objects they offer.
func (e *Engine) GetNotifications(ctx context.Context, memberID int) ([]*interest.Interest, error) {
	return withTx(ctx, e, "get_notifications", func(s Stores) ([]*interest.Interest, error) {
		return s.Interests().GetNotifications(ctx, memberID)
	})
}

// DismissNotification marks the change on the member's interest as seen
func (e *Engine) DismissNotification(ctx context.Context, objectID, memberID int) error {
	return e.inTx(ctx, "dismiss_notification", func(s Stores) error {
		if _, err := s.Interests().Get(ctx, objectID, memberID); err != nil {
			return err
		}
		return s.Interests().SetNotify(ctx, objectID, memberID, false)
	})
}
