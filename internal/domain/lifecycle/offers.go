package lifecycle

import (
	"context"
	"fmt"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/domain/offer"
)

// AssignOffer gives objectID to memberID. The object, its latest offer and
// the member's interest move to assigned together, in that order.
func (e *Engine) AssignOffer(ctx context.Context, objectID, memberID int) (*interest.Interest, error) {
	return withTx(ctx, e, "assign_offer", func(s Stores) (*interest.Interest, error) {
		latest, err := s.Offers().GetLatestForObject(ctx, objectID)
		if err != nil {
			return nil, err
		}
		obj, err := s.Objects().GetByID(ctx, objectID)
		if err != nil {
			return nil, err
		}
		if latest.Status != offer.StatusInterested || obj.Status != object.StatusInterested {
			return nil, apierr.Forbidden(fmt.Sprintf("offer %d is %s and object %d is %s, both must be interested",
				latest.ID, latest.Status, obj.ID, obj.Status))
		}

		if _, err := s.Interests().GetAssignedForObject(ctx, objectID); err == nil {
			return nil, apierr.Forbidden(fmt.Sprintf("object %d is already assigned", objectID))
		} else if !apierr.IsNotFound(err) {
			return nil, err
		}

		target, err := s.Interests().Get(ctx, objectID, memberID)
		if err != nil {
			return nil, err
		}
		if target.Status != interest.StatusPublished {
			return nil, apierr.Forbidden(fmt.Sprintf("interest of member %d is %s", memberID, target.Status))
		}

		if err := e.moveObject(ctx, s, obj, object.StatusAssigned); err != nil {
			return nil, err
		}
		if err := e.moveOffer(ctx, s, latest, offer.StatusAssigned); err != nil {
			return nil, err
		}
		if err := e.moveInterest(ctx, s, target, interest.StatusAssigned); err != nil {
			return nil, err
		}
		target.Object = *obj

		e.log.Info("Offer assigned", "offer_id", latest.ID, "object_id", objectID, "member_id", memberID)
		return target, nil
	})
}

// CancelOffer cancels an offer and its object. A member holding the
// assignment goes back to published and is told about it.
func (e *Engine) CancelOffer(ctx context.Context, offerID int) (*offer.Offer, error) {
	return withTx(ctx, e, "cancel_offer", func(s Stores) (*offer.Offer, error) {
		o, err := s.Offers().GetByID(ctx, offerID)
		if err != nil {
			return nil, err
		}
		if o.IsTerminal() {
			return nil, apierr.Forbidden(fmt.Sprintf("offer %d is already %s", o.ID, o.Status))
		}
		obj, err := s.Objects().GetByID(ctx, o.ObjectID)
		if err != nil {
			return nil, err
		}

		if err := e.moveOffer(ctx, s, o, offer.StatusCancelled); err != nil {
			return nil, err
		}
		if err := e.moveObject(ctx, s, obj, object.StatusCancelled); err != nil {
			return nil, err
		}

		assigned, err := s.Interests().GetAssignedForObject(ctx, obj.ID)
		switch {
		case err == nil:
			if err := e.moveInterest(ctx, s, assigned, interest.StatusPublished); err != nil {
				return nil, err
			}
			e.log.Info("Assignment reverted", "object_id", obj.ID, "member_id", assigned.MemberID)
		case !apierr.IsNotFound(err):
			return nil, err
		}

		o.Object = *obj
		e.log.Info("Offer cancelled", "offer_id", o.ID, "object_id", obj.ID)
		return o, nil
	})
}

// MarkGiven records that an assigned object has been handed over
func (e *Engine) MarkGiven(ctx context.Context, objectID int) (*offer.Offer, error) {
	return withTx(ctx, e, "mark_given", func(s Stores) (*offer.Offer, error) {
		latest, err := s.Offers().GetLatestForObject(ctx, objectID)
		if err != nil {
			return nil, err
		}
		obj, err := s.Objects().GetByID(ctx, objectID)
		if err != nil {
			return nil, err
		}
		if latest.Status != offer.StatusAssigned || obj.Status != object.StatusAssigned {
			return nil, apierr.Forbidden(fmt.Sprintf("object %d is not assigned", objectID))
		}

		if err := e.moveObject(ctx, s, obj, object.StatusGiven); err != nil {
			return nil, err
		}
		if err := e.moveOffer(ctx, s, latest, offer.StatusGiven); err != nil {
			return nil, err
		}

		latest.Object = *obj
		e.log.Info("Object given", "object_id", objectID, "offer_id", latest.ID)
		return latest, nil
	})
}

// AddOffer offers a new object, or offers again a cancelled object of the
// same offeror.
func (e *Engine) AddOffer(ctx context.Context, in offer.NewOffer) (*offer.Offer, error) {
	if err := e.offerValidator.ValidateTimeSlot(in.TimeSlot); err != nil {
		return nil, apierr.New(apierr.KindBadRequest, err.Error(), err)
	}
	if in.ObjectID == 0 || in.Description != "" {
		if err := e.offerValidator.ValidateDescription(in.Description); err != nil {
			return nil, apierr.New(apierr.KindBadRequest, err.Error(), err)
		}
	}
	if in.TypeName != "" {
		if err := e.typeValidator.ValidateTypeName(in.TypeName); err != nil {
			return nil, apierr.New(apierr.KindBadRequest, err.Error(), err)
		}
	}

	return withTx(ctx, e, "add_offer", func(s Stores) (*offer.Offer, error) {
		typ, err := e.resolveType(ctx, s, in)
		if err != nil {
			return nil, err
		}
		if in.ObjectID == 0 {
			return e.offerNewObject(ctx, s, in, typ)
		}
		return e.offerAgain(ctx, s, in, typ)
	})
}

// resolveType finds the type named in the request, creating it when the name
// is unknown. It returns nil when the request names no type.
func (e *Engine) resolveType(ctx context.Context, s Stores, in offer.NewOffer) (*objecttype.Type, error) {
	if in.TypeName != "" {
		name := objecttype.NormalizeName(in.TypeName)
		t, err := s.Types().GetByName(ctx, name)
		if err == nil {
			return t, nil
		}
		if !apierr.IsNotFound(err) {
			return nil, err
		}
		t = objecttype.New(name)
		if err := s.Types().Create(ctx, t); err != nil {
			return nil, err
		}
		e.log.Info("Type created", "type_id", t.ID, "name", t.Name)
		return t, nil
	}
	if in.TypeID != 0 {
		return s.Types().GetByID(ctx, in.TypeID)
	}
	if in.ObjectID == 0 {
		return nil, apierr.BadRequest("type_id or type_name is required")
	}
	return nil, nil
}

func (e *Engine) offerNewObject(ctx context.Context, s Stores, in offer.NewOffer, typ *objecttype.Type) (*offer.Offer, error) {
	obj := &object.Object{
		Description: in.Description,
		Status:      object.StatusAvailable,
		OfferorID:   in.OfferorID,
		TypeID:      typ.ID,
	}
	if err := s.Objects().Create(ctx, obj); err != nil {
		return nil, err
	}

	created := &offer.Offer{
		Date:     e.now(),
		TimeSlot: in.TimeSlot,
		ObjectID: obj.ID,
		Status:   offer.StatusAvailable,
	}
	if err := s.Offers().Create(ctx, created); err != nil {
		return nil, err
	}

	obj.Type = typ
	created.Object = *obj
	e.log.Info("Offer created", "offer_id", created.ID, "object_id", obj.ID, "offeror_id", in.OfferorID)
	return created, nil
}

func (e *Engine) offerAgain(ctx context.Context, s Stores, in offer.NewOffer, typ *objecttype.Type) (*offer.Offer, error) {
	obj, err := s.Objects().GetByID(ctx, in.ObjectID)
	if err != nil {
		return nil, err
	}
	if !obj.IsOfferor(in.OfferorID) {
		return nil, apierr.Forbidden(fmt.Sprintf("object %d belongs to another member", obj.ID))
	}
	latest, err := s.Offers().GetLatestForObject(ctx, obj.ID)
	if err != nil {
		return nil, err
	}
	if latest.Status != offer.StatusCancelled {
		return nil, apierr.Forbidden(fmt.Sprintf("offer %d is %s, only a cancelled object can be offered again", latest.ID, latest.Status))
	}

	candidates, err := s.Interests().GetPublishedForObject(ctx, obj.ID)
	if err != nil {
		return nil, err
	}
	next := offer.StatusAvailable
	if len(candidates) > 0 {
		next = offer.StatusInterested
	}
	if err := e.moveObject(ctx, s, obj, next.ObjectStatus()); err != nil {
		return nil, err
	}

	if in.Description != "" || typ != nil {
		if in.Description != "" {
			obj.Description = in.Description
		}
		if typ != nil {
			obj.TypeID = typ.ID
			obj.Type = typ
		}
		if err := s.Objects().Save(ctx, obj); err != nil {
			return nil, err
		}
	}

	created := &offer.Offer{
		Date:     e.now(),
		TimeSlot: in.TimeSlot,
		ObjectID: obj.ID,
		Status:   next,
	}
	if err := s.Offers().Create(ctx, created); err != nil {
		return nil, err
	}

	created.Object = *obj
	e.log.Info("Object offered again", "offer_id", created.ID, "object_id", obj.ID, "status", next, "candidates", len(candidates))
	return created, nil
}

// GetOffer returns an offer with its object
func (e *Engine) GetOffer(ctx context.Context, offerID int) (*offer.Offer, error) {
	return withTx(ctx, e, "get_offer", func(s Stores) (*offer.Offer, error) {
		return s.Offers().GetByID(ctx, offerID)
	})
}

// GetLastOffers returns the most recent offers
func (e *Engine) GetLastOffers(ctx context.Context) ([]*offer.Offer, error) {
	return withTx(ctx, e, "get_last_offers", func(s Stores) ([]*offer.Offer, error) {
		offers, err := s.Offers().ListLatest(ctx, offer.LastOffersLimit)
		if err != nil {
			return nil, err
		}
		if len(offers) == 0 {
			return nil, apierr.NotFound("no offer found")
		}
		return offers, nil
	})
}

// ListOffers returns the offers matching filter, newest first
func (e *Engine) ListOffers(ctx context.Context, filter offer.Filter) ([]*offer.Offer, error) {
	return withTx(ctx, e, "list_offers", func(s Stores) ([]*offer.Offer, error) {
		offers, err := s.Offers().List(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(offers) == 0 {
			return nil, apierr.NotFound("no offer matches the search")
		}
		return offers, nil
	})
}

// UpdateOffer edits the time slot of an offer and the description of its object
func (e *Engine) UpdateOffer(ctx context.Context, offerID int, in offer.Update) (*offer.Offer, error) {
	if err := e.offerValidator.ValidateTimeSlot(in.TimeSlot); err != nil {
		return nil, apierr.New(apierr.KindBadRequest, err.Error(), err)
	}
	if err := e.offerValidator.ValidateDescription(in.Description); err != nil {
		return nil, apierr.New(apierr.KindBadRequest, err.Error(), err)
	}

	return withTx(ctx, e, "update_offer", func(s Stores) (*offer.Offer, error) {
		o, err := s.Offers().GetByID(ctx, offerID)
		if err != nil {
			return nil, err
		}
		if o.IsTerminal() {
			return nil, apierr.Forbidden(fmt.Sprintf("offer %d is %s and can no longer change", o.ID, o.Status))
		}

		o.TimeSlot = in.TimeSlot
		if err := s.Offers().Save(ctx, o); err != nil {
			return nil, err
		}

		obj, err := s.Objects().GetByID(ctx, o.ObjectID)
		if err != nil {
			return nil, err
		}
		obj.Description = in.Description
		if err := s.Objects().Save(ctx, obj); err != nil {
			return nil, err
		}

		o.Object = *obj
		e.log.Info("Offer updated", "offer_id", o.ID)
		return o, nil
	})
}
