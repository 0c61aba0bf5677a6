package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/domain/offer"
)

func stale(entity string, id any, from fmt.Stringer) error {
	return fmt.Errorf("%s %v is not %s: %w", entity, id, from, apierr.ErrStaleState)
}

// objectWithType returns a copy of the object with its type attached
func (d *dataset) objectWithType(o object.Object) object.Object {
	if t, ok := d.types[o.TypeID]; ok {
		o.Type = &t
	}
	return o
}

func (d *dataset) offerWithObject(o offer.Offer) *offer.Offer {
	if obj, ok := d.objects[o.ObjectID]; ok {
		o.Object = d.objectWithType(obj)
	}
	return &o
}

func (d *dataset) interestWithObject(i interest.Interest) *interest.Interest {
	if obj, ok := d.objects[i.ObjectID]; ok {
		i.Object = d.objectWithType(obj)
	}
	return &i
}

// offersNewestFirst orders by date then id, both descending
func offersNewestFirst(a, b offer.Offer) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func interestsNewestFirst(a, b *interest.Interest) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ObjectID, b.ObjectID); c != 0 {
		return c
	}
	return cmp.Compare(a.MemberID, b.MemberID)
}

type objectStore struct{ access }

func (r *objectStore) GetByID(ctx context.Context, id int) (*object.Object, error) {
	var found *object.Object
	err := r.with(ctx, func(d *dataset) error {
		o, ok := d.objects[id]
		if !ok {
			return apierr.NotFound(fmt.Sprintf("object %d not found", id))
		}
		o = d.objectWithType(o)
		found = &o
		return nil
	})
	return found, err
}

func (r *objectStore) GetByOfferor(ctx context.Context, offerorID int) ([]*object.Object, error) {
	var objects []*object.Object
	err := r.with(ctx, func(d *dataset) error {
		for _, o := range d.objects {
			if o.OfferorID == offerorID {
				o = d.objectWithType(o)
				objects = append(objects, &o)
			}
		}
		return nil
	})
	slices.SortFunc(objects, func(a, b *object.Object) int { return cmp.Compare(a.ID, b.ID) })
	return objects, err
}

func (r *objectStore) Create(ctx context.Context, o *object.Object) error {
	return r.with(ctx, func(d *dataset) error {
		if o.ID == 0 {
			o.ID = d.nextObjectID
		} else if _, exists := d.objects[o.ID]; exists {
			return apierr.Conflict(fmt.Sprintf("object %d already exists", o.ID))
		}
		if o.ID >= d.nextObjectID {
			d.nextObjectID = o.ID + 1
		}
		now := time.Now().UTC()
		o.CreatedAt, o.UpdatedAt = now, now
		row := *o
		row.Type = nil
		d.objects[o.ID] = row
		return nil
	})
}

func (r *objectStore) Save(ctx context.Context, o *object.Object) error {
	return r.with(ctx, func(d *dataset) error {
		row, ok := d.objects[o.ID]
		if !ok {
			return apierr.NotFound(fmt.Sprintf("object %d not found", o.ID))
		}
		row.Description = o.Description
		row.TypeID = o.TypeID
		row.UpdatedAt = time.Now().UTC()
		d.objects[o.ID] = row
		return nil
	})
}

func (r *objectStore) UpdateStatus(ctx context.Context, id int, from, to object.Status) error {
	return r.with(ctx, func(d *dataset) error {
		row, ok := d.objects[id]
		if !ok || row.Status != from {
			return stale("object", id, from)
		}
		row.Status = to
		row.UpdatedAt = time.Now().UTC()
		d.objects[id] = row
		return nil
	})
}

func (r *objectStore) UpdateImage(ctx context.Context, id int, image string) error {
	return r.with(ctx, func(d *dataset) error {
		row, ok := d.objects[id]
		if !ok {
			return apierr.NotFound(fmt.Sprintf("object %d not found", id))
		}
		row.Image = image
		d.objects[id] = row
		return nil
	})
}

type offerStore struct{ access }

func (r *offerStore) GetByID(ctx context.Context, id int) (*offer.Offer, error) {
	var found *offer.Offer
	err := r.with(ctx, func(d *dataset) error {
		o, ok := d.offers[id]
		if !ok {
			return apierr.NotFound(fmt.Sprintf("offer %d not found", id))
		}
		found = d.offerWithObject(o)
		return nil
	})
	return found, err
}

func (r *offerStore) GetLatestForObject(ctx context.Context, objectID int) (*offer.Offer, error) {
	var found *offer.Offer
	err := r.with(ctx, func(d *dataset) error {
		var latest *offer.Offer
		for _, o := range d.offers {
			if o.ObjectID != objectID {
				continue
			}
			if latest == nil || offersNewestFirst(o, *latest) < 0 {
				latest = &o
			}
		}
		if latest == nil {
			return apierr.NotFound(fmt.Sprintf("no offer found for object %d", objectID))
		}
		found = d.offerWithObject(*latest)
		return nil
	})
	return found, err
}

func (r *offerStore) ListLatest(ctx context.Context, limit int) ([]*offer.Offer, error) {
	return r.List(ctx, offer.Filter{Limit: limit})
}

func (r *offerStore) List(ctx context.Context, filter offer.Filter) ([]*offer.Offer, error) {
	var offers []*offer.Offer
	err := r.with(ctx, func(d *dataset) error {
		rows := make([]offer.Offer, 0, len(d.offers))
		for _, o := range d.offers {
			rows = append(rows, o)
		}
		slices.SortFunc(rows, offersNewestFirst)

		for _, row := range rows {
			o := d.offerWithObject(row)
			if !matches(o, filter) {
				continue
			}
			offers = append(offers, o)
			if filter.Limit > 0 && len(offers) == filter.Limit {
				break
			}
		}
		return nil
	})
	return offers, err
}

func matches(o *offer.Offer, f offer.Filter) bool {
	if f.OfferorID != 0 && o.Object.OfferorID != f.OfferorID {
		return false
	}
	if f.ObjectStatus != nil && o.Object.Status != *f.ObjectStatus {
		return false
	}
	typeName := ""
	if o.Object.Type != nil {
		typeName = o.Object.Type.Name
	}
	if f.TypeName != "" && !strings.EqualFold(typeName, f.TypeName) {
		return false
	}
	if f.Search == "" {
		return true
	}
	search := strings.ToLower(f.Search)
	for _, field := range []string{o.Object.Description, o.TimeSlot, o.Status.String(), typeName} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func (r *offerStore) Create(ctx context.Context, o *offer.Offer) error {
	return r.with(ctx, func(d *dataset) error {
		if _, ok := d.objects[o.ObjectID]; !ok {
			return apierr.NotFound(fmt.Sprintf("object %d not found", o.ObjectID))
		}
		o.ID = d.nextOfferID
		d.nextOfferID++
		now := time.Now().UTC()
		o.CreatedAt, o.UpdatedAt = now, now
		row := *o
		row.Object = object.Object{}
		d.offers[o.ID] = row
		return nil
	})
}

func (r *offerStore) Save(ctx context.Context, o *offer.Offer) error {
	return r.with(ctx, func(d *dataset) error {
		row, ok := d.offers[o.ID]
		if !ok {
			return apierr.NotFound(fmt.Sprintf("offer %d not found", o.ID))
		}
		row.TimeSlot = o.TimeSlot
		row.UpdatedAt = time.Now().UTC()
		d.offers[o.ID] = row
		return nil
	})
}

func (r *offerStore) UpdateStatus(ctx context.Context, id int, from, to offer.Status) error {
	return r.with(ctx, func(d *dataset) error {
		row, ok := d.offers[id]
		if !ok || row.Status != from {
			return stale("offer", id, from)
		}
		row.Status = to
		row.UpdatedAt = time.Now().UTC()
		d.offers[id] = row
		return nil
	})
}

type interestStore struct{ access }

func (r *interestStore) Get(ctx context.Context, objectID, memberID int) (*interest.Interest, error) {
	var found *interest.Interest
	err := r.with(ctx, func(d *dataset) error {
		i, ok := d.interests[interestKey{objectID, memberID}]
		if !ok {
			return apierr.NotFound(fmt.Sprintf("member %d has no interest in object %d", memberID, objectID))
		}
		found = d.interestWithObject(i)
		return nil
	})
	return found, err
}

func (r *interestStore) filter(ctx context.Context, keep func(*dataset, interest.Interest) bool) ([]*interest.Interest, error) {
	var interests []*interest.Interest
	err := r.with(ctx, func(d *dataset) error {
		for _, i := range d.interests {
			if keep(d, i) {
				interests = append(interests, d.interestWithObject(i))
			}
		}
		return nil
	})
	slices.SortFunc(interests, interestsNewestFirst)
	return interests, err
}

func (r *interestStore) GetAllForObject(ctx context.Context, objectID int) ([]*interest.Interest, error) {
	return r.filter(ctx, func(_ *dataset, i interest.Interest) bool {
		return i.ObjectID == objectID
	})
}

func (r *interestStore) GetPublishedForObject(ctx context.Context, objectID int) ([]*interest.Interest, error) {
	return r.filter(ctx, func(_ *dataset, i interest.Interest) bool {
		return i.ObjectID == objectID && i.Status == interest.StatusPublished
	})
}

func (r *interestStore) GetAssignedForObject(ctx context.Context, objectID int) (*interest.Interest, error) {
	assigned, err := r.filter(ctx, func(_ *dataset, i interest.Interest) bool {
		return i.ObjectID == objectID && i.Status == interest.StatusAssigned
	})
	if err != nil {
		return nil, err
	}
	if len(assigned) == 0 {
		return nil, apierr.NotFound(fmt.Sprintf("object %d has no assigned interest", objectID))
	}
	return assigned[0], nil
}

func (r *interestStore) GetNotifications(ctx context.Context, memberID int) ([]*interest.Interest, error) {
	return r.filter(ctx, func(d *dataset, i interest.Interest) bool {
		if i.MemberID == memberID {
			return i.Notify
		}
		obj, ok := d.objects[i.ObjectID]
		return ok && obj.OfferorID == memberID &&
			obj.Status == object.StatusInterested &&
			i.Status == interest.StatusPublished
	})
}

func (r *interestStore) Create(ctx context.Context, i *interest.Interest) error {
	return r.with(ctx, func(d *dataset) error {
		key := interestKey{i.ObjectID, i.MemberID}
		if _, exists := d.interests[key]; exists {
			return apierr.Conflict("interest already exists")
		}
		if _, ok := d.objects[i.ObjectID]; !ok {
			return apierr.NotFound(fmt.Sprintf("object %d not found", i.ObjectID))
		}
		now := time.Now().UTC()
		i.CreatedAt, i.UpdatedAt = now, now
		row := *i
		row.Object = object.Object{}
		d.interests[key] = row
		return nil
	})
}

func (r *interestStore) SetNotify(ctx context.Context, objectID, memberID int, notify bool) error {
	return r.with(ctx, func(d *dataset) error {
		key := interestKey{objectID, memberID}
		row, ok := d.interests[key]
		if !ok {
			return apierr.NotFound(fmt.Sprintf("member %d has no interest in object %d", memberID, objectID))
		}
		row.Notify = notify
		d.interests[key] = row
		return nil
	})
}

func (r *interestStore) UpdateStatus(ctx context.Context, objectID, memberID int, from, to interest.Status) error {
	return r.with(ctx, func(d *dataset) error {
		key := interestKey{objectID, memberID}
		row, ok := d.interests[key]
		if !ok || row.Status != from {
			return stale("interest", key, from)
		}
		if to == interest.StatusAssigned {
			for k, other := range d.interests {
				if k != key && k.objectID == objectID && other.Status == interest.StatusAssigned {
					return fmt.Errorf("object %d already has an assigned interest: %w", objectID, apierr.ErrStaleState)
				}
			}
		}
		row.Status = to
		row.UpdatedAt = time.Now().UTC()
		d.interests[key] = row
		return nil
	})
}

type typeStore struct{ access }

func (r *typeStore) GetByID(ctx context.Context, id int) (*objecttype.Type, error) {
	var found *objecttype.Type
	err := r.with(ctx, func(d *dataset) error {
		t, ok := d.types[id]
		if !ok {
			return apierr.NotFound(fmt.Sprintf("type %d not found", id))
		}
		found = &t
		return nil
	})
	return found, err
}

func (r *typeStore) GetByName(ctx context.Context, name string) (*objecttype.Type, error) {
	var found *objecttype.Type
	err := r.with(ctx, func(d *dataset) error {
		for _, t := range d.types {
			if strings.EqualFold(t.Name, name) {
				found = &t
				return nil
			}
		}
		return apierr.NotFound(fmt.Sprintf("type %q not found", name))
	})
	return found, err
}

func (r *typeStore) GetDefaults(ctx context.Context) ([]*objecttype.Type, error) {
	var types []*objecttype.Type
	err := r.with(ctx, func(d *dataset) error {
		for _, t := range d.types {
			if t.IsDefault {
				types = append(types, &t)
			}
		}
		return nil
	})
	slices.SortFunc(types, func(a, b *objecttype.Type) int { return cmp.Compare(a.ID, b.ID) })
	return types, err
}

func (r *typeStore) Create(ctx context.Context, t *objecttype.Type) error {
	return r.with(ctx, func(d *dataset) error {
		for _, existing := range d.types {
			if strings.EqualFold(existing.Name, t.Name) {
				return apierr.Conflict(fmt.Sprintf("type %q already exists", t.Name))
			}
		}
		t.ID = d.nextTypeID
		d.nextTypeID++
		t.CreatedAt = time.Now().UTC()
		d.types[t.ID] = *t
		return nil
	})
}
