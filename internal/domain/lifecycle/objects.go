package lifecycle

import (
	"context"
	"fmt"
	"io"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/metrics"
	"github.com/Naya-01/PAE/internal/storage/images"
)

// GetObject returns an object
func (e *Engine) GetObject(ctx context.Context, objectID int) (*object.Object, error) {
	return withTx(ctx, e, "get_object", func(s Stores) (*object.Object, error) {
		return s.Objects().GetByID(ctx, objectID)
	})
}

// GetMemberObjects returns the objects offered by a member
func (e *Engine) GetMemberObjects(ctx context.Context, memberID int) ([]*object.Object, error) {
	return withTx(ctx, e, "get_member_objects", func(s Stores) ([]*object.Object, error) {
		objects, err := s.Objects().GetByOfferor(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if len(objects) == 0 {
			return nil, apierr.NotFound("member has no object")
		}
		return objects, nil
	})
}

// UpdateObject edits the description and type of an object
func (e *Engine) UpdateObject(ctx context.Context, in object.Update) (*object.Object, error) {
	if err := e.offerValidator.ValidateDescription(in.Description); err != nil {
		return nil, apierr.New(apierr.KindBadRequest, err.Error(), err)
	}

	return withTx(ctx, e, "update_object", func(s Stores) (*object.Object, error) {
		obj, err := s.Objects().GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if in.TypeID != 0 && in.TypeID != obj.TypeID {
			typ, err := s.Types().GetByID(ctx, in.TypeID)
			if err != nil {
				return nil, err
			}
			obj.TypeID = typ.ID
			obj.Type = typ
		}
		obj.Description = in.Description
		if err := s.Objects().Save(ctx, obj); err != nil {
			return nil, err
		}
		return obj, nil
	})
}

// UpdateObjectPicture stores a new picture for an object and drops the
// previous one once the object points at the new key.
func (e *Engine) UpdateObjectPicture(ctx context.Context, objectID int, upload images.Upload) (*object.Object, error) {
	if e.images == nil {
		err := apierr.Unavailable("picture storage is not configured")
		metrics.ObserveOperation("update_object_picture", err)
		return nil, err
	}
	if err := upload.Validate(e.maxFileSize); err != nil {
		return nil, apierr.New(apierr.KindBadRequest, err.Error(), err)
	}

	key := images.NewKey(objectID, upload.Filename)
	var previous string
	uploaded := false

	obj, err := withTx(ctx, e, "update_object_picture", func(s Stores) (*object.Object, error) {
		obj, err := s.Objects().GetByID(ctx, objectID)
		if err != nil {
			return nil, err
		}
		if err := e.images.Put(ctx, key, upload); err != nil {
			return nil, apierr.New(apierr.KindUnavailable, "failed to store picture", err)
		}
		uploaded = true
		if err := s.Objects().UpdateImage(ctx, obj.ID, key); err != nil {
			return nil, err
		}
		previous = obj.Image
		obj.Image = key
		return obj, nil
	})
	if err != nil {
		if uploaded {
			e.dropPicture(ctx, key)
		}
		return nil, err
	}

	if previous != "" {
		e.dropPicture(ctx, previous)
	}
	return obj, nil
}

// OpenObjectPicture streams the current picture of an object and returns
// its storage key
func (e *Engine) OpenObjectPicture(ctx context.Context, objectID int) (io.ReadCloser, string, error) {
	if e.images == nil {
		return nil, "", apierr.Unavailable("picture storage is not configured")
	}

	obj, err := e.GetObject(ctx, objectID)
	if err != nil {
		return nil, "", err
	}
	if obj.Image == "" {
		return nil, "", apierr.NotFound(fmt.Sprintf("object %d has no picture", objectID))
	}

	r, err := e.images.Open(ctx, obj.Image)
	if err != nil {
		return nil, "", apierr.New(apierr.KindUnavailable, "failed to open picture", err)
	}
	return r, obj.Image, nil
}

func (e *Engine) dropPicture(ctx context.Context, key string) {
	if err := e.images.Delete(context.WithoutCancel(ctx), key); err != nil {
		e.log.Warn("Failed to delete picture", "key", key, "error", err)
	}
}
