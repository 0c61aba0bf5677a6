package migrations

import (
	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/object"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/domain/offer"
)

// AllModels returns the persisted models, referenced tables first
func AllModels() []any {
	return []any{
		&objecttype.Type{},
		&object.Object{},
		&offer.Offer{},
		&interest.Interest{},
	}
}
