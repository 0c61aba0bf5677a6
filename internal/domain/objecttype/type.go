package objecttype

import (
	"strings"
	"time"
)

// Type is an entry of the object type catalogue (furniture, clothes, ...)
type Type struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null;uniqueIndex"`
	IsDefault bool      `json:"is_default" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Type) TableName() string {
	return "types"
}

// New returns a non-default type with a normalised name
func New(name string) *Type {
	return &Type{Name: NormalizeName(name)}
}

// NormalizeName trims the name so lookups and uniqueness agree
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
