package object

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"time"

	"github.com/Naya-01/PAE/internal/domain/objecttype"
)

// Object is a physical item a member offers for donation
type Object struct {
	ID          int              `json:"id" gorm:"primaryKey;autoIncrement"`
	Description string           `json:"description" gorm:"type:varchar(120);not null"`
	Image       string           `json:"image,omitempty" gorm:"type:varchar(255)"`
	Status      Status           `json:"status" gorm:"type:varchar(20);not null"`
	OfferorID   int              `json:"offeror_id" gorm:"not null;index"`
	TypeID      int              `json:"type_id" gorm:"not null;index"`
	Type        *objecttype.Type `json:"type,omitempty" gorm:"foreignKey:TypeID"`
	CreatedAt   time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Object) TableName() string {
	return "objects"
}

// IsOfferor checks if the given member offers this object
func (o *Object) IsOfferor(memberID int) bool {
	return o.OfferorID == memberID
}

// Update carries the editable attributes of an object
type Update struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	TypeID      int    `json:"type_id"`
}

// Status is the lifecycle status of an object
type Status byte

const (
	StatusAvailable Status = iota
	StatusInterested
	StatusAssigned
	StatusGiven
	StatusCancelled
)

var transitions = map[Status][]Status{
	StatusAvailable:  {StatusInterested, StatusCancelled},
	StatusInterested: {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusGiven, StatusCancelled},
	StatusGiven:      {},
	// NOTE: a cancelled object comes back when its offeror offers it again
	StatusCancelled: {StatusAvailable, StatusInterested},
}

// CanTransitionTo checks if an object in status s may move to next
func (s Status) CanTransitionTo(next Status) bool {
	allowed, exists := transitions[s]
	if !exists {
		return false
	}
	return slices.Contains(allowed, next)
}

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusInterested:
		return "interested"
	case StatusAssigned:
		return "assigned"
	case StatusGiven:
		return "given"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ParseStatus converts a string to a Status
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "available":
		return StatusAvailable, true
	case "interested":
		return StatusInterested, true
	case "assigned":
		return StatusAssigned, true
	case "given":
		return StatusGiven, true
	case "cancelled":
		return StatusCancelled, true
	default:
		return StatusAvailable, false
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := ParseStatus(str)
	if !valid {
		return fmt.Errorf("invalid object status: %s", str)
	}
	*s = status
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value any) error {
	var str string
	switch v := value.(type) {
	case nil:
		*s = StatusAvailable
		return nil
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into object.Status", value)
	}

	status, valid := ParseStatus(str)
	if !valid {
		return fmt.Errorf("invalid object status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}
