package offer

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"time"

	"github.com/Naya-01/PAE/internal/domain/object"
)

// LastOffersLimit is the number of offers shown on the home page
const LastOffersLimit = 6

// Offer is the availability record of an object. An object keeps one offer
// per time it was offered; the latest one drives its lifecycle.
type Offer struct {
	ID        int           `json:"id" gorm:"primaryKey;autoIncrement"`
	Date      time.Time     `json:"date" gorm:"not null;index"`
	TimeSlot  string        `json:"time_slot" gorm:"type:varchar(120);not null"`
	ObjectID  int           `json:"object_id" gorm:"not null;index"`
	Object    object.Object `json:"object" gorm:"foreignKey:ObjectID"`
	Status    Status        `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Offer) TableName() string {
	return "offers"
}

// IsTerminal reports whether the offer can no longer change
func (o *Offer) IsTerminal() bool {
	return o.Status == StatusGiven || o.Status == StatusCancelled
}

// NewOffer is the input of an offer creation. ObjectID is zero for a brand
// new object, or the id of a cancelled object being offered again.
type NewOffer struct {
	ObjectID    int    `json:"object_id"`
	OfferorID   int    `json:"-"`
	Description string `json:"description"`
	TimeSlot    string `json:"time_slot"`
	TypeID      int    `json:"type_id"`
	TypeName    string `json:"type_name"`
}

// Update carries the editable attributes of an offer and its object
type Update struct {
	TimeSlot    string `json:"time_slot"`
	Description string `json:"description"`
}

// Filter narrows ListOffers. Zero values mean "no restriction".
type Filter struct {
	Search       string
	OfferorID    int
	TypeName     string
	ObjectStatus *object.Status
	Limit        int
}

// Status is the lifecycle status of an offer
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
	StatusCancelled:  {},
}

// CanTransitionTo checks if an offer in status s may move to next
func (s Status) CanTransitionTo(next Status) bool {
	allowed, exists := transitions[s]
	if !exists {
		return false
	}
	return slices.Contains(allowed, next)
}

// ObjectStatus returns the object status kept in lockstep with s
func (s Status) ObjectStatus() object.Status {
	switch s {
	case StatusInterested:
		return object.StatusInterested
	case StatusAssigned:
		return object.StatusAssigned
	case StatusGiven:
		return object.StatusGiven
	case StatusCancelled:
		return object.StatusCancelled
	default:
		return object.StatusAvailable
	}
}

func (s Status) String() string {
	return s.ObjectStatus().String()
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
		return fmt.Errorf("invalid offer status: %s", str)
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
		return fmt.Errorf("cannot scan %T into offer.Status", value)
	}

	status, valid := ParseStatus(str)
	if !valid {
		return fmt.Errorf("invalid offer status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}
