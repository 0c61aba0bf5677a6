package interest

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"time"

	"github.com/Naya-01/PAE/internal/domain/object"
)

// Interest is a member's wish to receive an object. A member holds at most
// one interest per object; refusal is implicit when another member's
// interest on the same object is assigned.
type Interest struct {
	ObjectID  int           `json:"object_id" gorm:"primaryKey;autoIncrement:false"`
	MemberID  int           `json:"member_id" gorm:"primaryKey;autoIncrement:false;index"`
	Status    Status        `json:"status" gorm:"type:varchar(20);not null"`
	Notify    bool          `json:"notify" gorm:"not null;default:false"`
	Date      time.Time     `json:"date" gorm:"not null"`
	Object    object.Object `json:"object" gorm:"foreignKey:ObjectID"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Interest) TableName() string {
	return "interests"
}

// New returns a published interest dated now
func New(objectID, memberID int, now time.Time) *Interest {
	return &Interest{
		ObjectID: objectID,
		MemberID: memberID,
		Status:   StatusPublished,
		Date:     now,
	}
}

// Status is the status of an interest
type Status byte

const (
	StatusPublished Status = iota
	StatusAssigned
)

var transitions = map[Status][]Status{
	StatusPublished: {StatusAssigned},
	StatusAssigned:  {StatusPublished},
}

// CanTransitionTo checks if an interest in status s may move to next
func (s Status) CanTransitionTo(next Status) bool {
	allowed, exists := transitions[s]
	if !exists {
		return false
	}
	return slices.Contains(allowed, next)
}

func (s Status) String() string {
	switch s {
	case StatusPublished:
		return "published"
	case StatusAssigned:
		return "assigned"
	default:
		return "unknown"
	}
}

// ParseStatus converts a string to a Status
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "published":
		return StatusPublished, true
	case "assigned":
		return StatusAssigned, true
	default:
		return StatusPublished, false
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
		return fmt.Errorf("invalid interest status: %s", str)
	}
	*s = status
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value any) error {
	var str string
	switch v := value.(type) {
	case nil:
		*s = StatusPublished
		return nil
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into interest.Status", value)
	}

	status, valid := ParseStatus(str)
	if !valid {
		return fmt.Errorf("invalid interest status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}
