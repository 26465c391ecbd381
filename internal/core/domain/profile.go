package domain

import (
	"fmt"
	"strings"
)

// PersonalField names a field of the personal profile group.
type PersonalField string

const (
	FieldFirstName      PersonalField = "firstName"
	FieldLastName       PersonalField = "lastName"
	FieldIDNumber       PersonalField = "idNumber"
	FieldBirthDate      PersonalField = "birthDate"
	FieldActivityType   PersonalField = "activityType"
	FieldActivityNumber PersonalField = "activityNumber"
	FieldPhone          PersonalField = "phone"
)

// DefaultPersonalFields is the full personal group. Email is checked on top
// of whatever list an evaluator is configured with.
var DefaultPersonalFields = []PersonalField{
	FieldFirstName,
	FieldLastName,
	FieldIDNumber,
	FieldBirthDate,
	FieldActivityType,
	FieldActivityNumber,
	FieldPhone,
}

// Completeness holds the derived profile flags. The JSON names are the ones
// clients already consume.
type Completeness struct {
	PersonalComplete bool `json:"userIsCompleted"`
	AddressComplete  bool `json:"addressIsCompleted"`
}

// ProfileComplete reports whether both groups are complete.
func (c Completeness) ProfileComplete() bool {
	return c.PersonalComplete && c.AddressComplete
}

// ProfileEvaluator computes Completeness from a user record. It holds no
// state beyond its field list and never performs I/O.
type ProfileEvaluator struct {
	fields []PersonalField
}

// NewProfileEvaluator returns an evaluator requiring the given personal
// fields. With no fields it uses DefaultPersonalFields.
func NewProfileEvaluator(fields ...PersonalField) (*ProfileEvaluator, error) {
	if len(fields) == 0 {
		fields = DefaultPersonalFields
	}
	seen := make(map[PersonalField]struct{}, len(fields))
	out := make([]PersonalField, 0, len(fields))
	for _, f := range fields {
		if !f.known() {
			return nil, fmt.Errorf("unknown profile field %q", f)
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return &ProfileEvaluator{fields: out}, nil
}

// ParsePersonalFields converts configuration names into fields.
func ParsePersonalFields(names []string) ([]PersonalField, error) {
	fields := make([]PersonalField, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		f := PersonalField(n)
		if !f.known() {
			return nil, fmt.Errorf("unknown profile field %q", n)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

var defaultEvaluator = &ProfileEvaluator{fields: DefaultPersonalFields}

// EvaluateCompleteness evaluates u against the full personal group.
func EvaluateCompleteness(u *User) Completeness {
	return defaultEvaluator.Evaluate(u)
}

// Fields returns a copy of the required personal fields.
func (e *ProfileEvaluator) Fields() []PersonalField {
	return append([]PersonalField(nil), e.fields...)
}

// Evaluate computes both flags for u. A nil user is incomplete.
func (e *ProfileEvaluator) Evaluate(u *User) Completeness {
	if u == nil {
		return Completeness{}
	}
	return Completeness{
		PersonalComplete: e.personalComplete(u),
		AddressComplete:  AddressComplete(u.Address),
	}
}

func (e *ProfileEvaluator) personalComplete(u *User) bool {
	if blank(u.Email) {
		return false
	}
	for _, f := range e.fields {
		if blank(f.value(u)) {
			return false
		}
	}
	return true
}

// AddressComplete reports whether a exists and every sub-field is filled.
func AddressComplete(a *Address) bool {
	if a == nil {
		return false
	}
	for _, v := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if blank(v) {
			return false
		}
	}
	return true
}

func (f PersonalField) known() bool {
	for _, k := range DefaultPersonalFields {
		if f == k {
			return true
		}
	}
	return false
}

func (f PersonalField) value(u *User) string {
	switch f {
	case FieldFirstName:
		return u.FirstName
	case FieldLastName:
		return u.LastName
	case FieldIDNumber:
		return u.IDNumber
	case FieldBirthDate:
		return u.BirthDate
	case FieldActivityType:
		return u.ActivityType
	case FieldActivityNumber:
		return u.ActivityNumber
	case FieldPhone:
		return u.Phone
	}
	return ""
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
