package domain

import (
	"strings"
	"time"
)

// Address is the postal address attached to a user profile. It only counts
// as present when every field is filled in.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// User models a registered account together with its profile data.
type User struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	IDNumber       string    `json:"idNumber,omitempty"`
	BirthDate      string    `json:"birthDate,omitempty"`
	ActivityType   string    `json:"activityType,omitempty"`
	ActivityNumber string    `json:"activityNumber,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Address        *Address  `json:"address,omitempty"`
	Role           Role      `json:"role"`
	CartID         string    `json:"cart,omitempty"`
	Favorites      []string  `json:"favorite,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Principal builds the request identity for u.
func (u *User) Principal() *Principal {
	return &Principal{ID: u.ID, Email: u.Email, Role: u.Role, CartID: u.CartID}
}

// AddressUpdate carries the address sub-fields a profile update may set.
// A nil field is left untouched.
type AddressUpdate struct {
	Street  *string
	City    *string
	State   *string
	ZipCode *string
	Country *string
}

func (a AddressUpdate) empty() bool {
	return a.Street == nil && a.City == nil && a.State == nil && a.ZipCode == nil && a.Country == nil
}

// UserUpdate is a partial update over the personal and address groups.
// Role, email and credentials are deliberately absent.
type UserUpdate struct {
	FirstName      *string
	LastName       *string
	IDNumber       *string
	BirthDate      *string
	ActivityType   *string
	ActivityNumber *string
	Phone          *string
	Address        AddressUpdate
}

// IsEmpty reports whether the update would change nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.IDNumber == nil &&
		u.BirthDate == nil && u.ActivityType == nil && u.ActivityNumber == nil &&
		u.Phone == nil && u.Address.empty()
}

// Normalize trims every supplied value and drops the ones left blank, so
// stores persist exactly what completeness checks will see.
func (u UserUpdate) Normalize() UserUpdate {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		if t == "" {
			return nil
		}
		return &t
	}
	return UserUpdate{
		FirstName:      trim(u.FirstName),
		LastName:       trim(u.LastName),
		IDNumber:       trim(u.IDNumber),
		BirthDate:      trim(u.BirthDate),
		ActivityType:   trim(u.ActivityType),
		ActivityNumber: trim(u.ActivityNumber),
		Phone:          trim(u.Phone),
		Address: AddressUpdate{
			Street:  trim(u.Address.Street),
			City:    trim(u.Address.City),
			State:   trim(u.Address.State),
			ZipCode: trim(u.Address.ZipCode),
			Country: trim(u.Address.Country),
		},
	}
}
