package domain

import (
	"time"
)

// PhonebookItem is a single phonebook entry.
type PhonebookItem struct {
	ID           int64      `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     *string    `json:"last_name"`
	PhoneNumber  string     `json:"phone_number"`
	CountryCode  string     `json:"country_code"`
	TimezoneName string     `json:"timezone_name"`
	InsertedOn   time.Time  `json:"inserted_on"`
	UpdatedOn    *time.Time `json:"updated_on"`
}

// NewPhonebookItem creates an unsaved item. ID is assigned by the store.
func NewPhonebookItem(firstName string, lastName *string, phoneNumber, countryCode, timezoneName string, now time.Time) *PhonebookItem {
	return &PhonebookItem{
		FirstName:    firstName,
		LastName:     lastName,
		PhoneNumber:  phoneNumber,
		CountryCode:  countryCode,
		TimezoneName: timezoneName,
		InsertedOn:   now.UTC(),
	}
}

// Touch records an update at now.
func (i *PhonebookItem) Touch(now time.Time) {
	t := now.UTC()
	i.UpdatedOn = &t
}

// Clone returns a deep copy, so callers can mutate fields without aliasing.
func (i *PhonebookItem) Clone() *PhonebookItem {
	c := *i
	if i.LastName != nil {
		ln := *i.LastName
		c.LastName = &ln
	}
	if i.UpdatedOn != nil {
		u := *i.UpdatedOn
		c.UpdatedOn = &u
	}
	return &c
}
