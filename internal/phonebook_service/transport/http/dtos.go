package http

import (
	"bytes"
	"encoding/json"

	"github.com/aradsms/phonebook_api/internal/phonebook_service/app"
)

// CreateItemRequest is the POST body. id, inserted_on and updated_on are
// not part of the DTO, so client-supplied values are dropped.
type CreateItemRequest struct {
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     *string `json:"last_name"`
	PhoneNumber  string  `json:"phone_number" validate:"required"`
	CountryCode  string  `json:"country_code"`
	TimezoneName string  `json:"timezone_name"`
}

func (r CreateItemRequest) toInput() app.CreateItemInput {
	return app.CreateItemInput{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PhoneNumber:  r.PhoneNumber,
		CountryCode:  r.CountryCode,
		TimezoneName: r.TimezoneName,
	}
}

// UpdateItemRequest is the PUT/PATCH body. Absent or null fields are left unchanged.
type UpdateItemRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	PhoneNumber  *string `json:"phone_number"`
	CountryCode  *string `json:"country_code"`
	TimezoneName *string `json:"timezone_name"`
}

func (r UpdateItemRequest) toInput() app.UpdateItemInput {
	return app.UpdateItemInput{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PhoneNumber:  r.PhoneNumber,
		CountryCode:  r.CountryCode,
		TimezoneName: r.TimezoneName,
	}
}

// DeleteItemRequest carries the id of the item to delete.
type DeleteItemRequest struct {
	ID idValue `json:"id" validate:"required"`
}

// idValue accepts a JSON number or string and keeps its text form;
// null decodes to "".
type idValue string

func (v *idValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = idValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = idValue(n.String())
	return nil
}
