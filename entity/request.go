package entity

import (
	"net/http"

	"survilav/lib/validate"
)

// Request is a stored membership request. ClientIdentity is the
// deduplication key: one request per network origin. Records are never
// mutated after creation, only removed on cancellation.
type Request struct {
	Nickname       string `json:"nickname"`
	Invite         string `json:"invite"`
	About          string `json:"about"`
	Telegram       string `json:"telegram"`
	Email          string `json:"email"`
	Source         string `json:"source"`
	Expectations   string `json:"expectations"`
	Age            string `json:"age"`
	ClientIdentity string `json:"ip"`
	CreatedAt      string `json:"created_at"`
}

// SubmitForm is the inbound body for POST /api/request. Identity and
// timestamp are assigned server-side. The nickname-or-invite rule is
// cross-field and enforced by the core, not here.
type SubmitForm struct {
	Nickname     string `json:"nickname" validate:"omitempty,max=64"`
	Invite       string `json:"invite" validate:"omitempty,max=64"`
	About        string `json:"about" validate:"omitempty,max=3000"`
	Telegram     string `json:"telegram" validate:"omitempty,max=128"`
	Email        string `json:"email" validate:"omitempty,max=128"`
	Source       string `json:"source" validate:"omitempty,max=256"`
	Expectations string `json:"expectations" validate:"omitempty,max=3000"`
	Age          string `json:"age" validate:"omitempty,max=16"`
}

func (f *SubmitForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}

// Record builds the persisted request from the form.
func (f *SubmitForm) Record(identity, createdAt string) Request {
	return Request{
		Nickname:       f.Nickname,
		Invite:         f.Invite,
		About:          f.About,
		Telegram:       f.Telegram,
		Email:          f.Email,
		Source:         f.Source,
		Expectations:   f.Expectations,
		Age:            f.Age,
		ClientIdentity: identity,
		CreatedAt:      createdAt,
	}
}
