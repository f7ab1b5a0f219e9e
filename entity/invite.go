package entity

import (
	"net/http"
	"time"

	"survilav/lib/clock"
	"survilav/lib/validate"
)

// Invite gates request admission with a unique code, an optional expiry
// and a usage cap. ExpiresAt is fixed at creation from TTLSeconds and
// never recomputed. The only mutation after creation is appending to
// UsedBy; len(UsedBy) <= MaxUses holds at all times.
type Invite struct {
	Code       string        `json:"code" validate:"required"`
	Author     string        `json:"author"`
	CreatedAt  string        `json:"created_at"`
	TTLSeconds int           `json:"ttl_seconds,omitempty"`
	ExpiresAt  string        `json:"expires_at,omitempty"`
	MaxUses    int           `json:"max_uses"`
	UsedBy     []UsageRecord `json:"used_by"`
	Note       string        `json:"note"`
}

// UsageRecord marks one consumption of an invite. Append-only,
// immutable once written.
type UsageRecord struct {
	Nickname       string `json:"nickname"`
	ClientIdentity string `json:"ip"`
	ConsumedAt     string `json:"created_at"`
}

// IsExpired reports whether the invite's expiry has passed. An absent
// or unparseable ExpiresAt counts as not expired.
func (i *Invite) IsExpired() bool {
	if i.ExpiresAt == "" {
		return false
	}
	expires, err := clock.Parse(i.ExpiresAt)
	if err != nil {
		return false
	}
	return time.Now().UTC().After(expires)
}

func (i *Invite) Uses() int {
	return len(i.UsedBy)
}

func (i *Invite) IsExhausted() bool {
	return i.Uses() >= i.MaxUses
}

// Summary flattens the invite for list and validate responses.
// Usage detail is included only for admin callers.
func (i *Invite) Summary(withDetail bool) InviteSummary {
	s := InviteSummary{
		Code:      i.Code,
		Author:    i.Author,
		CreatedAt: i.CreatedAt,
		ExpiresAt: i.ExpiresAt,
		MaxUses:   i.MaxUses,
		Uses:      i.Uses(),
		Note:      i.Note,
	}
	if withDetail {
		s.UsedBy = i.UsedBy
	}
	return s
}

type InviteSummary struct {
	Code      string        `json:"code"`
	Author    string        `json:"author"`
	CreatedAt string        `json:"created_at"`
	ExpiresAt string        `json:"expires_at,omitempty"`
	MaxUses   int           `json:"max_uses"`
	Uses      int           `json:"uses"`
	Note      string        `json:"note"`
	UsedBy    []UsageRecord `json:"used_by,omitempty"`
}

// InviteForm is the inbound body for POST /api/invite/create. An empty
// code requests server-side generation; a zero MaxUses defaults to 1.
type InviteForm struct {
	Code       string `json:"code" validate:"omitempty,max=64"`
	TTLSeconds int    `json:"ttl_seconds" validate:"omitempty,min=1"`
	Author     string `json:"author" validate:"omitempty,max=128"`
	MaxUses    int    `json:"max_uses" validate:"omitempty,min=1"`
	Note       string `json:"note" validate:"omitempty,max=1024"`
}

func (f *InviteForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}
