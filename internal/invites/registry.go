package invites

import (
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"survilav/entity"
	"survilav/internal/storage"
	"survilav/lib/clock"
	"survilav/lib/sl"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
)

// Registry owns the invite collection. It holds no state between
// calls: every operation re-loads from the store, and every mutation
// runs inside the store's exclusive section.
type Registry struct {
	store *storage.Store[entity.Invite]
	log   *slog.Logger
}

func New(store *storage.Store[entity.Invite], log *slog.Logger) *Registry {
	return &Registry{
		store: store,
		log:   log.With(sl.Module("invites")),
	}
}

// Create registers a new invite. An empty code is generated
// server-side; a collision with an existing code is surfaced as
// ErrDuplicateCode, not retried. MaxUses defaults to 1.
func (r *Registry) Create(form *entity.InviteForm) (*entity.Invite, error) {
	code := strings.TrimSpace(form.Code)
	if code == "" {
		code = generateCode()
	}

	maxUses := form.MaxUses
	if maxUses <= 0 {
		maxUses = 1
	}

	created := time.Now().UTC()
	invite := entity.Invite{
		Code:      code,
		Author:    form.Author,
		CreatedAt: clock.FromTime(created),
		MaxUses:   maxUses,
		UsedBy:    []entity.UsageRecord{},
		Note:      form.Note,
	}
	if form.TTLSeconds > 0 {
		invite.TTLSeconds = form.TTLSeconds
		invite.ExpiresAt = clock.FromTime(created.Add(time.Duration(form.TTLSeconds) * time.Second))
	}

	err := r.store.Update(func(records []entity.Invite) ([]entity.Invite, error) {
		for _, inv := range records {
			if inv.Code == code {
				return nil, entity.ErrDuplicateCode
			}
		}
		return append(records, invite), nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("invite created",
		sl.Code(invite.Code),
		slog.String("author", invite.Author),
		slog.Int("ttl", invite.TTLSeconds),
		slog.Int("max_uses", invite.MaxUses),
	)
	return &invite, nil
}

// Find locates an invite by exact code match.
func (r *Registry) Find(code string) (*entity.Invite, error) {
	records, _ := r.store.Load()
	for i := range records {
		if records[i].Code == code {
			return &records[i], nil
		}
	}
	return nil, entity.ErrInviteNotFound
}

// Validate checks that an invite exists, has not expired and has uses
// left. The returned invite is a snapshot; a concurrent consumer may
// still exhaust it before Consume runs.
func (r *Registry) Validate(code string) (*entity.Invite, error) {
	invite, err := r.Find(code)
	if err != nil {
		return nil, err
	}
	if invite.IsExpired() {
		return nil, entity.ErrInviteExpired
	}
	if invite.IsExhausted() {
		return nil, entity.ErrInviteExhausted
	}
	return invite, nil
}

// Consume appends a usage record to the invite. Expiry and exhaustion
// are re-checked against the persisted state inside the exclusive
// section, so of two racing consumers of a single-use invite exactly
// one wins.
func (r *Registry) Consume(code string, usage entity.UsageRecord) error {
	err := r.store.Update(func(records []entity.Invite) ([]entity.Invite, error) {
		for i := range records {
			if records[i].Code != code {
				continue
			}
			if records[i].IsExpired() {
				return nil, entity.ErrInviteExpired
			}
			if records[i].IsExhausted() {
				return nil, entity.ErrInviteExhausted
			}
			records[i].UsedBy = append(records[i].UsedBy, usage)
			return records, nil
		}
		return nil, entity.ErrInviteNotFound
	})
	if err != nil {
		return err
	}

	r.log.Info("invite consumed",
		sl.Code(code),
		slog.String("nickname", usage.Nickname),
		slog.String("identity", usage.ClientIdentity),
	)
	return nil
}

// Delete removes an invite by code.
func (r *Registry) Delete(code string) error {
	err := r.store.Update(func(records []entity.Invite) ([]entity.Invite, error) {
		kept := make([]entity.Invite, 0, len(records))
		for _, inv := range records {
			if inv.Code != code {
				kept = append(kept, inv)
			}
		}
		if len(kept) == len(records) {
			return nil, entity.ErrInviteNotFound
		}
		return kept, nil
	})
	if err != nil {
		return err
	}

	r.log.Info("invite deleted", sl.Code(code))
	return nil
}

// List returns summaries of all invites in storage order. Usage detail
// is included only when the caller is authorized to see it.
func (r *Registry) List(withDetail bool) ([]entity.InviteSummary, error) {
	records, _ := r.store.Load()
	summaries := make([]entity.InviteSummary, 0, len(records))
	for i := range records {
		summaries = append(summaries, records[i].Summary(withDetail))
	}
	return summaries, nil
}

func generateCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
