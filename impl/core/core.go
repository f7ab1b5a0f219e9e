package core

import (
	"fmt"
	"log/slog"
	"strings"

	"survilav/entity"
	"survilav/internal/invites"
	"survilav/internal/requests"
	"survilav/lib/clock"
	"survilav/lib/sl"
)

const aboutMaxLength = 3000

// Notifier delivers out-of-band admin notifications. Optional.
type Notifier interface {
	Notify(msg string)
}

// Core orchestrates the two registries. The cross-entity submit flow
// consumes the invite first and persists the request second, as two
// independent exclusive sections; a crash between the two leaves a
// used invite without a request, which is accepted.
type Core struct {
	requests *requests.Registry
	invites  *invites.Registry
	adminKey string
	notifier Notifier
	log      *slog.Logger
}

func New(req *requests.Registry, inv *invites.Registry, adminKey string, log *slog.Logger) *Core {
	if req == nil || inv == nil {
		panic("core: registries are nil")
	}
	return &Core{
		requests: req,
		invites:  inv,
		adminKey: adminKey,
		log:      log.With(sl.Module("core")),
	}
}

func (c *Core) SetNotifier(n Notifier) {
	c.notifier = n
}

// AuthorizeAdmin compares the presented key against the configured
// one. An empty configured key authorizes nobody.
func (c *Core) AuthorizeAdmin(key string) bool {
	if c.adminKey == "" || key == "" {
		return false
	}
	return key == c.adminKey
}

// SubmitRequest validates, optionally consumes an invite, and persists
// the request. Every failure short-circuits with nothing written; the
// invite is consumed before the request record exists.
func (c *Core) SubmitRequest(form *entity.SubmitForm, identity string) error {
	nickname := strings.TrimSpace(form.Nickname)
	inviteCode := strings.TrimSpace(form.Invite)

	if nickname == "" && inviteCode == "" {
		return entity.Invalid("provide at least a nickname or an invite code")
	}
	if len(form.About) > aboutMaxLength {
		return entity.Invalid(fmt.Sprintf("about field too long (max %d characters)", aboutMaxLength))
	}

	if c.requests.HasIdentity(identity) {
		return entity.ErrDuplicateIdentity
	}

	if inviteCode != "" {
		if _, err := c.invites.Validate(inviteCode); err != nil {
			return err
		}
		usage := entity.UsageRecord{
			Nickname:       nickname,
			ClientIdentity: identity,
			ConsumedAt:     clock.Now(),
		}
		if err := c.invites.Consume(inviteCode, usage); err != nil {
			return err
		}
	}

	record := form.Record(identity, clock.Now())
	if err := c.requests.Create(record); err != nil {
		return err
	}

	c.notify(fmt.Sprintf("New membership request: %s (invite: %s)", nickname, inviteCode))
	return nil
}

func (c *Core) CancelRequest(nickname string) error {
	return c.requests.Cancel(nickname)
}

func (c *Core) ListRequests() ([]entity.Request, error) {
	return c.requests.List()
}

func (c *Core) CreateInvite(form *entity.InviteForm) (*entity.Invite, error) {
	invite, err := c.invites.Create(form)
	if err != nil {
		return nil, err
	}
	c.notify(fmt.Sprintf("Invite created: %s (max uses %d)", invite.Code, invite.MaxUses))
	return invite, nil
}

// ValidateInvite returns a redacted summary for the public validate
// endpoint.
func (c *Core) ValidateInvite(code string) (*entity.InviteSummary, error) {
	invite, err := c.invites.Validate(code)
	if err != nil {
		return nil, err
	}
	summary := invite.Summary(false)
	return &summary, nil
}

func (c *Core) DeleteInvite(code string) error {
	return c.invites.Delete(code)
}

func (c *Core) ListInvites() ([]entity.InviteSummary, error) {
	return c.invites.List(true)
}

// notify runs after all exclusive sections are released, so a slow
// delivery never blocks a store.
func (c *Core) notify(msg string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(msg)
}
