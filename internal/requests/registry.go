package requests

import (
	"log/slog"

	"survilav/entity"
	"survilav/internal/storage"
	"survilav/lib/sl"
)

// Registry owns the membership request collection. Like the invite
// registry it keeps no state between calls; mutations run inside the
// store's exclusive section.
type Registry struct {
	store *storage.Store[entity.Request]
	log   *slog.Logger
}

func New(store *storage.Store[entity.Request], log *slog.Logger) *Registry {
	return &Registry{
		store: store,
		log:   log.With(sl.Module("requests")),
	}
}

// Create persists a request. The client identity is the sole
// deduplication key; a second request from the same identity is
// rejected inside the exclusive section.
func (r *Registry) Create(request entity.Request) error {
	err := r.store.Update(func(records []entity.Request) ([]entity.Request, error) {
		for _, rec := range records {
			if rec.ClientIdentity == request.ClientIdentity {
				return nil, entity.ErrDuplicateIdentity
			}
		}
		return append(records, request), nil
	})
	if err != nil {
		return err
	}

	r.log.Info("request saved",
		slog.String("nickname", request.Nickname),
		slog.String("identity", request.ClientIdentity),
	)
	return nil
}

// HasIdentity reports whether a request from the given identity is
// already stored.
func (r *Registry) HasIdentity(identity string) bool {
	records, _ := r.store.Load()
	for _, rec := range records {
		if rec.ClientIdentity == identity {
			return true
		}
	}
	return false
}

// Cancel removes the request with the given nickname.
func (r *Registry) Cancel(nickname string) error {
	err := r.store.Update(func(records []entity.Request) ([]entity.Request, error) {
		kept := make([]entity.Request, 0, len(records))
		for _, rec := range records {
			if rec.Nickname != nickname {
				kept = append(kept, rec)
			}
		}
		if len(kept) == len(records) {
			return nil, entity.ErrRequestNotFound
		}
		return kept, nil
	})
	if err != nil {
		return err
	}

	r.log.Info("request canceled", slog.String("nickname", nickname))
	return nil
}

// List returns all stored requests in storage order.
func (r *Registry) List() ([]entity.Request, error) {
	records, _ := r.store.Load()
	return records, nil
}
