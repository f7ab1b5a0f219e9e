package cont

import (
	"context"
)

type ctxKey string

const IdentityKey ctxKey = "clientIdentity"

// PutIdentity stores the caller's resolved network identity for the
// duration of one request.
func PutIdentity(c context.Context, identity string) context.Context {
	return context.WithValue(c, IdentityKey, identity)
}

func GetIdentity(c context.Context) string {
	identity, ok := c.Value(IdentityKey).(string)
	if !ok {
		return "unknown"
	}
	return identity
}
