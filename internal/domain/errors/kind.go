package errors

import "groovesync/internal/errors"

// Kind is the error taxonomy shared by every layer.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindExpiredToken   Kind = "expired_token"
	KindInvalidToken   Kind = "invalid_token"
	KindConflict       Kind = "conflict"
	KindNotFound       Kind = "not_found"
	KindUpstream       Kind = "upstream"
	KindForbidden      Kind = "forbidden"
	KindRateLimited    Kind = "rate_limited"
	KindInternal       Kind = "internal"
)

type kinded interface {
	Kind() Kind
}

// KindOf classifies err by the first typed error found in its chain.
// Anything without a kind is internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}

	return KindInternal
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
