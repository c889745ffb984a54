package gateway

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the signed claim set: account id in the subject, the
// tenant the account belongs to, and the single authorization flag.
type SessionClaims struct {
	jwt.RegisteredClaims
	AccountType AccountType `json:"type"`
	Verified    bool        `json:"verified"`
}

// Session is the boundary-facing view of validated claims. It is ephemeral,
// never persisted, and the only caller identity the services accept.
type Session struct {
	AccountID   string
	AccountType AccountType
	Verified    bool
	ExpiresAt   time.Time
}

// Company reports whether the session belongs to a company account.
func (s *Session) Company() bool {
	return s != nil && s.AccountType == AccountTypeCompany
}

func sessionFromClaims(claims *SessionClaims) *Session {
	if claims == nil {
		return nil
	}

	session := &Session{
		AccountID:   claims.Subject,
		AccountType: claims.AccountType,
		Verified:    claims.Verified,
	}

	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session
}
