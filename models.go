package gateway

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountType selects the tenant store an account lives in.
type AccountType = string

const (
	// AccountTypeCustomer is a customer account, no second factor
	AccountTypeCustomer AccountType = "customer"
	// AccountTypeCompany is a company account, TOTP second factor required
	AccountTypeCompany AccountType = "company"
)

// ParseAccountType validates a raw account type string
func ParseAccountType(s string) (AccountType, bool) {
	switch s {
	case AccountTypeCustomer, AccountTypeCompany:
		return s, true
	}
	return "", false
}

// VerificationState tracks the company second-factor enrollment. Customer
// accounts stay at VerificationNone; the absence of 2FA state is a type-level
// fact, not a nullable boolean.
type VerificationState = string

const (
	// VerificationNone means the account type carries no 2FA state
	VerificationNone VerificationState = ""
	// VerificationPending means the secret exists but no valid code was seen
	VerificationPending VerificationState = "pending"
	// VerificationVerified is terminal, it never reverts
	VerificationVerified VerificationState = "verified"
)

// Account is the per-tenant account model. Exactly one store owns a given
// record; the email column is unique within its store only.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID         `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string            `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string            `bun:"password_hash,notnull" json:"-"`
	Type          AccountType       `bun:"account_type,notnull" json:"account_type,omitempty"`
	TOTPSecret    string            `bun:"totp_secret" json:"-"`
	Verification  VerificationState `bun:"verification" json:"-"`
	CreatedAt     *time.Time        `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time        `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Verified reports the authorization flag the account contributes to its
// session claims: customers are always verified, companies only after the
// TOTP flip.
func (a *Account) Verified() bool {
	if a.Type == AccountTypeCompany {
		return a.Verification == VerificationVerified
	}
	return true
}

// Dummy is the generic tenant-routed resource.
type Dummy struct {
	bun.BaseModel `bun:"table:dummies,alias:dum"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Text          string    `bun:"text,notnull" json:"text"`
}
