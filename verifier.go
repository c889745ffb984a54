package gateway

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// VerifyResult is the outcome of a successful code verification.
type VerifyResult struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// Verifier validates TOTP codes and performs the one-way verification flip
// for company accounts.
type Verifier struct {
	stores *TenantStores
	tokens TokenService
	totp   *TOTPProvider
	logger Logger
}

// NewVerifier returns a new Verifier
func NewVerifier(stores *TenantStores, tokens TokenService, totp *TOTPProvider) *Verifier {
	return &Verifier{
		stores: stores,
		tokens: tokens,
		totp:   totp,
		logger: defLogger{},
	}
}

func (v *Verifier) WithLogger(logger Logger) *Verifier {
	v.logger = logger
	return v
}

// VerifyCode checks the submitted code against the stored secret and, on
// first success, persists the verified state. Re-verifying an already
// verified account succeeds without touching state again. The caller
// session must be an authenticated company identity; the secret and current
// state are re-fetched from the store rather than trusted from the claims.
func (v *Verifier) VerifyCode(ctx context.Context, session *Session, code string) (*VerifyResult, error) {
	if session == nil || !session.Company() {
		return nil, ErrNotFound
	}

	id, err := uuid.Parse(session.AccountID)
	if err != nil {
		return nil, ErrNotFound
	}

	account, err := v.stores.Company().Accounts.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrNotFound
		}
		v.logger.Error("VerifyCode account fetch failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to fetch account")
	}

	if !v.totp.VerifyCode(account.TOTPSecret, code) {
		return nil, ErrInvalidCode
	}

	if account.Verification != VerificationVerified {
		if err := v.stores.Company().Accounts.MarkVerified(ctx, account.ID); err != nil {
			v.logger.Error("VerifyCode state flip failed", "error", err)
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist verification")
		}
	}

	token, err := v.tokens.Issue(account.ID.String(), AccountTypeCompany, true)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		ID:    account.ID.String(),
		Token: token,
	}, nil
}
