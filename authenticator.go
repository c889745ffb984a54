package gateway

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r LoginInput) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Invalid email"),
			is.Email.Error("Invalid email"),
		),
	)
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validation.Errors); ok {
		if ferr, found := fieldErrs["email"]; found {
			return ErrorList{{Message: ferr.Error(), Code: WireCodeInvalidEmail}}
		}
	}

	return errors.Wrap(err, errors.CategoryValidation, "login validation failed")
}

// LoginResult exposes only public account fields. Hash, secret, type, and
// the verification flag never leave through this payload.
type LoginResult struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// Authenticator orchestrates password login across the two tenant stores.
type Authenticator struct {
	stores *TenantStores
	tokens TokenService
	totp   *TOTPProvider
	logger Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(stores *TenantStores, tokens TokenService, totp *TOTPProvider) *Authenticator {
	return &Authenticator{
		stores: stores,
		tokens: tokens,
		totp:   totp,
		logger: defLogger{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	a.logger = logger
	return a
}

// Login locates the account across both stores concurrently and verifies the
// password. Unknown email and wrong password are indistinguishable. A
// company account with pending verification gets the step-up error carrying
// a freshly rendered QR so enrollment can resume without re-registering.
func (a *Authenticator) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	inCompany, inCustomer, err := a.stores.findByEmailBoth(ctx, input.Email)
	if err != nil {
		a.logger.Error("Login account lookup failed", "error", err)
		return nil, err
	}

	// Uniqueness should make this exclusive; when the invariant was raced
	// the company record wins deterministically.
	account := inCompany
	if account == nil {
		account = inCustomer
	}

	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(input.Password, account.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if account.Type == AccountTypeCompany && !account.Verified() {
		return nil, a.stepUpRequired(account)
	}

	token, err := a.tokens.Issue(account.ID.String(), account.Type, account.Verified())
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		ID:    account.ID.String(),
		Token: token,
	}, nil
}

func (a *Authenticator) stepUpRequired(account *Account) error {
	stepUp := ErrAccountNotVerified

	qr, err := SecretQRCode(a.totp.KeyURL(account.TOTPSecret, account.Email))
	if err != nil {
		a.logger.Error("Login failed to re-render enrollment qr", "error", err)
		return stepUp
	}

	clone := stepUp.Clone()
	if clone == nil {
		return stepUp
	}

	return clone.WithMetadata(map[string]any{"qrcode": qr})
}
