package gateway

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Type     string `json:"type" form:"type"`
	// UseHashid derives the account id deterministically from the email
	// instead of generating a random uuid.
	UseHashid bool `json:"-" form:"-"`
}

// Validate runs all rules and accumulates every failure in field order
// {email, password, type}. No rule short-circuits another field.
func (r RegisterInput) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Invalid email"),
			is.Email.Error("Invalid email"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password must be at least 6 characters"),
			validation.Length(6, 0).Error("Password must be at least 6 characters"),
		),
		validation.Field(&r.Type,
			validation.Required.Error("Invalid type"),
			validation.In(AccountTypeCustomer, AccountTypeCompany).Error("Invalid type"),
		),
	)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validation.Errors)
	if !ok {
		return errors.Wrap(err, errors.CategoryValidation, "registration validation failed")
	}

	list := ErrorList{}
	for _, field := range []struct {
		key  string
		code int
	}{
		{"email", WireCodeInvalidEmail},
		{"password", WireCodeInvalidPassword},
		{"type", WireCodeInvalidType},
	} {
		if ferr, found := fieldErrs[field.key]; found {
			list = append(list, APIError{Message: ferr.Error(), Code: field.code})
		}
	}

	if len(list) == 0 {
		return errors.Wrap(err, errors.CategoryValidation, "registration validation failed")
	}

	return list
}

// RegisterResult is the registration outcome. Token carries an unverified
// claim for companies; QRCode is only present for company accounts.
type RegisterResult struct {
	ID     string `json:"id"`
	Token  string `json:"token,omitempty"`
	QRCode string `json:"qrcode,omitempty"`
}

// Registry orchestrates account registration across the two tenant stores.
type Registry struct {
	stores *TenantStores
	tokens TokenService
	totp   *TOTPProvider
	logger Logger
}

// NewRegistry returns a new Registry
func NewRegistry(stores *TenantStores, tokens TokenService, totp *TOTPProvider) *Registry {
	return &Registry{
		stores: stores,
		tokens: tokens,
		totp:   totp,
		logger: defLogger{},
	}
}

func (r *Registry) WithLogger(logger Logger) *Registry {
	r.logger = logger
	return r
}

// Register validates the input, enforces cross-store email uniqueness, and
// provisions the account in the store its type routes to. Validation
// failures return the full ErrorList before any I/O happens. The dual
// existence check is concurrent and check-then-act: two racing
// registrations for the same email in different stores can both pass it.
func (r *Registry) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	accountType, _ := ParseAccountType(input.Type)

	inCompany, inCustomer, err := r.stores.findByEmailBoth(ctx, input.Email)
	if err != nil {
		r.logger.Error("Register existence check failed", "error", err)
		return nil, err
	}

	if inCompany != nil || inCustomer != nil {
		return nil, ErrEmailExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	account := &Account{
		Email:        input.Email,
		PasswordHash: hash,
		Type:         accountType,
	}

	if input.UseHashid {
		if id, err := hashid.NewUUID(input.Email); err == nil {
			account.ID = id
		}
	}

	var qr string
	if accountType == AccountTypeCompany {
		secret, otpauthURL, err := r.totp.GenerateSecret(input.Email)
		if err != nil {
			return nil, err
		}

		qr, err = SecretQRCode(otpauthURL)
		if err != nil {
			return nil, err
		}

		account.TOTPSecret = secret
		account.Verification = VerificationPending
	}

	created, err := r.stores.ForType(accountType).Accounts.Create(ctx, account)
	if err != nil {
		r.logger.Error("Register persist failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create account")
	}

	token, err := r.tokens.Issue(created.ID.String(), accountType, created.Verified())
	if err != nil {
		return nil, err
	}

	return &RegisterResult{
		ID:     created.ID.String(),
		Token:  token,
		QRCode: qr,
	}, nil
}
