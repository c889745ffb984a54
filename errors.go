package gateway

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidEmail       = "gateway_invalid_email"
	TextCodeInvalidPassword    = "gateway_invalid_password"
	TextCodeInvalidType        = "gateway_invalid_type"
	TextCodeEmailExists        = "gateway_email_exists"
	TextCodeInvalidCredentials = "gateway_invalid_credentials"
	TextCodeAccountNotVerified = "gateway_account_not_verified"
	TextCodeInvalidCode        = "gateway_invalid_code"
	TextCodeNotFound           = "gateway_not_found"
	TextCodeUnauthorized       = "gateway_unauthorized"
	TextCodeResourceNotFound   = "gateway_resource_not_found"
	TextCodeResourceCreateFail = "gateway_resource_create_failed"
	TextCodeTokenExpired       = "gateway_token_expired"
	TextCodeTokenMalformed     = "gateway_token_malformed"
)

// Wire codes carried on the errors payload. 1-3 are validation codes in
// field order {email, password, type}; 401/404/500 classes keep their HTTP
// numbers on the wire.
const (
	WireCodeInvalidEmail       = 1
	WireCodeInvalidPassword    = 2
	WireCodeInvalidType        = 3
	WireCodeEmailExists        = 4
	WireCodeInvalidCredentials = 5
	WireCodeNotVerified        = 6
	WireCodeInvalidCode        = 8
	WireCodeUnauthorized       = 401
	WireCodeNotFound           = 404
	WireCodeCreateFailed       = 500
)

// ErrEmailExists is returned when an account with the email exists in either store.
var ErrEmailExists = errors.New("Email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailExists).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials covers both unknown email and password mismatch,
// deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotVerified is the step-up signal: credentials were valid but the
// company second factor is still pending. Clones carry the re-rendered QR
// image in metadata under "qrcode".
var ErrAccountNotVerified = errors.New("Account not verified", errors.CategoryAuth).
	WithTextCode(TextCodeAccountNotVerified).
	WithCode(errors.CodeForbidden)

// ErrInvalidCode is returned for a TOTP code that fails verification.
var ErrInvalidCode = errors.New("Invalid code", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidCode).
	WithCode(errors.CodeBadRequest)

// ErrNotFound is the verification-service rejection for a missing or
// non-company caller identity.
var ErrNotFound = errors.New("Not Found", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrUnauthorized gates the resource operations on the verified claim.
var ErrUnauthorized = errors.New("UnAuthorized", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(errors.CodeUnauthorized)

// ErrResourceNotFound is returned when the caller's tenant store has no
// matching row.
var ErrResourceNotFound = errors.New("Not Found", errors.CategoryNotFound).
	WithTextCode(TextCodeResourceNotFound).
	WithCode(errors.CodeNotFound)

// ErrResourceCreateFailed is a store-level insert failure. Kept distinct from
// ErrResourceNotFound on purpose.
var ErrResourceCreateFailed = errors.New("could not create resource", errors.CategoryInternal).
	WithTextCode(TextCodeResourceCreateFail).
	WithCode(errors.CodeInternal)

// ErrTokenExpired is returned for tokens past their expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail parsing or signature checks.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty input to the password hasher.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput)

// ErrMismatchedHashAndPassword is the bcrypt comparison failure.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth)

var wireCodes = map[string]int{
	TextCodeInvalidEmail:       WireCodeInvalidEmail,
	TextCodeInvalidPassword:    WireCodeInvalidPassword,
	TextCodeInvalidType:        WireCodeInvalidType,
	TextCodeEmailExists:        WireCodeEmailExists,
	TextCodeInvalidCredentials: WireCodeInvalidCredentials,
	TextCodeAccountNotVerified: WireCodeNotVerified,
	TextCodeInvalidCode:        WireCodeInvalidCode,
	TextCodeNotFound:           WireCodeNotFound,
	TextCodeUnauthorized:       WireCodeUnauthorized,
	TextCodeResourceNotFound:   WireCodeNotFound,
	TextCodeResourceCreateFail: WireCodeCreateFailed,
	TextCodeTokenExpired:       WireCodeUnauthorized,
	TextCodeTokenMalformed:     WireCodeUnauthorized,
}

// APIError is the wire shape every operation failure reduces to.
type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ErrorList is a non-empty accumulation of APIErrors. It implements error so
// validation can return the full set of failures in one value.
type ErrorList []APIError

func (e ErrorList) Error() string {
	msgs := make([]string, 0, len(e))
	for _, item := range e {
		msgs = append(msgs, item.Message)
	}
	return strings.Join(msgs, "; ")
}

// WireCode resolves the numeric wire code for a rich error, 500 when unknown.
func WireCode(err error) int {
	var rich *errors.Error
	if errors.As(err, &rich) {
		if code, ok := wireCodes[rich.TextCode]; ok {
			return code
		}
	}
	return WireCodeCreateFailed
}

// AsErrorList converts any error into the wire errors payload.
func AsErrorList(err error) ErrorList {
	if err == nil {
		return nil
	}

	var list ErrorList
	if errors.As(err, &list) {
		return list
	}

	var rich *errors.Error
	if errors.As(err, &rich) {
		return ErrorList{{Message: rich.Message, Code: WireCode(rich)}}
	}

	return ErrorList{{Message: "internal error", Code: WireCodeCreateFailed}}
}

// ErrorMetadata extracts a string metadata value from a rich error, used by
// the boundary to surface the step-up QR image.
func ErrorMetadata(err error, key string) (string, bool) {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return "", false
	}
	if rich.Metadata == nil {
		return "", false
	}
	val, ok := rich.Metadata[key].(string)
	return val, ok
}
