package gateway

import (
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/goliatone/go-errors"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// TOTPProvider generates shared secrets and checks submitted codes against
// the server's current time window.
type TOTPProvider struct {
	issuer string
}

// NewTOTPProvider returns a provider labelling secrets with the given issuer.
func NewTOTPProvider(issuer string) *TOTPProvider {
	if issuer == "" {
		issuer = "api-gateway"
	}
	return &TOTPProvider{issuer: issuer}
}

// GenerateSecret provisions a fresh secret for the account and returns it
// with its otpauth enrollment URL.
func (p *TOTPProvider) GenerateSecret(account string) (secret, otpauthURL string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: account,
	})
	if err != nil {
		return "", "", errors.Wrap(err, errors.CategoryInternal, "failed to generate totp secret")
	}

	return key.Secret(), key.URL(), nil
}

// KeyURL rebuilds the otpauth enrollment URL for an already stored secret,
// used when a login needs to re-render the QR without regenerating anything.
func (p *TOTPProvider) KeyURL(secret, account string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", p.issuer)

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + p.issuer + ":" + account,
		RawQuery: v.Encode(),
	}

	return u.String()
}

// VerifyCode checks a submitted numeric code against the stored secret.
func (p *TOTPProvider) VerifyCode(secret, code string) bool {
	return totp.Validate(code, secret)
}

// SecretQRCode renders an otpauth URL as a scannable PNG data URL.
func SecretQRCode(otpauthURL string) (string, error) {
	png, err := qrcode.Encode(otpauthURL, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to render qr code")
	}

	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png)), nil
}
