package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	gateway "github.com/goliatone/go-gateway"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *testEnv) {
	t.Helper()

	env := newTestEnv(t)
	controller := gateway.NewHTTPController(env.Registry, env.Auth, env.Verifier, env.Resources, env.Tokens)

	app := fiber.New()
	controller.RegisterRoutes(app)

	return app, env
}

// errorsBody is the wire shape of every failed operation.
type errorsBody struct {
	Errors []gateway.APIError `json:"errors"`
	QRCode string             `json:"qrcode"`
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHTTPRegisterCustomer(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/register", map[string]string{
		"email":    "a@b.com",
		"password": "abcdef",
		"type":     "customer",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result gateway.RegisterResult
	decodeBody(t, resp, &result)
	assert.NotEmpty(t, result.ID)
	assert.NotEmpty(t, result.Token)
	assert.Empty(t, result.QRCode)
}

func TestHTTPRegisterValidationErrors(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/register", map[string]string{
		"email":    "not-an-email",
		"password": "short",
		"type":     "wizard",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorsBody
	decodeBody(t, resp, &body)
	require.Len(t, body.Errors, 3)
	assert.Equal(t, gateway.APIError{Message: "Invalid email", Code: 1}, body.Errors[0])
	assert.Equal(t, gateway.APIError{Message: "Password must be at least 6 characters", Code: 2}, body.Errors[1])
	assert.Equal(t, gateway.APIError{Message: "Invalid type", Code: 3}, body.Errors[2])
}

func TestHTTPRegisterDuplicateEmail(t *testing.T) {
	app, env := newTestApp(t)
	registerAccount(t, env, "a@b.com", "abcdef", gateway.AccountTypeCustomer)

	resp, err := app.Test(jsonRequest("POST", "/register", map[string]string{
		"email":    "a@b.com",
		"password": "abcdef",
		"type":     "company",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorsBody
	decodeBody(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, gateway.APIError{Message: "Email already exists", Code: 4}, body.Errors[0])
}

func TestHTTPLoginStepUpCarriesQRCode(t *testing.T) {
	app, env := newTestApp(t)
	registerAccount(t, env, "corp@b.com", "abcdef", gateway.AccountTypeCompany)

	resp, err := app.Test(jsonRequest("POST", "/login", map[string]string{
		"email":    "corp@b.com",
		"password": "abcdef",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorsBody
	decodeBody(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, gateway.APIError{Message: "Account not verified", Code: 6}, body.Errors[0])
	assert.NotEmpty(t, body.QRCode)
}

func TestHTTPLoginInvalidCredentials(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/login", map[string]string{
		"email":    "nobody@b.com",
		"password": "abcdef",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorsBody
	decodeBody(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, gateway.APIError{Message: "Invalid credentials", Code: 5}, body.Errors[0])
}

func TestHTTPVerifyFlow(t *testing.T) {
	app, env := newTestApp(t)
	created := registerAccount(t, env, "corp@b.com", "abcdef", gateway.AccountTypeCompany)

	account, err := env.Stores.Company().Accounts.FindByEmail(context.Background(), "corp@b.com")
	require.NoError(t, err)
	code, err := totp.GenerateCode(account.TOTPSecret, time.Now())
	require.NoError(t, err)

	req := jsonRequest("POST", "/verify", map[string]string{"code": code})
	req.Header.Set("Authorization", "Bearer "+created.Token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result gateway.VerifyResult
	decodeBody(t, resp, &result)
	assert.Equal(t, created.ID, result.ID)

	claims, err := env.Tokens.Validate(result.Token)
	require.NoError(t, err)
	assert.True(t, claims.Verified)
}

func TestHTTPVerifyWithoutIdentity(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name   string
		bearer string
	}{
		{"no token at all", ""},
		{"garbage token", "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest("POST", "/verify", map[string]string{"code": "123456"})
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)

			var body errorsBody
			decodeBody(t, resp, &body)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, gateway.APIError{Message: "Not Found", Code: 404}, body.Errors[0])
		})
	}
}

func TestHTTPDummyRoundtrip(t *testing.T) {
	app, env := newTestApp(t)
	created := registerAccount(t, env, "a@b.com", "abcdef", gateway.AccountTypeCustomer)

	req := jsonRequest("POST", "/dummy", map[string]string{"text": "hello world"})
	req.Header.Set("Authorization", "Bearer "+created.Token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var record gateway.Dummy
	decodeBody(t, resp, &record)
	assert.Equal(t, "hello world", record.Text)

	req = httptest.NewRequest("GET", fmt.Sprintf("/dummy/%s", record.ID), nil)
	req.Header.Set("Authorization", "Bearer "+created.Token)

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched gateway.Dummy
	decodeBody(t, resp, &fetched)
	assert.Equal(t, record.ID, fetched.ID)
	assert.Equal(t, "hello world", fetched.Text)
}

func TestHTTPDummyRequiresVerifiedCaller(t *testing.T) {
	app, env := newTestApp(t)
	company := registerAccount(t, env, "corp@b.com", "abcdef", gateway.AccountTypeCompany)

	tests := []struct {
		name   string
		bearer string
	}{
		{"anonymous", ""},
		{"rejected token", "ey.bogus.token"},
		{"unverified company token", company.Token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/dummy/0b84bfa6-32bf-4dbd-a9a4-5e1907b52c17", nil)
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body errorsBody
			decodeBody(t, resp, &body)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, gateway.APIError{Message: "UnAuthorized", Code: 401}, body.Errors[0])
		})
	}
}

func TestHTTPDummyUnknownIDIs404(t *testing.T) {
	app, env := newTestApp(t)
	created := registerAccount(t, env, "a@b.com", "abcdef", gateway.AccountTypeCustomer)

	req := httptest.NewRequest("GET", "/dummy/0b84bfa6-32bf-4dbd-a9a4-5e1907b52c17", nil)
	req.Header.Set("Authorization", "Bearer "+created.Token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body errorsBody
	decodeBody(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, gateway.APIError{Message: "Not Found", Code: 404}, body.Errors[0])
}
