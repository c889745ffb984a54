package gateway_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	gateway "github.com/goliatone/go-gateway"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const testSigningKey = "test-signing-key-large-enough-for-hs256"

var testDBSeq atomic.Int64

func newTestDB(t *testing.T, tenant string) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", tenant, testDBSeq.Add(1))
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	// keep the shared in-memory database alive for the test's lifetime
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range []any{(*gateway.Account)(nil), (*gateway.Dummy)(nil)} {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}

	return db
}

func newTestStores(t *testing.T) *gateway.TenantStores {
	t.Helper()
	return gateway.NewTenantStores(newTestDB(t, "customer"), newTestDB(t, "company"))
}

type testEnv struct {
	Stores    *gateway.TenantStores
	Tokens    gateway.TokenService
	TOTP      *gateway.TOTPProvider
	Registry  *gateway.Registry
	Auth      *gateway.Authenticator
	Verifier  *gateway.Verifier
	Resources *gateway.ResourceGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stores := newTestStores(t)
	tokens := gateway.NewTokenService([]byte(testSigningKey), 1, "go-gateway", nil)
	totp := gateway.NewTOTPProvider("api-gateway")

	return &testEnv{
		Stores:    stores,
		Tokens:    tokens,
		TOTP:      totp,
		Registry:  gateway.NewRegistry(stores, tokens, totp),
		Auth:      gateway.NewAuthenticator(stores, tokens, totp),
		Verifier:  gateway.NewVerifier(stores, tokens, totp),
		Resources: gateway.NewResourceGateway(stores),
	}
}

func registerAccount(t *testing.T, env *testEnv, email, password, accountType string) *gateway.RegisterResult {
	t.Helper()

	result, err := env.Registry.Register(context.Background(), gateway.RegisterInput{
		Email:    email,
		Password: password,
		Type:     accountType,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}
