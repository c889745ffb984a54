package gateway

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// Store bundles the repositories of one tenant partition. The underlying DB
// handle is process scoped, shared across requests, and never mutated after
// construction.
type Store struct {
	DB       *bun.DB
	Accounts Accounts
	Dummies  Dummies
}

// NewStore wraps a tenant database handle with its repositories.
func NewStore(db *bun.DB) *Store {
	return &Store{
		DB:       db,
		Accounts: NewAccountsRepository(db),
		Dummies:  NewDummiesRepository(db),
	}
}

// TenantStores routes operations to the customer or company partition. It is
// the only component that knows there are two of them.
type TenantStores struct {
	customer *Store
	company  *Store
}

// NewTenantStores builds the router from the two tenant database handles.
func NewTenantStores(customer, company *bun.DB) *TenantStores {
	return NewTenantStoresWith(NewStore(customer), NewStore(company))
}

// NewTenantStoresWith builds the router from pre-assembled stores, useful
// when a caller swaps repositories for instrumented ones.
func NewTenantStoresWith(customer, company *Store) *TenantStores {
	return &TenantStores{
		customer: customer,
		company:  company,
	}
}

// ForType selects the store owning accounts of the given type.
func (t *TenantStores) ForType(accountType AccountType) *Store {
	if accountType == AccountTypeCompany {
		return t.company
	}
	return t.customer
}

// Customer returns the customer partition.
func (t *TenantStores) Customer() *Store { return t.customer }

// Company returns the company partition.
func (t *TenantStores) Company() *Store { return t.company }

// findByEmailBoth queries both partitions concurrently and waits for both.
// A missing record is not an error here; each result is nil when its store
// has no row. No lock spans the two stores, so callers doing check-then-act
// on the combined result are exposed to the documented uniqueness race.
func (t *TenantStores) findByEmailBoth(ctx context.Context, email string) (company, customer *Account, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		record, err := t.company.Accounts.FindByEmail(gctx, email)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil
			}
			return err
		}
		company = record
		return nil
	})

	g.Go(func() error {
		record, err := t.customer.Accounts.FindByEmail(gctx, email)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil
			}
			return err
		}
		customer = record
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, errors.Wrap(err, errors.CategoryInternal, "account lookup failed")
	}

	return company, customer, nil
}
