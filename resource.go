package gateway

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ResourceGateway is the authorization-gated access path to the dummy
// resource. The tenant store is selected solely from the caller's session
// claim, never from client input.
type ResourceGateway struct {
	stores *TenantStores
	logger Logger
}

// NewResourceGateway returns a new ResourceGateway
func NewResourceGateway(stores *TenantStores) *ResourceGateway {
	return &ResourceGateway{
		stores: stores,
		logger: defLogger{},
	}
}

func (g *ResourceGateway) WithLogger(logger Logger) *ResourceGateway {
	g.logger = logger
	return g
}

// GetDummy fetches a row from the caller's tenant store. A missing or
// unverified session fails before any I/O. A row that only exists in the
// other tenant's store is a plain not-found, it never leaks.
func (g *ResourceGateway) GetDummy(ctx context.Context, session *Session, id string) (*Dummy, error) {
	if session == nil || !session.Verified {
		return nil, ErrUnauthorized
	}

	rowID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrResourceNotFound
	}

	record, err := g.stores.ForType(session.AccountType).Dummies.FindByID(ctx, rowID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrResourceNotFound
		}
		g.logger.Error("GetDummy fetch failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to fetch resource")
	}

	return record, nil
}

// InsertDummy creates a row in the caller's tenant store and returns it.
// A store-level failure is its own error, not a not-found.
func (g *ResourceGateway) InsertDummy(ctx context.Context, session *Session, text string) (*Dummy, error) {
	if session == nil || !session.Verified {
		return nil, ErrUnauthorized
	}

	record, err := g.stores.ForType(session.AccountType).Dummies.Create(ctx, &Dummy{Text: text})
	if err != nil {
		g.logger.Error("InsertDummy persist failed", "error", err)
		return nil, ErrResourceCreateFailed
	}

	return record, nil
}
