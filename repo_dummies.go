package gateway

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Dummies is the per-store contract for the generic resource. There is no
// update or delete path.
type Dummies interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Dummy, error)
	Create(ctx context.Context, record *Dummy) (*Dummy, error)
}

type dummies struct {
	repository.Repository[*Dummy]
	db *bun.DB
}

var _ Dummies = (*dummies)(nil)

// NewDummiesRepository builds a Dummies repository bound to one tenant store
// handle.
func NewDummiesRepository(db *bun.DB) Dummies {
	repo := repository.NewRepository[*Dummy](db, repository.ModelHandlers[*Dummy]{
		NewRecord: func() *Dummy { return &Dummy{} },
		GetID: func(d *Dummy) uuid.UUID {
			if d == nil {
				return uuid.Nil
			}
			return d.ID
		},
		SetID: func(d *Dummy, id uuid.UUID) {
			if d != nil {
				d.ID = id
			}
		},
	})

	return &dummies{
		Repository: repo,
		db:         db,
	}
}

func (d *dummies) FindByID(ctx context.Context, id uuid.UUID) (*Dummy, error) {
	record := &Dummy{}
	err := d.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (d *dummies) Create(ctx context.Context, record *Dummy) (*Dummy, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return d.Repository.Create(ctx, record)
}
