package taskboard

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Tasks interface {
	repository.Repository[*Task]

	Create(ctx context.Context, record *Task, criteria ...repository.InsertCriteria) (*Task, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Task, criteria ...repository.InsertCriteria) (*Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Task, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*Task, error)
}

type tasks struct {
	repository.Repository[*Task]
	db *bun.DB
}

var (
	_ Tasks                        = (*tasks)(nil)
	_ repository.Repository[*Task] = (*tasks)(nil)
)

func NewTasksRepository(db *bun.DB) Tasks {
	repo := repository.NewRepository[*Task](db, repository.ModelHandlers[*Task]{
		NewRecord: func() *Task { return &Task{} },
		GetID: func(t *Task) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Task, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
	})

	return &tasks{
		Repository: repo,
		db:         db,
	}
}

func (r *tasks) Create(ctx context.Context, record *Task, criteria ...repository.InsertCriteria) (*Task, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *tasks) CreateTx(ctx context.Context, tx bun.IDB, record *Task, criteria ...repository.InsertCriteria) (*Task, error) {
	prepareTaskDefaults(record)
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *tasks) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	record := &Task{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

// ListByIDs resolves task references to full records preserving the order of
// ids. Ids that resolve to nothing (deleted tasks still linked from a user's
// list) are skipped.
func (r *tasks) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Task, error) {
	if len(ids) == 0 {
		return []*Task{}, nil
	}

	var records []*Task
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return []*Task{}, nil
		}
		return nil, err
	}

	byID := make(map[uuid.UUID]*Task, len(records))
	for _, t := range records {
		byID[t.ID] = t
	}

	ordered := make([]*Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}

	return ordered, nil
}

func (r *tasks) DeleteByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	record, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.NewDelete().
		Model(record).
		WherePK().
		Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func prepareTaskDefaults(record *Task) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Status == "" {
		record.Status = StatusPending
	}
}
