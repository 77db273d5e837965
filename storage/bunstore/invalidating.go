package bunstore

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Invalidator drops cached query results carrying any of the given tags.
// querycache.Registry satisfies it.
type Invalidator interface {
	InvalidateTags(ctx context.Context, tags ...string) error
}

// Invalidating decorates a repository so that every successful write drops
// the cached queries depending on it. Reads pass through untouched; caching
// happens at the query level.
type Invalidating[T any] struct {
	base        repository.Repository[T]
	invalidator Invalidator
	tags        []string
	logger      *zap.Logger
}

var _ repository.Repository[any] = (*Invalidating[any])(nil)

// NewInvalidating wraps base. tags are invalidated after each write.
func NewInvalidating[T any](base repository.Repository[T], invalidator Invalidator, logger *zap.Logger, tags ...string) *Invalidating[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invalidating[T]{
		base:        base,
		invalidator: invalidator,
		tags:        tags,
		logger:      logger.Named("bunstore"),
	}
}

func (r *Invalidating[T]) Get(ctx context.Context, criteria ...repository.SelectCriteria) (T, error) {
	return r.base.Get(ctx, criteria...)
}

func (r *Invalidating[T]) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error) {
	return r.base.GetByID(ctx, id, criteria...)
}

func (r *Invalidating[T]) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error) {
	return r.base.List(ctx, criteria...)
}

func (r *Invalidating[T]) Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error) {
	return r.base.Count(ctx, criteria...)
}

func (r *Invalidating[T]) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (T, error) {
	return r.base.GetByIdentifier(ctx, identifier, criteria...)
}

func (r *Invalidating[T]) GetTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (T, error) {
	return r.base.GetTx(ctx, tx, criteria...)
}

func (r *Invalidating[T]) GetByIDTx(ctx context.Context, tx bun.IDB, id string, criteria ...repository.SelectCriteria) (T, error) {
	return r.base.GetByIDTx(ctx, tx, id, criteria...)
}

func (r *Invalidating[T]) ListTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) ([]T, int, error) {
	return r.base.ListTx(ctx, tx, criteria...)
}

func (r *Invalidating[T]) CountTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (int, error) {
	return r.base.CountTx(ctx, tx, criteria...)
}

func (r *Invalidating[T]) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (T, error) {
	return r.base.GetByIdentifierTx(ctx, tx, identifier, criteria...)
}

func (r *Invalidating[T]) Raw(ctx context.Context, sql string, args ...any) ([]T, error) {
	return r.base.Raw(ctx, sql, args...)
}

func (r *Invalidating[T]) RawTx(ctx context.Context, tx bun.IDB, sql string, args ...any) ([]T, error) {
	return r.base.RawTx(ctx, tx, sql, args...)
}

func (r *Invalidating[T]) Handlers() repository.ModelHandlers[T] {
	return r.base.Handlers()
}

func (r *Invalidating[T]) Create(ctx context.Context, record T, criteria ...repository.InsertCriteria) (T, error) {
	return written[T, T](ctx, r, "Create")(r.base.Create(ctx, record, criteria...))
}

func (r *Invalidating[T]) CreateTx(ctx context.Context, tx bun.IDB, record T, criteria ...repository.InsertCriteria) (T, error) {
	return written[T, T](ctx, r, "CreateTx")(r.base.CreateTx(ctx, tx, record, criteria...))
}

func (r *Invalidating[T]) CreateMany(ctx context.Context, records []T, criteria ...repository.InsertCriteria) ([]T, error) {
	return written[T, []T](ctx, r, "CreateMany")(r.base.CreateMany(ctx, records, criteria...))
}

func (r *Invalidating[T]) CreateManyTx(ctx context.Context, tx bun.IDB, records []T, criteria ...repository.InsertCriteria) ([]T, error) {
	return written[T, []T](ctx, r, "CreateManyTx")(r.base.CreateManyTx(ctx, tx, records, criteria...))
}

// GetOrCreate may insert, so it always invalidates on success.
func (r *Invalidating[T]) GetOrCreate(ctx context.Context, record T) (T, error) {
	return written[T, T](ctx, r, "GetOrCreate")(r.base.GetOrCreate(ctx, record))
}

func (r *Invalidating[T]) GetOrCreateTx(ctx context.Context, tx bun.IDB, record T) (T, error) {
	return written[T, T](ctx, r, "GetOrCreateTx")(r.base.GetOrCreateTx(ctx, tx, record))
}

func (r *Invalidating[T]) Update(ctx context.Context, record T, criteria ...repository.UpdateCriteria) (T, error) {
	return written[T, T](ctx, r, "Update")(r.base.Update(ctx, record, criteria...))
}

func (r *Invalidating[T]) UpdateTx(ctx context.Context, tx bun.IDB, record T, criteria ...repository.UpdateCriteria) (T, error) {
	return written[T, T](ctx, r, "UpdateTx")(r.base.UpdateTx(ctx, tx, record, criteria...))
}

func (r *Invalidating[T]) UpdateMany(ctx context.Context, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	return written[T, []T](ctx, r, "UpdateMany")(r.base.UpdateMany(ctx, records, criteria...))
}

func (r *Invalidating[T]) UpdateManyTx(ctx context.Context, tx bun.IDB, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	return written[T, []T](ctx, r, "UpdateManyTx")(r.base.UpdateManyTx(ctx, tx, records, criteria...))
}

func (r *Invalidating[T]) Upsert(ctx context.Context, record T, criteria ...repository.UpdateCriteria) (T, error) {
	return written[T, T](ctx, r, "Upsert")(r.base.Upsert(ctx, record, criteria...))
}

func (r *Invalidating[T]) UpsertTx(ctx context.Context, tx bun.IDB, record T, criteria ...repository.UpdateCriteria) (T, error) {
	return written[T, T](ctx, r, "UpsertTx")(r.base.UpsertTx(ctx, tx, record, criteria...))
}

func (r *Invalidating[T]) UpsertMany(ctx context.Context, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	return written[T, []T](ctx, r, "UpsertMany")(r.base.UpsertMany(ctx, records, criteria...))
}

func (r *Invalidating[T]) UpsertManyTx(ctx context.Context, tx bun.IDB, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	return written[T, []T](ctx, r, "UpsertManyTx")(r.base.UpsertManyTx(ctx, tx, records, criteria...))
}

func (r *Invalidating[T]) Delete(ctx context.Context, record T) error {
	return r.after(ctx, "Delete", r.base.Delete(ctx, record))
}

func (r *Invalidating[T]) DeleteTx(ctx context.Context, tx bun.IDB, record T) error {
	return r.after(ctx, "DeleteTx", r.base.DeleteTx(ctx, tx, record))
}

func (r *Invalidating[T]) DeleteMany(ctx context.Context, criteria ...repository.DeleteCriteria) error {
	return r.after(ctx, "DeleteMany", r.base.DeleteMany(ctx, criteria...))
}

func (r *Invalidating[T]) DeleteManyTx(ctx context.Context, tx bun.IDB, criteria ...repository.DeleteCriteria) error {
	return r.after(ctx, "DeleteManyTx", r.base.DeleteManyTx(ctx, tx, criteria...))
}

func (r *Invalidating[T]) DeleteWhere(ctx context.Context, criteria ...repository.DeleteCriteria) error {
	return r.after(ctx, "DeleteWhere", r.base.DeleteWhere(ctx, criteria...))
}

func (r *Invalidating[T]) DeleteWhereTx(ctx context.Context, tx bun.IDB, criteria ...repository.DeleteCriteria) error {
	return r.after(ctx, "DeleteWhereTx", r.base.DeleteWhereTx(ctx, tx, criteria...))
}

func (r *Invalidating[T]) ForceDelete(ctx context.Context, record T) error {
	return r.after(ctx, "ForceDelete", r.base.ForceDelete(ctx, record))
}

func (r *Invalidating[T]) ForceDeleteTx(ctx context.Context, tx bun.IDB, record T) error {
	return r.after(ctx, "ForceDeleteTx", r.base.ForceDeleteTx(ctx, tx, record))
}

// after invalidates when the write succeeded. Invalidation failures are
// logged; the write already happened and its result stands.
func (r *Invalidating[T]) after(ctx context.Context, op string, err error) error {
	if err != nil || r.invalidator == nil || len(r.tags) == 0 {
		return err
	}
	if ierr := r.invalidator.InvalidateTags(ctx, r.tags...); ierr != nil {
		r.logger.Warn("cache invalidation after write failed",
			zap.String("operation", op),
			zap.Strings("tags", r.tags),
			zap.Error(ierr),
		)
	}
	return nil
}

// written adapts after to writes returning a value.
func written[T, V any](ctx context.Context, r *Invalidating[T], op string) func(V, error) (V, error) {
	return func(v V, err error) (V, error) {
		return v, r.after(ctx, op, err)
	}
}
