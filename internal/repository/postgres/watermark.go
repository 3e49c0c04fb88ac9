package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/pr-dashboard/internal/apperrors"
	"github.com/YusovID/pr-dashboard/internal/domain"
	"github.com/YusovID/pr-dashboard/internal/repository"
	"github.com/jmoiron/sqlx"
)

const watermarksTable = "sync_watermarks"

// WatermarkRepository keeps one sync timestamp per repository and listing scope.
// Values are stored verbatim; parsing is left to the caller.
type WatermarkRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

var _ repository.WatermarkRepository = (*WatermarkRepository)(nil)

func NewWatermarkRepository(db *sqlx.DB, log *slog.Logger) *WatermarkRepository {
	return &WatermarkRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (wr *WatermarkRepository) Read(ctx context.Context, key domain.WatermarkKey) (string, error) {
	const op = "internal.repository.postgres.Read"

	log := wr.log.With(
		slog.String("op", op),
		slog.String("repo", key.Repo.String()),
		slog.String("scope", string(key.Scope)),
	)

	query, args, err := wr.sq.Select("synced_at").
		From(watermarksTable).
		Where(sq.Eq{"owner": key.Repo.Owner}).
		Where(sq.Eq{"repo": key.Repo.Repo}).
		Where(sq.Eq{"scope": string(key.Scope)}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%s: failed to build select watermark query: %w", op, err)
	}

	var value string
	if err := wr.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: watermark for '%s' (%s)", apperrors.ErrNotFound, key.Repo, key.Scope)
		}

		return "", fmt.Errorf("%s: failed to select watermark: %w", op, err)
	}

	log.Debug("watermark read", slog.String("synced_at", value))

	return value, nil
}

func (wr *WatermarkRepository) Write(ctx context.Context, key domain.WatermarkKey, value string) error {
	const op = "internal.repository.postgres.Write"

	query, args, err := wr.sq.Insert(watermarksTable).
		Columns("owner", "repo", "scope", "synced_at").
		Values(key.Repo.Owner, key.Repo.Repo, string(key.Scope), value).
		Suffix("ON CONFLICT (owner, repo, scope) DO UPDATE SET synced_at = EXCLUDED.synced_at, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build upsert watermark query: %w", op, err)
	}

	if _, err := wr.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to upsert watermark: %w", op, err)
	}

	wr.log.Debug("watermark written",
		slog.String("op", op),
		slog.String("repo", key.Repo.String()),
		slog.String("scope", string(key.Scope)),
		slog.String("synced_at", value),
	)

	return nil
}

// List returns every stored watermark ordered by repository and scope.
func (wr *WatermarkRepository) List(ctx context.Context) ([]domain.Watermark, error) {
	const op = "internal.repository.postgres.List"

	query, args, err := wr.sq.Select("owner", "repo", "scope", "synced_at").
		From(watermarksTable).
		OrderBy("owner", "repo", "scope").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build list watermarks query: %w", op, err)
	}

	watermarks := make([]domain.Watermark, 0)
	if err := wr.db.SelectContext(ctx, &watermarks, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to list watermarks: %w", op, err)
	}

	return watermarks, nil
}
