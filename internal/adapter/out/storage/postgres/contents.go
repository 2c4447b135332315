package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookthreads/internal/model"
	"bookthreads/internal/service"
	"bookthreads/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

var contentColumns = []string{
	tableinfo.ContentIDColumn,
	tableinfo.ContentTitleColumn,
	tableinfo.ContentBodyColumn,
	tableinfo.ContentUserIDColumn,
	tableinfo.ContentCommentsEnabledColumn,
	tableinfo.ContentCreatedAtColumn,
}

type ContentStorage struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func NewContentStorage(db DB, getter *trmpgx.CtxGetter) *ContentStorage {
	return &ContentStorage{
		db:     db,
		getter: getter,
	}
}

func (s *ContentStorage) CreateContent(ctx context.Context, in model.Content) (model.Content, error) {
	var out model.Content

	query, args, err := sq.
		Insert(tableinfo.ContentsTableName).
		Columns(
			tableinfo.ContentTitleColumn,
			tableinfo.ContentBodyColumn,
			tableinfo.ContentUserIDColumn,
			tableinfo.ContentCommentsEnabledColumn,
		).
		Values(in.Title, in.Body, in.UserID, in.CommentsEnabled).
		Suffix("RETURNING " + strings.Join(contentColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := conn(ctx, s.getter, s.db).QueryRow(ctx, query, args...).Scan(
		&out.ID,
		&out.Title,
		&out.Body,
		&out.UserID,
		&out.CommentsEnabled,
		&out.CreatedAt,
	); err != nil {
		return out, fmt.Errorf("exec error creating content: %w", err)
	}

	return out, nil
}

func (s *ContentStorage) GetContentByID(ctx context.Context, contentID int64) (model.Content, error) {
	var out model.Content

	query, args, err := sq.
		Select(contentColumns...).
		From(tableinfo.ContentsTableName).
		Where(sq.Eq{tableinfo.ContentIDColumn: contentID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := conn(ctx, s.getter, s.db).QueryRow(ctx, query, args...).Scan(
		&out.ID,
		&out.Title,
		&out.Body,
		&out.UserID,
		&out.CommentsEnabled,
		&out.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, service.ErrNotFound
		}
		return out, fmt.Errorf("exec select content by id: %w", err)
	}

	return out, nil
}

func (s *ContentStorage) GetContentAuthorID(ctx context.Context, contentID int64) (int64, error) {
	query, args, err := sq.
		Select(tableinfo.ContentUserIDColumn).
		From(tableinfo.ContentsTableName).
		Where(sq.Eq{tableinfo.ContentIDColumn: contentID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var authorID int64
	if err := conn(ctx, s.getter, s.db).QueryRow(ctx, query, args...).Scan(&authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrNotFound
		}
		return 0, fmt.Errorf("exec select user_id: %w", err)
	}
	return authorID, nil
}

func (s *ContentStorage) SetCommentsEnabled(ctx context.Context, contentID int64, enabled bool) error {
	query, args, err := sq.
		Update(tableinfo.ContentsTableName).
		Set(tableinfo.ContentCommentsEnabledColumn, enabled).
		Where(sq.Eq{tableinfo.ContentIDColumn: contentID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tag, err := conn(ctx, s.getter, s.db).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec update comments_enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}
