package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookthreads/internal/adapter/out/storage"
	"bookthreads/internal/model"
	"bookthreads/internal/service"
	"bookthreads/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

var commentColumns = []string{
	tableinfo.CommentIDColumn,
	tableinfo.CommentContentIDColumn,
	tableinfo.CommentParentIDColumn,
	tableinfo.CommentUserIDColumn,
	tableinfo.CommentBodyColumn,
	tableinfo.CommentScoreColumn,
	tableinfo.CommentCreatedAtColumn,
}

type CommentStorage struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func NewCommentStorage(db DB, getter *trmpgx.CtxGetter) *CommentStorage {
	return &CommentStorage{db: db, getter: getter}
}

func scanComment(row pgx.Row, c *model.Comment) error {
	return row.Scan(
		&c.ID,
		&c.ContentID,
		&c.ParentID,
		&c.UserID,
		&c.Body,
		&c.Score,
		&c.CreatedAt,
	)
}

func (s *CommentStorage) CreateComment(ctx context.Context, req service.CreateCommentRequest) (model.Comment, error) {
	var out model.Comment

	query, args, err := sq.
		Insert(tableinfo.CommentsTableName).
		Columns(
			tableinfo.CommentContentIDColumn,
			tableinfo.CommentParentIDColumn,
			tableinfo.CommentUserIDColumn,
			tableinfo.CommentBodyColumn,
		).
		Values(req.ContentID, req.ParentID, req.UserID, req.Text).
		Suffix("RETURNING " + strings.Join(commentColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := scanComment(conn(ctx, s.getter, s.db).QueryRow(ctx, query, args...), &out); err != nil {
		if pgErrCode(err) == foreignKeyViolation {
			return out, fmt.Errorf("insert comment: %w", service.ErrNotFound)
		}
		return out, fmt.Errorf("exec insert comment: %w", err)
	}

	return out, nil
}

func (s *CommentStorage) GetCommentByID(ctx context.Context, commentID int64) (model.Comment, error) {
	var out model.Comment

	query, args, err := sq.
		Select(commentColumns...).
		From(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentIDColumn: commentID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := scanComment(conn(ctx, s.getter, s.db).QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, service.ErrNotFound
		}
		return out, fmt.Errorf("exec select comment by id: %w", err)
	}

	return out, nil
}

func (s *CommentStorage) GetCommentsByContent(ctx context.Context, contentID int64, limit int) ([]model.Comment, error) {
	if limit <= 0 {
		limit = service.DefaultCommentsLimit
	}

	qb := sq.
		Select(commentColumns...).
		From(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentContentIDColumn: contentID}).
		OrderBy(
			tableinfo.CommentCreatedAtColumn+" ASC",
			tableinfo.CommentIDColumn+" ASC",
		).
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	return s.selectComments(ctx, qb, limit)
}

func (s *CommentStorage) GetCommentsByContentWithCursor(ctx context.Context, p storage.GetCommentsParams) ([]model.Comment, error) {
	if p.Limit <= 0 {
		p.Limit = service.DefaultCommentsLimit
	}
	return s.selectComments(ctx, getCommentsQueryBuilder(p), p.Limit)
}

// getCommentsQueryBuilder selects the page strictly after the cursor in
// (created_at, id) order.
func getCommentsQueryBuilder(p storage.GetCommentsParams) sq.SelectBuilder {
	return sq.
		Select(commentColumns...).
		From(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentContentIDColumn: p.ContentID}).
		Where(sq.Expr(
			fmt.Sprintf("(%s, %s) > (?, ?)", tableinfo.CommentCreatedAtColumn, tableinfo.CommentIDColumn),
			p.Cursor.CreatedAt, p.Cursor.ID,
		)).
		OrderBy(
			tableinfo.CommentCreatedAtColumn+" ASC",
			tableinfo.CommentIDColumn+" ASC",
		).
		Limit(uint64(p.Limit)).
		PlaceholderFormat(sq.Dollar)
}

func (s *CommentStorage) selectComments(ctx context.Context, qb sq.SelectBuilder, limit int) ([]model.Comment, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := conn(ctx, s.getter, s.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select comments: %w", err)
	}
	defer rows.Close()

	out := make([]model.Comment, 0, limit)
	for rows.Next() {
		var c model.Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return out, nil
}

func (s *CommentStorage) AddVote(ctx context.Context, vote model.Vote) error {
	query, args, err := sq.
		Insert(tableinfo.VotesTableName).
		Columns(
			tableinfo.VoteCommentIDColumn,
			tableinfo.VoteUserIDColumn,
			tableinfo.VoteDeltaColumn,
			tableinfo.VoteCreatedAtColumn,
		).
		Values(vote.CommentID, vote.UserID, vote.Delta, vote.CreatedAt).
		Suffix("ON CONFLICT DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tag, err := conn(ctx, s.getter, s.db).Exec(ctx, query, args...)
	if err != nil {
		switch pgErrCode(err) {
		case foreignKeyViolation:
			return service.ErrNotFound
		case uniqueViolation:
			return service.ErrConflict
		}
		return fmt.Errorf("exec insert vote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrConflict
	}
	return nil
}

func (s *CommentStorage) AddScore(ctx context.Context, commentID, delta int64) (int64, error) {
	query, args, err := sq.
		Update(tableinfo.CommentsTableName).
		Set(tableinfo.CommentScoreColumn, sq.Expr(tableinfo.CommentScoreColumn+" + ?", delta)).
		Where(sq.Eq{tableinfo.CommentIDColumn: commentID}).
		Suffix("RETURNING " + tableinfo.CommentScoreColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var score int64
	if err := conn(ctx, s.getter, s.db).QueryRow(ctx, query, args...).Scan(&score); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrNotFound
		}
		return 0, fmt.Errorf("exec update score: %w", err)
	}
	return score, nil
}

// DeleteCommentTree deletes the comment and all of its descendants. Votes go
// with them through the foreign key cascade.
func (s *CommentStorage) DeleteCommentTree(ctx context.Context, commentID int64) (int64, error) {
	subtree := fmt.Sprintf(
		"WITH RECURSIVE subtree AS ("+
			"SELECT %[1]s FROM %[2]s WHERE %[1]s = ? "+
			"UNION ALL "+
			"SELECT c.%[1]s FROM %[2]s c JOIN subtree t ON c.%[3]s = t.%[1]s)",
		tableinfo.CommentIDColumn,
		tableinfo.CommentsTableName,
		tableinfo.CommentParentIDColumn,
	)

	query, args, err := sq.
		Delete(tableinfo.CommentsTableName).
		Prefix(subtree, commentID).
		Where(tableinfo.CommentIDColumn + " IN (SELECT " + tableinfo.CommentIDColumn + " FROM subtree)").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tag, err := conn(ctx, s.getter, s.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec delete comment tree: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, service.ErrNotFound
	}
	return tag.RowsAffected(), nil
}
