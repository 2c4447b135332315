package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookthreads/internal/adapter/out/storage/postgres/mocks"
	"bookthreads/internal/model"
	"bookthreads/internal/service"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestContentStorage_CreateContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockDB(ctrl)
	now := time.Now()

	m.EXPECT().
		QueryRow(gomock.Any(), gomock.Any(), "War and Peace", "vol. 1", int64(7), true).
		Return(fakeRow{
			scan: func(dest ...any) error {
				*(dest[0].(*int64)) = 1
				*(dest[1].(*string)) = "War and Peace"
				*(dest[2].(*string)) = "vol. 1"
				*(dest[3].(*int64)) = 7
				*(dest[4].(*bool)) = true
				*(dest[5].(*time.Time)) = now
				return nil
			},
		})

	st := NewContentStorage(m, trmpgx.DefaultCtxGetter)
	out, err := st.CreateContent(context.Background(), model.Content{
		Title: "War and Peace", Body: "vol. 1", UserID: 7, CommentsEnabled: true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), out.ID)
	require.True(t, out.CommentsEnabled)
	require.Equal(t, now, out.CreatedAt)
}

func TestContentStorage_GetContentByID(t *testing.T) {
	tests := []struct {
		name    string
		scanErr error
		wantErr error
	}{
		{name: "success"},
		{name: "not found", scanErr: pgx.ErrNoRows, wantErr: service.ErrNotFound},
		{name: "db error", scanErr: errors.New("db down"), wantErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks.NewMockDB(ctrl)
			m.EXPECT().
				QueryRow(gomock.Any(), gomock.Any(), int64(3)).
				Return(fakeRow{scan: func(dest ...any) error {
					if tt.scanErr != nil {
						return tt.scanErr
					}
					*(dest[0].(*int64)) = 3
					*(dest[1].(*string)) = "t"
					return nil
				}})

			st := NewContentStorage(m, trmpgx.DefaultCtxGetter)
			got, err := st.GetContentByID(context.Background(), 3)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				require.Equal(t, int64(3), got.ID)
			case errors.Is(tt.wantErr, service.ErrNotFound):
				require.ErrorIs(t, err, service.ErrNotFound)
			default:
				require.ErrorContains(t, err, "exec select content by id")
			}
		})
	}
}

func TestContentStorage_GetContentAuthorID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockDB(ctrl)
	m.EXPECT().
		QueryRow(gomock.Any(), gomock.Any(), int64(3)).
		Return(fakeRow{scan: func(dest ...any) error {
			*(dest[0].(*int64)) = 42
			return nil
		}})
	m.EXPECT().
		QueryRow(gomock.Any(), gomock.Any(), int64(4)).
		Return(fakeRow{scan: func(dest ...any) error { return pgx.ErrNoRows }})

	st := NewContentStorage(m, trmpgx.DefaultCtxGetter)

	id, err := st.GetContentAuthorID(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	_, err = st.GetContentAuthorID(context.Background(), 4)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestContentStorage_SetCommentsEnabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockDB(ctrl)
	m.EXPECT().
		Exec(gomock.Any(), gomock.Any(), false, int64(3)).
		Return(pgconn.NewCommandTag("UPDATE 1"), nil)
	m.EXPECT().
		Exec(gomock.Any(), gomock.Any(), false, int64(4)).
		Return(pgconn.NewCommandTag("UPDATE 0"), nil)

	st := NewContentStorage(m, trmpgx.DefaultCtxGetter)
	require.NoError(t, st.SetCommentsEnabled(context.Background(), 3, false))
	require.ErrorIs(t, st.SetCommentsEnabled(context.Background(), 4, false), service.ErrNotFound)
}
