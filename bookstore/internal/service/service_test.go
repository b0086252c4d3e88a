package service_test

import (
	"context"
	"testing"

	"github.com/Astemirdum/bookstore-service/bookstore/internal/errs"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/model"
	mock_repository "github.com/Astemirdum/bookstore-service/bookstore/internal/repository/mocks"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var spaceJam = model.Book{
	Isbn:      "111000333",
	AmazonURL: "amazon.com",
	Author:    "Daffy Duck",
	Language:  "English",
	Pages:     123,
	Publisher: "Looney Tunes",
	Title:     "Space Jam",
	Year:      1998,
}

type sent struct {
	topic string
	key   string
	event model.BookEvent
}

type recordingEnqueuer struct {
	sent []sent
	err  error
}

func (r *recordingEnqueuer) Enqueue(_ context.Context, topic, key string, v any) error {
	r.sent = append(r.sent, sent{topic: topic, key: key, event: v.(model.BookEvent)})
	return r.err
}

func TestService_Writes(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *mock_repository.MockRepository)

	tests := []struct {
		name         string
		mockBehavior mockBehavior
		call         func(s *service.Service) error
		enqueueErr   error
		wantErr      error
		wantEvent    model.EventType
	}{
		{
			name: "create publishes event",
			mockBehavior: func(r *mock_repository.MockRepository) {
				r.EXPECT().CreateBook(gomock.Any(), spaceJam).Return(spaceJam, nil)
			},
			call: func(s *service.Service) error {
				_, err := s.CreateBook(context.Background(), spaceJam)
				return err
			},
			wantEvent: model.EventCreated,
		},
		{
			name: "create conflict publishes nothing",
			mockBehavior: func(r *mock_repository.MockRepository) {
				r.EXPECT().CreateBook(gomock.Any(), spaceJam).Return(model.Book{}, errs.ErrConflict)
			},
			call: func(s *service.Service) error {
				_, err := s.CreateBook(context.Background(), spaceJam)
				return err
			},
			wantErr: errs.ErrConflict,
		},
		{
			name: "update publishes event",
			mockBehavior: func(r *mock_repository.MockRepository) {
				r.EXPECT().UpdateBook(gomock.Any(), spaceJam.Isbn, spaceJam).Return(spaceJam, nil)
			},
			call: func(s *service.Service) error {
				_, err := s.UpdateBook(context.Background(), spaceJam.Isbn, spaceJam)
				return err
			},
			wantEvent: model.EventUpdated,
		},
		{
			name: "update not found",
			mockBehavior: func(r *mock_repository.MockRepository) {
				r.EXPECT().UpdateBook(gomock.Any(), spaceJam.Isbn, spaceJam).Return(model.Book{}, errs.ErrNotFound)
			},
			call: func(s *service.Service) error {
				_, err := s.UpdateBook(context.Background(), spaceJam.Isbn, spaceJam)
				return err
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name: "delete publishes event",
			mockBehavior: func(r *mock_repository.MockRepository) {
				r.EXPECT().DeleteBook(gomock.Any(), spaceJam.Isbn).Return(nil)
			},
			call: func(s *service.Service) error {
				return s.DeleteBook(context.Background(), spaceJam.Isbn)
			},
			wantEvent: model.EventDeleted,
		},
		{
			name: "broker failure does not fail the write",
			mockBehavior: func(r *mock_repository.MockRepository) {
				r.EXPECT().DeleteBook(gomock.Any(), spaceJam.Isbn).Return(nil)
			},
			call: func(s *service.Service) error {
				return s.DeleteBook(context.Background(), spaceJam.Isbn)
			},
			enqueueErr: errors.New("broker down"),
			wantEvent:  model.EventDeleted,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()

			repo := mock_repository.NewMockRepository(c)
			tt.mockBehavior(repo)
			enq := &recordingEnqueuer{err: tt.enqueueErr}
			svc := service.NewService(repo, enq, "books", zap.NewExample())

			err := tt.call(svc)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Empty(t, enq.sent)
				return
			}
			require.NoError(t, err)
			require.Len(t, enq.sent, 1)
			got := enq.sent[0]
			require.Equal(t, "books", got.topic)
			require.Equal(t, spaceJam.Isbn, got.key)
			require.Equal(t, tt.wantEvent, got.event.Type)
			require.Equal(t, spaceJam.Isbn, got.event.Isbn)
			require.NotEmpty(t, got.event.ID)
			if tt.wantEvent == model.EventDeleted {
				require.Nil(t, got.event.Book)
			} else {
				require.Equal(t, spaceJam, *got.event.Book)
			}
		})
	}
}

func TestService_Reads(t *testing.T) {
	c := gomock.NewController(t)
	defer c.Finish()
	repo := mock_repository.NewMockRepository(c)
	repo.EXPECT().ListBooks(gomock.Any()).Return([]model.Book{spaceJam}, nil)
	repo.EXPECT().GetBook(gomock.Any(), "404").Return(model.Book{}, errs.ErrNotFound)

	enq := &recordingEnqueuer{}
	svc := service.NewService(repo, enq, "books", zap.NewExample())

	books, err := svc.ListBooks(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.Book{spaceJam}, books)

	_, err = svc.GetBook(context.Background(), "404")
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Empty(t, enq.sent)
}
