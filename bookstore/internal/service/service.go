package service

import (
	"context"
	"time"

	"github.com/Astemirdum/bookstore-service/bookstore/internal/model"
	bookRepo "github.com/Astemirdum/bookstore-service/bookstore/internal/repository"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/queue"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	log      *zap.Logger
	repo     bookRepo.Repository
	enqueuer queue.Enqueuer
	topic    string
	now      func() time.Time
}

func NewService(repo bookRepo.Repository, enqueuer queue.Enqueuer, topic string, log *zap.Logger) *Service {
	return &Service{
		log:      log.Named("service"),
		repo:     repo,
		enqueuer: enqueuer,
		topic:    topic,
		now:      time.Now,
	}
}

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) GetBook(ctx context.Context, isbn string) (model.Book, error) {
	return s.repo.GetBook(ctx, isbn)
}

func (s *Service) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	created, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return model.Book{}, err
	}
	s.publish(ctx, model.EventCreated, created.Isbn, &created)
	return created, nil
}

func (s *Service) UpdateBook(ctx context.Context, isbn string, book model.Book) (model.Book, error) {
	updated, err := s.repo.UpdateBook(ctx, isbn, book)
	if err != nil {
		return model.Book{}, err
	}
	s.publish(ctx, model.EventUpdated, updated.Isbn, &updated)
	return updated, nil
}

func (s *Service) DeleteBook(ctx context.Context, isbn string) error {
	if err := s.repo.DeleteBook(ctx, isbn); err != nil {
		return err
	}
	s.publish(ctx, model.EventDeleted, isbn, nil)
	return nil
}

// publish never fails the request, the row is already committed.
func (s *Service) publish(ctx context.Context, typ model.EventType, isbn string, book *model.Book) {
	event := model.BookEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		Isbn:       isbn,
		Book:       book,
		OccurredAt: s.now().UTC(),
	}
	if err := s.enqueuer.Enqueue(ctx, s.topic, isbn, event); err != nil {
		s.log.Warn("publish book event",
			zap.String("type", string(typ)),
			zap.String("isbn", isbn),
			zap.Error(err))
	}
}
