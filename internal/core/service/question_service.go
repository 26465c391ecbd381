package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

type questionService struct {
	questions ports.QuestionRepository
	products  ports.ProductRepository
	log       zerolog.Logger
}

// NewQuestionService returns a QuestionService implementation.
func NewQuestionService(questions ports.QuestionRepository, products ports.ProductRepository, log zerolog.Logger) ports.QuestionService {
	return &questionService{questions: questions, products: products, log: log}
}

func (s *questionService) ListByProduct(ctx context.Context, productID string) ([]*domain.Question, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.questions.ListByProduct(ctx, productID)
}

func (s *questionService) ListByUser(ctx context.Context, userID string) ([]*domain.Question, error) {
	return s.questions.ListByUser(ctx, userID)
}

func (s *questionService) Ask(ctx context.Context, userID, productID, text string) (*domain.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	q, err := s.questions.Create(ctx, &domain.Question{
		ProductID: productID,
		UserID:    userID,
		Question:  text,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.log.Info().Str("question_id", q.ID).Str("product_id", productID).Msg("question created")
	return q, nil
}

func (s *questionService) ListUnanswered(ctx context.Context) ([]*domain.Question, error) {
	return s.questions.ListUnanswered(ctx)
}

func (s *questionService) Answer(ctx context.Context, questionID, adminID, text string) (*domain.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyAnswer
	}
	q, err := s.questions.Answer(ctx, questionID, text, adminID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("question_id", questionID).Str("admin_id", adminID).Msg("question answered")
	return q, nil
}
