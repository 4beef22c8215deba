package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/dsatracker/internal/client/client"
	"github.com/dmitrijs2005/dsatracker/internal/client/models"
)

// QuestionService is the authenticated traffic of the tracker. Rejections
// are handled by the request gateway, so errors here only need reporting.
type QuestionService interface {
	List(ctx context.Context) ([]models.Question, error)
	Add(ctx context.Context, req models.QuestionRequest) (*models.Question, error)
	Revise(ctx context.Context, id int64) (*models.Question, error)
	Next(ctx context.Context) (*models.Question, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

type questionService struct {
	client client.Client
}

func NewQuestionService(client client.Client) QuestionService {
	return &questionService{client: client}
}

// List returns questions ordered by their position in the revision queue.
func (s *questionService) List(ctx context.Context) ([]models.Question, error) {
	qs, err := s.client.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Position < qs[j].Position })
	return qs, nil
}

func (s *questionService) Add(ctx context.Context, req models.QuestionRequest) (*models.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	q, err := s.client.AddQuestion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("add question: %w", err)
	}
	return q, nil
}

func (s *questionService) Revise(ctx context.Context, id int64) (*models.Question, error) {
	q, err := s.client.ReviseQuestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("revise question %d: %w", id, err)
	}
	return q, nil
}

func (s *questionService) Next(ctx context.Context) (*models.Question, error) {
	q, err := s.client.NextQuestion(ctx)
	if err != nil {
		return nil, fmt.Errorf("next question: %w", err)
	}
	return q, nil
}

func (s *questionService) Stats(ctx context.Context) (*models.Stats, error) {
	st, err := s.client.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}
