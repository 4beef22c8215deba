package client

import (
	"context"

	"github.com/dmitrijs2005/dsatracker/internal/client/models"
)

// LoginResponse is the backend's answer to a successful sign-in. The same
// credential is usually also set as an opaque cookie.
type LoginResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	Username string `json:"username"`
}

type Client interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	Register(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
	ListQuestions(ctx context.Context) ([]models.Question, error)
	AddQuestion(ctx context.Context, req models.QuestionRequest) (*models.Question, error)
	ReviseQuestion(ctx context.Context, id int64) (*models.Question, error)
	// NextQuestion returns nil when nothing is due.
	NextQuestion(ctx context.Context) (*models.Question, error)
	Stats(ctx context.Context) (*models.Stats, error)
}
