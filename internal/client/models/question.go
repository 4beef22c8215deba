// Package models defines the tracker's question types as the backend
// serialises them.
package models

import (
	"errors"
	"strings"
)

var (
	ErrInvalidNumber = errors.New("question number must be positive")
	ErrMissingName   = errors.New("question name is required")
)

// Question is a tracked problem with its revision history.
type Question struct {
	ID           int64     `json:"id"`
	Number       int       `json:"number"`
	Name         string    `json:"name"`
	Topics       []string  `json:"topics"`
	Link         string    `json:"link,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	DateAdded    Timestamp `json:"dateAdded"`
	AttemptCount int       `json:"attemptCount"`
	LastAttempt  Timestamp `json:"lastAttempt"`
	Position     int64     `json:"position"`
}

// QuestionRequest is the body of an add call.
type QuestionRequest struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Topics []string `json:"topics"`
	Link   string   `json:"link,omitempty"`
	Notes  string   `json:"notes,omitempty"`
}

// Validate mirrors the backend's constraints so obvious mistakes never
// leave the client.
func (r QuestionRequest) Validate() error {
	var errs []error
	if r.Number < 1 {
		errs = append(errs, ErrInvalidNumber)
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, ErrMissingName)
	}
	return errors.Join(errs...)
}

// ParseTopics splits a comma separated list, dropping blanks.
func ParseTopics(s string) []string {
	topics := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

type Stats struct {
	TotalQuestions    int64            `json:"totalQuestions"`
	AttemptsPerDay    map[string]int64 `json:"attemptsPerDay"`
	TopicDistribution map[string]int64 `json:"topicDistribution"`
}
