package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dsatracker/internal/client/models"
)

var errSignedOut = errors.New(MsgPleaseSignIn)

func (a *App) requireSession() error {
	if !a.isLoggedIn() {
		return errSignedOut
	}
	return nil
}

func (a *App) List(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	qs, err := a.questions.List(ctx)
	if err != nil {
		return err
	}
	if len(qs) == 0 {
		a.println("No questions yet. Use 'add' to track one.")
		return nil
	}
	for _, q := range qs {
		a.println(formatQuestion(q))
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	numText, err := getSimpleText(a.reader, "Problem number", a.out)
	if err != nil {
		return err
	}
	number, err := strconv.Atoi(numText)
	if err != nil {
		return fmt.Errorf("problem number: %w", err)
	}
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	topics, err := getSimpleText(a.reader, "Topics (comma separated)", a.out)
	if err != nil {
		return err
	}
	link, err := getSimpleText(a.reader, "Link (optional)", a.out)
	if err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}

	q, err := a.questions.Add(ctx, models.QuestionRequest{
		Number: number,
		Name:   name,
		Topics: models.ParseTopics(topics),
		Link:   link,
		Notes:  notes,
	})
	if err != nil {
		return err
	}
	a.println("Added", formatQuestion(*q))
	return nil
}

func (a *App) Revise(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: revise <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("question id: %w", err)
	}

	q, err := a.questions.Revise(ctx, id)
	if err != nil {
		return err
	}
	a.println("Revised", formatQuestion(*q))
	return nil
}

func (a *App) Next(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	q, err := a.questions.Next(ctx)
	if err != nil {
		return err
	}
	if q == nil {
		a.println("Nothing to revise right now.")
		return nil
	}
	a.println("Next up:", formatQuestion(*q))
	if q.Link != "" {
		a.println("  ", q.Link)
	}
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	st, err := a.questions.Stats(ctx)
	if err != nil {
		return err
	}
	a.println("Total questions:", st.TotalQuestions)
	for _, line := range sortedCounts(st.TopicDistribution) {
		a.println("  ", line)
	}
	return nil
}

func formatQuestion(q models.Question) string {
	s := fmt.Sprintf("[%d] #%d %s", q.ID, q.Number, q.Name)
	if len(q.Topics) > 0 {
		s += " (" + strings.Join(q.Topics, ", ") + ")"
	}
	return s + fmt.Sprintf(" attempts=%d last=%s", q.AttemptCount, q.LastAttempt)
}

func sortedCounts(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %d", k, m[k]))
	}
	return lines
}
