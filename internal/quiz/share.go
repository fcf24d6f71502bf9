package quiz

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/levibo0306/mentora/internal/question"
)

// ShareStore persists share tokens. GetShareByToken returns ErrShareNotFound for unknown tokens.
type ShareStore interface {
	CreateShare(ctx context.Context, share Share) (Share, error)
	GetShareByToken(ctx context.Context, token string) (Share, error)
	FindUsersByEmail(ctx context.Context, emails []string) ([]Recipient, error)
}

// Notifier delivers share links to recipients.
type Notifier interface {
	SendShareInvitation(ctx context.Context, toEmail, quizTitle, token string) error
}

// NewShareToken returns a 16 character url-safe random token.
func NewShareToken() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Share creates share tokens for a quiz. Owners may always share; others need a
// source token for the same quiz that allows resharing.
func (s *Service) Share(ctx context.Context, quizID, userID uuid.UUID, req ShareRequest) ([]ShareToken, error) {
	req.SourceToken = strings.TrimSpace(req.SourceToken)
	recipients := normalizeEmails(req.Recipients)
	req.Recipients = recipients
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	owner := err == nil && q.OwnedBy(userID)

	var parent *Share
	if !owner {
		if req.SourceToken == "" {
			return nil, ErrForbidden
		}
		src, err := s.shares.GetShareByToken(ctx, req.SourceToken)
		if err != nil {
			if errors.Is(err, ErrShareNotFound) {
				return nil, ErrForbidden
			}
			return nil, fmt.Errorf("get source share: %w", err)
		}
		if src.QuizID != quizID || !src.AllowReshare {
			return nil, ErrForbidden
		}
		parent = &src
	}

	var targets []Recipient
	if len(recipients) > 0 {
		targets, err = s.shares.FindUsersByEmail(ctx, recipients)
		if err != nil {
			return nil, fmt.Errorf("find recipients: %w", err)
		}
		if missing := missingEmails(recipients, targets); len(missing) > 0 {
			return nil, &MissingRecipientsError{Emails: missing}
		}
	}

	base := Share{
		QuizID:       quizID,
		SharedBy:     &userID,
		AllowReshare: req.AllowReshare,
	}
	if parent != nil {
		base.ParentShareID = &parent.ID
	}

	tokens := make([]ShareToken, 0, max(1, len(targets)))
	if len(targets) == 0 {
		created, err := s.createShare(ctx, base)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, ShareToken{Token: created.Token})
	}
	for _, r := range targets {
		share := base
		recipientID := r.ID
		share.RecipientID = &recipientID
		created, err := s.createShare(ctx, share)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, ShareToken{Token: created.Token, RecipientEmail: r.Email})
		s.invite(ctx, r.Email, q.Title, created.Token)
	}

	s.logger.Info().
		Str("quiz_id", quizID.String()).
		Str("user_id", userID.String()).
		Int("tokens", len(tokens)).
		Bool("reshare", parent != nil).
		Msg("quiz shared")
	return tokens, nil
}

func (s *Service) createShare(ctx context.Context, share Share) (Share, error) {
	token, err := s.tokenFn()
	if err != nil {
		return Share{}, fmt.Errorf("generate share token: %w", err)
	}
	share.Token = token
	created, err := s.shares.CreateShare(ctx, share)
	if err != nil {
		return Share{}, fmt.Errorf("create share: %w", err)
	}
	return created, nil
}

// invite is best effort: a failed email never fails the share.
func (s *Service) invite(ctx context.Context, email, title, token string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendShareInvitation(ctx, email, title, token); err != nil {
		s.logger.Warn().Err(err).Str("to", email).Msg("share invitation not delivered")
	}
}

// ResolveShare looks up a share token.
func (s *Service) ResolveShare(ctx context.Context, token string) (Share, error) {
	share, err := s.shares.GetShareByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, ErrShareNotFound) {
			return Share{}, err
		}
		return Share{}, fmt.Errorf("get share: %w", err)
	}
	return share, nil
}

// SharedQuiz returns the quiz behind a token without answers.
func (s *Service) SharedQuiz(ctx context.Context, token string) (SharedQuiz, error) {
	share, err := s.ResolveShare(ctx, token)
	if err != nil {
		return SharedQuiz{}, err
	}
	q, err := s.store.GetQuiz(ctx, share.QuizID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return SharedQuiz{}, ErrShareNotFound
		}
		return SharedQuiz{}, fmt.Errorf("get quiz: %w", err)
	}
	questions, err := s.questions.ListQuestions(ctx, share.QuizID)
	if err != nil {
		return SharedQuiz{}, fmt.Errorf("list questions: %w", err)
	}

	public := make([]question.PublicQuestion, 0, len(questions))
	for _, qq := range questions {
		public = append(public, qq.Public())
	}
	return SharedQuiz{
		Quiz:      SharedQuizInfo{ID: q.ID, Title: q.Title, Description: q.Description},
		Questions: public,
	}, nil
}

func normalizeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func missingEmails(wanted []string, found []Recipient) []string {
	have := make(map[string]struct{}, len(found))
	for _, r := range found {
		have[strings.ToLower(r.Email)] = struct{}{}
	}
	var missing []string
	for _, e := range wanted {
		if _, ok := have[e]; !ok {
			missing = append(missing, e)
		}
	}
	return missing
}
