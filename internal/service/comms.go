package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"example.com/millops/internal/document"
)

// SendMessage appends a direct message between two accounts
func (s *Service) SendMessage(ctx context.Context, sender, receiver, body string) (*document.Message, error) {
	if sender == "" || receiver == "" || body == "" {
		return nil, errors.Wrap(ErrValidation, "sender, receiver and body are required")
	}

	message := document.Message{
		ID:        uuid.New().String(),
		Sender:    sender,
		Receiver:  receiver,
		Body:      body,
		CreatedAt: time.Now(),
	}

	err := s.repo.Update(ctx, func(doc *document.Document) error {
		doc.Messages = append(doc.Messages, message)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Inbox returns all messages addressed to the receiver, newest first
func (s *Service) Inbox(ctx context.Context, receiver string) ([]document.Message, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var inbox []document.Message
	for i := len(doc.Messages) - 1; i >= 0; i-- {
		if doc.Messages[i].Receiver == receiver {
			inbox = append(inbox, doc.Messages[i])
		}
	}
	return inbox, nil
}

// MarkMessageRead flags one message as read
func (s *Service) MarkMessageRead(ctx context.Context, messageID string) error {
	return s.repo.Update(ctx, func(doc *document.Document) error {
		for i := range doc.Messages {
			if doc.Messages[i].ID == messageID {
				doc.Messages[i].Read = true
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "message")
	})
}

// AddNotification appends a notification visible on every dashboard
func (s *Service) AddNotification(ctx context.Context, message, severity string) error {
	if message == "" {
		return errors.Wrap(ErrValidation, "message is required")
	}
	if severity == "" {
		severity = document.SeverityInfo
	}

	return s.repo.Update(ctx, func(doc *document.Document) error {
		doc.Notifications = append(doc.Notifications, document.Notification{
			ID:        uuid.New().String(),
			Message:   message,
			Severity:  severity,
			CreatedAt: time.Now(),
		})
		return nil
	})
}

// Notifications returns notifications, optionally only unread ones,
// newest first
func (s *Service) Notifications(ctx context.Context, unreadOnly bool) ([]document.Notification, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var out []document.Notification
	for i := len(doc.Notifications) - 1; i >= 0; i-- {
		n := doc.Notifications[i]
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// MarkNotificationRead flags one notification as read
func (s *Service) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return s.repo.Update(ctx, func(doc *document.Document) error {
		for i := range doc.Notifications {
			if doc.Notifications[i].ID == notificationID {
				doc.Notifications[i].Read = true
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "notification")
	})
}

// AddExpense records a financial outflow
func (s *Service) AddExpense(ctx context.Context, description, category string, amount float64, date time.Time) (*document.Expense, error) {
	if description == "" || amount <= 0 {
		return nil, errors.Wrap(ErrValidation, "description and positive amount are required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	expense := document.Expense{
		ID:          document.NextID(),
		Description: description,
		Category:    category,
		Amount:      amount,
		Date:        date,
	}

	err := s.repo.Update(ctx, func(doc *document.Document) error {
		doc.Expenses = append(doc.Expenses, expense)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListExpenses returns all expenses
func (s *Service) ListExpenses(ctx context.Context) ([]document.Expense, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Expenses, nil
}
