package service

import (
	"context"
	"errors"
	"time"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated caller, as carried by the access token.
type Actor struct {
	UserID   uuid.UUID
	Email    string
	Username string
	Role     model.RoleID
}

// Notifier queues outbound email. *worker.Dispatcher satisfies it.
type Notifier interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// notFound turns gorm.ErrRecordNotFound into a 404 with detail; other errors
// pass through untouched.
func notFound(err error, detail string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(detail)
	}
	return err
}

// calendarDay truncates t to midnight UTC.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(calendarDay(to).Sub(calendarDay(from)).Hours() / 24)
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
