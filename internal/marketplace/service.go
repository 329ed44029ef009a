// Package marketplace implements the assignment lifecycle on top of the db
// client: posting, bidding, escrow, submission, review, messaging and
// disputes. Every workflow that writes more than one row runs in a single
// transaction.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carlosnayan/gigboard/builder"
	"github.com/carlosnayan/gigboard/db"
	"github.com/carlosnayan/gigboard/internal/logger"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidState    = errors.New("invalid state")
	ErrForbidden       = errors.New("forbidden")
	ErrNotParticipant  = errors.New("not a participant of the assignment")
	ErrDuplicateBid    = errors.New("bidder already placed a bid on this assignment")
	ErrDuplicateReview = errors.New("reviewer already reviewed this assignment")
	ErrDisputeOpen     = errors.New("assignment already has an open dispute")
)

// Service runs the marketplace workflows.
type Service struct {
	client *db.Client
	log    *logger.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for workflow events.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces time.Now for deadline checks and dispute timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(client *db.Client, opts ...Option) *Service {
	s := &Service{client: client, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) logger() *logger.Logger {
	if s.log != nil {
		return s.log
	}
	return logger.GetDefaultLogger()
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// assignment loads an assignment. Inside a transaction the row stays locked
// until commit, so checks made on it hold against concurrent workflows.
func (s *Service) assignment(ctx context.Context, tx *db.Client, id string) (*db.Assignment, error) {
	if !tx.InTransaction() {
		return tx.Assignment.FindUniqueOrThrow(ctx, db.AssignmentWhereUniqueInput{ID: &id}, nil)
	}
	var a db.Assignment
	if err := tx.Assignment.Query().Where(builder.Where{"id": id}).ForUpdate().First(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// transition moves an assignment to the state set in update, provided it is
// still in one of from. The check and the write are one statement, so two
// racing workflows cannot both leave the same state.
func transition(ctx context.Context, tx *db.Client, id string, from []db.AssignmentStatus, update db.AssignmentUpdateInput) error {
	res, err := tx.Assignment.UpdateMany(ctx, &db.AssignmentWhereInput{
		ID:     &db.StringFilter{Equals: &id},
		Status: &db.AssignmentStatusFilter{In: from},
	}, update)
	if err != nil {
		return err
	}
	if res.Count == 0 {
		return fmt.Errorf("%w: assignment %s is not %v", ErrInvalidState, id, from)
	}
	return nil
}

// settle moves the escrow payment of an assignment from one of from to to.
func settle(ctx context.Context, tx *db.Client, assignmentID string, from []db.PaymentStatus, to db.PaymentStatus) error {
	res, err := tx.Payment.UpdateMany(ctx, &db.PaymentWhereInput{
		AssignmentID: &db.StringFilter{Equals: &assignmentID},
		Status:       &db.PaymentStatusFilter{In: from},
	}, db.PaymentUpdateInput{Status: &to})
	if err != nil {
		return err
	}
	if res.Count == 0 {
		return fmt.Errorf("%w: payment of assignment %s is not %v", ErrInvalidState, assignmentID, from)
	}
	return nil
}

func requirePoster(a *db.Assignment, userID string) error {
	if a.PosterID != userID {
		return fmt.Errorf("%w: only the poster can do this", ErrForbidden)
	}
	return nil
}

func isWorker(a *db.Assignment, userID string) bool {
	return a.WorkerID != nil && *a.WorkerID == userID
}
