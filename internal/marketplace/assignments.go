package marketplace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/carlosnayan/gigboard/db"
)

// RegisterUserInput is a user as reported by the auth provider.
type RegisterUserInput struct {
	ClerkID  string
	Email    string
	Name     *string
	ImageURL *string
}

// RegisterUser creates the user for a ClerkID, or refreshes its profile
// when it already exists.
func (s *Service) RegisterUser(ctx context.Context, in RegisterUserInput) (*db.User, error) {
	if strings.TrimSpace(in.ClerkID) == "" {
		return nil, invalid("clerkId is required")
	}
	update := db.UserUpdateInput{Email: &in.Email}
	if in.Name != nil {
		update.Name = db.NullableOf(*in.Name)
	}
	if in.ImageURL != nil {
		update.ImageURL = db.NullableOf(*in.ImageURL)
	}
	return s.client.User.Upsert(ctx,
		db.UserWhereUniqueInput{ClerkID: &in.ClerkID},
		db.UserCreateInput{ClerkID: in.ClerkID, Email: in.Email, Name: in.Name, ImageURL: in.ImageURL},
		update,
		nil,
	)
}

type PostAssignmentInput struct {
	PosterID    string
	Title       string
	Description string
	Subject     *string
	Budget      float64
	Deadline    time.Time
}

// PostAssignment opens an assignment for bidding. Its slug is the title
// made URL safe plus a short random suffix.
func (s *Service) PostAssignment(ctx context.Context, in PostAssignmentInput) (*db.Assignment, error) {
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return nil, invalid("title is required")
	case strings.TrimSpace(in.Description) == "":
		return nil, invalid("description is required")
	case in.Budget <= 0:
		return nil, invalid("budget must be positive, got %v", in.Budget)
	case !in.Deadline.After(s.now()):
		return nil, invalid("deadline %s is in the past", in.Deadline.Format(time.RFC3339))
	}
	if _, err := s.client.User.FindUniqueOrThrow(ctx, db.UserWhereUniqueInput{ID: &in.PosterID}, nil); err != nil {
		return nil, err
	}

	a, err := s.client.Assignment.Create(ctx, db.AssignmentCreateInput{
		Title:       title,
		Slug:        assignmentSlug(title),
		Description: in.Description,
		Subject:     in.Subject,
		Budget:      in.Budget,
		Deadline:    in.Deadline.UTC(),
		PosterID:    in.PosterID,
	}, nil)
	if err != nil {
		return nil, err
	}
	s.logger().Info("assignment %s posted by %s", a.Slug, a.PosterID)
	return a, nil
}

func assignmentSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "assignment"
	}
	if len(base) > 200 {
		base = strings.TrimRight(base[:200], "-")
	}
	return base + "-" + uuid.NewString()[:8]
}

// ListAssignmentsInput filters the assignment board. Zero fields do not
// filter; Status defaults to OPEN.
type ListAssignmentsInput struct {
	Status    *db.AssignmentStatus
	Subject   *string
	Search    string
	MinBudget *float64
	MaxBudget *float64
	Take      int
	Skip      int
}

// ListAssignments returns assignments, soonest deadline first, with their
// poster and bids.
func (s *Service) ListAssignments(ctx context.Context, in ListAssignmentsInput) ([]db.Assignment, error) {
	status := db.AssignmentStatusOpen
	if in.Status != nil {
		status = *in.Status
	}
	where := &db.AssignmentWhereInput{Status: &db.AssignmentStatusFilter{Equals: &status}}
	if in.Subject != nil {
		where.Subject = &db.StringNullableFilter{StringFilter: db.StringFilter{Equals: in.Subject, Mode: db.QueryModeInsensitive}}
	}
	if in.MinBudget != nil || in.MaxBudget != nil {
		where.Budget = &db.FloatFilter{Gte: in.MinBudget, Lte: in.MaxBudget}
	}
	if q := strings.TrimSpace(in.Search); q != "" {
		where.OR = []db.AssignmentWhereInput{
			{Title: &db.StringFilter{Contains: &q, Mode: db.QueryModeInsensitive}},
			{Description: &db.StringFilter{Contains: &q, Mode: db.QueryModeInsensitive}},
		}
	}
	args := db.AssignmentFindManyArgs{
		Where:   where,
		OrderBy: []db.AssignmentOrderByInput{{Field: db.AssignmentFieldDeadline, Order: db.SortOrderAsc}},
		Include: &db.AssignmentInclude{
			Poster: &db.UserIncludeArgs{},
			Bids:   &db.BidIncludeArgs{OrderBy: []db.BidOrderByInput{{Field: db.BidFieldAmount, Order: db.SortOrderAsc}}},
		},
	}
	if in.Take > 0 {
		args.Take = &in.Take
	}
	if in.Skip > 0 {
		args.Skip = &in.Skip
	}
	return s.client.Assignment.FindMany(ctx, args)
}

// AssignmentDetail loads an assignment by slug with everything its page
// shows.
func (s *Service) AssignmentDetail(ctx context.Context, slugValue string) (*db.Assignment, error) {
	return s.client.Assignment.FindUniqueOrThrow(ctx, db.AssignmentWhereUniqueInput{Slug: &slugValue}, &db.AssignmentInclude{
		Poster:      &db.UserIncludeArgs{},
		Worker:      &db.UserIncludeArgs{},
		Bids:        &db.BidIncludeArgs{Include: &db.BidInclude{Bidder: &db.UserIncludeArgs{}}},
		Submissions: &db.SubmissionIncludeArgs{OrderBy: []db.SubmissionOrderByInput{{Field: db.SubmissionFieldCreatedAt, Order: db.SortOrderDesc}}},
		Reviews:     &db.ReviewIncludeArgs{},
		Payment:     &db.PaymentIncludeArgs{},
		Disputes:    &db.DisputeIncludeArgs{},
	})
}

type SubmitWorkInput struct {
	AssignmentID string
	WorkerID     string
	Content      string
	FileURL      *string
}

// SubmitWork hands in the worker's deliverable and moves the assignment to
// SUBMITTED.
func (s *Service) SubmitWork(ctx context.Context, in SubmitWorkInput) (*db.Submission, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, invalid("submission content is required")
	}
	var sub *db.Submission
	err := s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		a, err := s.assignment(ctx, tx, in.AssignmentID)
		if err != nil {
			return err
		}
		if !isWorker(a, in.WorkerID) {
			return fmt.Errorf("%w: only the assigned worker can submit", ErrForbidden)
		}
		if err := transition(ctx, tx, a.ID, []db.AssignmentStatus{db.AssignmentStatusInProgress},
			db.AssignmentUpdateInput{Status: db.Ptr(db.AssignmentStatusSubmitted)}); err != nil {
			return err
		}
		sub, err = tx.Submission.Create(ctx, db.SubmissionCreateInput{
			AssignmentID: a.ID,
			WorkerID:     in.WorkerID,
			Content:      in.Content,
			FileURL:      in.FileURL,
		}, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// RequestRevision sends a submitted assignment back to the worker.
func (s *Service) RequestRevision(ctx context.Context, assignmentID, posterID string) error {
	return s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		a, err := s.assignment(ctx, tx, assignmentID)
		if err != nil {
			return err
		}
		if err := requirePoster(a, posterID); err != nil {
			return err
		}
		return transition(ctx, tx, a.ID, []db.AssignmentStatus{db.AssignmentStatusSubmitted},
			db.AssignmentUpdateInput{Status: db.Ptr(db.AssignmentStatusInProgress)})
	})
}

// ApproveSubmission completes the assignment and releases the escrow to
// the worker.
func (s *Service) ApproveSubmission(ctx context.Context, assignmentID, posterID string) error {
	err := s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		a, err := s.assignment(ctx, tx, assignmentID)
		if err != nil {
			return err
		}
		if err := requirePoster(a, posterID); err != nil {
			return err
		}
		if err := transition(ctx, tx, a.ID, []db.AssignmentStatus{db.AssignmentStatusSubmitted},
			db.AssignmentUpdateInput{Status: db.Ptr(db.AssignmentStatusCompleted)}); err != nil {
			return err
		}
		return settle(ctx, tx, a.ID, []db.PaymentStatus{db.PaymentStatusEscrowed}, db.PaymentStatusReleased)
	})
	if err == nil {
		s.logger().Info("assignment %s completed, payment released", assignmentID)
	}
	return err
}

// CancelAssignment withdraws an assignment. An assignment in progress has
// its escrow refunded to the poster.
func (s *Service) CancelAssignment(ctx context.Context, assignmentID, posterID string) error {
	return s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		a, err := s.assignment(ctx, tx, assignmentID)
		if err != nil {
			return err
		}
		if err := requirePoster(a, posterID); err != nil {
			return err
		}
		cancel := db.AssignmentUpdateInput{Status: db.Ptr(db.AssignmentStatusCancelled)}
		switch a.Status {
		case db.AssignmentStatusOpen:
			return transition(ctx, tx, a.ID, []db.AssignmentStatus{db.AssignmentStatusOpen}, cancel)
		case db.AssignmentStatusInProgress:
			if err := transition(ctx, tx, a.ID, []db.AssignmentStatus{db.AssignmentStatusInProgress}, cancel); err != nil {
				return err
			}
			return settle(ctx, tx, a.ID, []db.PaymentStatus{db.PaymentStatusEscrowed}, db.PaymentStatusRefunded)
		}
		return fmt.Errorf("%w: cannot cancel a %s assignment", ErrInvalidState, a.Status)
	})
}
