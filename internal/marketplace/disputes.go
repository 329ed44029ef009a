package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlosnayan/gigboard/db"
)

// Outcome settles a dispute: release pays the worker, refund returns the
// escrow to the poster.
type Outcome string

const (
	OutcomeRelease Outcome = "release"
	OutcomeRefund  Outcome = "refund"
)

var activeDispute = []db.DisputeStatus{db.DisputeStatusOpen, db.DisputeStatusUnderReview}

type OpenDisputeInput struct {
	AssignmentID string
	RaisedByID   string
	Reason       string
}

// OpenDispute freezes an assignment in progress or under review: the
// assignment and its escrow both become DISPUTED until the dispute is
// resolved or rejected.
func (s *Service) OpenDispute(ctx context.Context, in OpenDisputeInput) (*db.Dispute, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, invalid("a dispute needs a reason")
	}
	var dispute *db.Dispute
	err := s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		a, err := tx.Assignment.FindUniqueOrThrow(ctx, db.AssignmentWhereUniqueInput{ID: &in.AssignmentID}, &db.AssignmentInclude{Payment: &db.PaymentIncludeArgs{}})
		if err != nil {
			return err
		}
		if a.PosterID != in.RaisedByID && !isWorker(a, in.RaisedByID) {
			return ErrNotParticipant
		}
		open, err := tx.Dispute.Count(ctx, &db.DisputeWhereInput{
			AssignmentID: &db.StringFilter{Equals: &a.ID},
			Status:       &db.DisputeStatusFilter{In: activeDispute},
		})
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrDisputeOpen
		}
		if err := transition(ctx, tx, a.ID,
			[]db.AssignmentStatus{db.AssignmentStatusInProgress, db.AssignmentStatusSubmitted},
			db.AssignmentUpdateInput{Status: db.Ptr(db.AssignmentStatusDisputed)}); err != nil {
			return err
		}
		if err := settle(ctx, tx, a.ID, []db.PaymentStatus{db.PaymentStatusEscrowed}, db.PaymentStatusDisputed); err != nil {
			return err
		}
		dispute, err = tx.Dispute.Create(ctx, db.DisputeCreateInput{
			Reason:       in.Reason,
			AssignmentID: a.ID,
			PaymentID:    &a.Payment.ID,
			RaisedByID:   in.RaisedByID,
		}, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger().Warn("dispute %s opened on assignment %s", dispute.ID, dispute.AssignmentID)
	return dispute, nil
}

// ReviewDispute marks an open dispute as being looked at.
func (s *Service) ReviewDispute(ctx context.Context, disputeID string) (*db.Dispute, error) {
	var out *db.Dispute
	err := s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		var err error
		out, err = moveDispute(ctx, tx, disputeID, []db.DisputeStatus{db.DisputeStatusOpen}, db.DisputeUpdateInput{
			Status: db.Ptr(db.DisputeStatusUnderReview),
		})
		return err
	})
	return out, err
}

// ResolveDispute closes a dispute with an outcome. Release completes the
// assignment and pays the worker; refund cancels it and refunds the poster.
func (s *Service) ResolveDispute(ctx context.Context, disputeID string, outcome Outcome, resolution string) (*db.Dispute, error) {
	var (
		payment    db.PaymentStatus
		assignment db.AssignmentStatus
	)
	switch outcome {
	case OutcomeRelease:
		payment, assignment = db.PaymentStatusReleased, db.AssignmentStatusCompleted
	case OutcomeRefund:
		payment, assignment = db.PaymentStatusRefunded, db.AssignmentStatusCancelled
	default:
		return nil, invalid("unknown dispute outcome %q", outcome)
	}
	return s.closeDispute(ctx, disputeID, db.DisputeStatusResolved, resolution, assignment, payment)
}

// RejectDispute dismisses a dispute: the assignment goes back in progress
// and the payment back into escrow.
func (s *Service) RejectDispute(ctx context.Context, disputeID, resolution string) (*db.Dispute, error) {
	return s.closeDispute(ctx, disputeID, db.DisputeStatusRejected, resolution, db.AssignmentStatusInProgress, db.PaymentStatusEscrowed)
}

func (s *Service) closeDispute(ctx context.Context, disputeID string, status db.DisputeStatus, resolution string, assignment db.AssignmentStatus, payment db.PaymentStatus) (*db.Dispute, error) {
	var out *db.Dispute
	err := s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		update := db.DisputeUpdateInput{
			Status:     &status,
			ResolvedAt: db.NullableOf(s.now().UTC()),
		}
		if resolution != "" {
			update.Resolution = db.NullableOf(resolution)
		}
		d, err := moveDispute(ctx, tx, disputeID, activeDispute, update)
		if err != nil {
			return err
		}
		if err := transition(ctx, tx, d.AssignmentID, []db.AssignmentStatus{db.AssignmentStatusDisputed},
			db.AssignmentUpdateInput{Status: &assignment}); err != nil {
			return err
		}
		if err := settle(ctx, tx, d.AssignmentID, []db.PaymentStatus{db.PaymentStatusDisputed}, payment); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger().Info("dispute %s %s: assignment %s, payment %s", disputeID, status, assignment, payment)
	return out, nil
}

func moveDispute(ctx context.Context, tx *db.Client, id string, from []db.DisputeStatus, update db.DisputeUpdateInput) (*db.Dispute, error) {
	res, err := tx.Dispute.UpdateMany(ctx, &db.DisputeWhereInput{
		ID:     &db.StringFilter{Equals: &id},
		Status: &db.DisputeStatusFilter{In: from},
	}, update)
	if err != nil {
		return nil, err
	}
	d, err := tx.Dispute.FindUniqueOrThrow(ctx, db.DisputeWhereUniqueInput{ID: &id}, nil)
	if err != nil {
		return nil, err
	}
	if res.Count == 0 {
		return nil, fmt.Errorf("%w: dispute %s is %s", ErrInvalidState, id, d.Status)
	}
	return d, nil
}
