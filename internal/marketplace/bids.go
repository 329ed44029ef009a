package marketplace

import (
	"context"
	"fmt"

	"github.com/carlosnayan/gigboard/db"
)

type PlaceBidInput struct {
	AssignmentID string
	BidderID     string
	Amount       float64
	Message      *string
}

// PlaceBid offers to do an open assignment. A bidder gets one bid per
// assignment and the poster cannot bid on their own work.
func (s *Service) PlaceBid(ctx context.Context, in PlaceBidInput) (*db.Bid, error) {
	if in.Amount <= 0 {
		return nil, invalid("bid amount must be positive, got %v", in.Amount)
	}
	var bid *db.Bid
	err := s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		a, err := s.assignment(ctx, tx, in.AssignmentID)
		if err != nil {
			return err
		}
		if a.Status != db.AssignmentStatusOpen {
			return fmt.Errorf("%w: assignment is %s, bidding is closed", ErrInvalidState, a.Status)
		}
		if a.PosterID == in.BidderID {
			return fmt.Errorf("%w: the poster cannot bid on their own assignment", ErrForbidden)
		}
		bid, err = tx.Bid.Create(ctx, db.BidCreateInput{
			Amount:       in.Amount,
			Message:      in.Message,
			AssignmentID: in.AssignmentID,
			BidderID:     in.BidderID,
		}, nil)
		if db.IsUniqueConstraint(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateBid, err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

// WithdrawBid deletes a bid that was not accepted while its assignment is
// still open.
func (s *Service) WithdrawBid(ctx context.Context, bidID, bidderID string) error {
	return s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		bid, err := tx.Bid.FindUniqueOrThrow(ctx, db.BidWhereUniqueInput{ID: &bidID}, &db.BidInclude{Assignment: &db.AssignmentIncludeArgs{}})
		if err != nil {
			return err
		}
		if bid.BidderID != bidderID {
			return fmt.Errorf("%w: only the bidder can withdraw a bid", ErrForbidden)
		}
		if bid.Accepted || bid.Assignment.Status != db.AssignmentStatusOpen {
			return fmt.Errorf("%w: the bid can no longer be withdrawn", ErrInvalidState)
		}
		_, err = tx.Bid.Delete(ctx, db.BidWhereUniqueInput{ID: &bidID}, nil)
		return err
	})
}

// AcceptBid awards an open assignment to a bidder: the bid is marked
// accepted, the bidder becomes the worker and the bid amount goes into
// escrow.
func (s *Service) AcceptBid(ctx context.Context, assignmentID, bidID, posterID string) (*db.Assignment, error) {
	var out *db.Assignment
	err := s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		a, err := s.assignment(ctx, tx, assignmentID)
		if err != nil {
			return err
		}
		if err := requirePoster(a, posterID); err != nil {
			return err
		}
		bid, err := tx.Bid.FindUniqueOrThrow(ctx, db.BidWhereUniqueInput{ID: &bidID}, nil)
		if err != nil {
			return err
		}
		if bid.AssignmentID != a.ID {
			return invalid("bid %s is not on assignment %s", bidID, a.ID)
		}

		if err := transition(ctx, tx, a.ID, []db.AssignmentStatus{db.AssignmentStatusOpen}, db.AssignmentUpdateInput{
			Status:        db.Ptr(db.AssignmentStatusInProgress),
			WorkerID:      db.NullableOf(bid.BidderID),
			AcceptedBidID: db.NullableOf(bid.ID),
		}); err != nil {
			return err
		}
		if _, err := tx.Bid.Update(ctx, db.BidWhereUniqueInput{ID: &bid.ID}, db.BidUpdateInput{Accepted: db.Ptr(true)}, nil); err != nil {
			return err
		}
		if _, err := tx.Payment.Create(ctx, db.PaymentCreateInput{
			Amount:       bid.Amount,
			Status:       db.Ptr(db.PaymentStatusEscrowed),
			AssignmentID: a.ID,
			PayerID:      a.PosterID,
			PayeeID:      bid.BidderID,
		}, nil); err != nil {
			return err
		}
		out, err = tx.Assignment.FindUniqueOrThrow(ctx, db.AssignmentWhereUniqueInput{ID: &a.ID}, &db.AssignmentInclude{
			Worker:  &db.UserIncludeArgs{},
			Payment: &db.PaymentIncludeArgs{},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger().Info("bid %s accepted on assignment %s, %.2f escrowed", bidID, assignmentID, out.Payment.Amount)
	return out, nil
}
