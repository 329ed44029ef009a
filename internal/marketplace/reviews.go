package marketplace

import (
	"context"
	"fmt"

	"github.com/carlosnayan/gigboard/db"
)

type LeaveReviewInput struct {
	AssignmentID string
	ReviewerID   string
	Rating       int
	Comment      *string
}

// LeaveReview rates the other party of a completed assignment and
// recomputes their average rating.
func (s *Service) LeaveReview(ctx context.Context, in LeaveReviewInput) (*db.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, invalid("rating must be between 1 and 5, got %d", in.Rating)
	}
	var review *db.Review
	err := s.client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
		a, err := s.assignment(ctx, tx, in.AssignmentID)
		if err != nil {
			return err
		}
		if a.Status != db.AssignmentStatusCompleted {
			return fmt.Errorf("%w: only completed assignments can be reviewed", ErrInvalidState)
		}
		var reviewee string
		switch {
		case a.PosterID == in.ReviewerID && a.WorkerID != nil:
			reviewee = *a.WorkerID
		case isWorker(a, in.ReviewerID):
			reviewee = a.PosterID
		default:
			return ErrNotParticipant
		}

		review, err = tx.Review.Create(ctx, db.ReviewCreateInput{
			Rating:       in.Rating,
			Comment:      in.Comment,
			AssignmentID: a.ID,
			ReviewerID:   in.ReviewerID,
			RevieweeID:   reviewee,
		}, nil)
		if db.IsUniqueConstraint(err) {
			return ErrDuplicateReview
		}
		if err != nil {
			return err
		}
		return refreshRating(ctx, tx, reviewee)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func refreshRating(ctx context.Context, tx *db.Client, userID string) error {
	agg, err := tx.Review.Aggregate(ctx, db.ReviewAggregateArgs{
		Where:  &db.ReviewWhereInput{RevieweeID: &db.StringFilter{Equals: &userID}},
		Select: db.AggregateSelect[db.ReviewScalarField]{Avg: []db.ReviewScalarField{db.ReviewFieldRating}},
	})
	if err != nil {
		return err
	}
	rating := 0.0
	if avg := agg.Avg[string(db.ReviewFieldRating)]; avg != nil {
		rating = *avg
	}
	_, err = tx.User.Update(ctx, db.UserWhereUniqueInput{ID: &userID}, db.UserUpdateInput{
		Rating: &db.FloatUpdate{Set: &rating},
	}, nil)
	return err
}
