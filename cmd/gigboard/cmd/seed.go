package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/carlosnayan/gigboard/db"
	"github.com/carlosnayan/gigboard/internal/marketplace"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo marketplace data",
	Long: `Seed registers three demo users and walks assignments through the
marketplace: one open with bids, one completed and reviewed, one in
dispute. Users are upserted, so seeding twice only adds assignments.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		svc := marketplace.New(client)
		if err := seed(ctx, svc, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), Success("Seeded demo data."))
		return nil
	},
}

func seed(ctx context.Context, svc *marketplace.Service, out io.Writer) error {
	users := map[string]*db.User{}
	for _, handle := range []string{"ana", "ben", "chloe"} {
		u, err := svc.RegisterUser(ctx, marketplace.RegisterUserInput{
			ClerkID: "seed_" + handle,
			Email:   handle + "@gigboard.test",
			Name:    db.Ptr(handle),
		})
		if err != nil {
			return err
		}
		users[handle] = u
	}
	poster, worker, bidder := users["ana"], users["ben"], users["chloe"]
	deadline := time.Now().Add(14 * 24 * time.Hour)

	post := func(title, subject string, budget float64) (*db.Assignment, error) {
		return svc.PostAssignment(ctx, marketplace.PostAssignmentInput{
			PosterID:    poster.ID,
			Title:       title,
			Description: "Seeded assignment: " + title,
			Subject:     db.Ptr(subject),
			Budget:      budget,
			Deadline:    deadline,
		})
	}
	bid := func(a *db.Assignment, u *db.User, amount float64) (*db.Bid, error) {
		return svc.PlaceBid(ctx, marketplace.PlaceBidInput{
			AssignmentID: a.ID,
			BidderID:     u.ID,
			Amount:       amount,
			Message:      db.Ptr("I can start today."),
		})
	}
	// hire posts an assignment, takes bids from both users and hires the
	// worker.
	hire := func(title, subject string, budget float64) (*db.Assignment, error) {
		a, err := post(title, subject, budget)
		if err != nil {
			return nil, err
		}
		if _, err := bid(a, bidder, budget); err != nil {
			return nil, err
		}
		b, err := bid(a, worker, budget*0.9)
		if err != nil {
			return nil, err
		}
		return svc.AcceptBid(ctx, a.ID, b.ID, poster.ID)
	}

	open, err := post("Linear Algebra Homework", "Mathematics", 40)
	if err != nil {
		return err
	}
	if _, err := bid(open, worker, 35); err != nil {
		return err
	}
	fmt.Fprintln(out, Info("open:      " + open.Slug))

	done, err := hire("Essay on the French Revolution", "History", 80)
	if err != nil {
		return err
	}
	if _, err := svc.SubmitWork(ctx, marketplace.SubmitWorkInput{
		AssignmentID: done.ID,
		WorkerID:     worker.ID,
		Content:      "Final draft attached.",
		FileURL:      db.Ptr("https://files.gigboard.test/essay.pdf"),
	}); err != nil {
		return err
	}
	if err := svc.ApproveSubmission(ctx, done.ID, poster.ID); err != nil {
		return err
	}
	for _, r := range []marketplace.LeaveReviewInput{
		{AssignmentID: done.ID, ReviewerID: poster.ID, Rating: 5, Comment: db.Ptr("Great work, on time.")},
		{AssignmentID: done.ID, ReviewerID: worker.ID, Rating: 4},
	} {
		if _, err := svc.LeaveReview(ctx, r); err != nil {
			return err
		}
	}
	if _, err := svc.SendMessage(ctx, marketplace.SendMessageInput{
		SenderID:     poster.ID,
		ReceiverID:   worker.ID,
		AssignmentID: &done.ID,
		Content:      "Thanks again!",
	}); err != nil {
		return err
	}
	fmt.Fprintln(out, Info("completed: " + done.Slug))

	disputed, err := hire("Physics Lab Report", "Physics", 60)
	if err != nil {
		return err
	}
	if _, err := svc.OpenDispute(ctx, marketplace.OpenDisputeInput{
		AssignmentID: disputed.ID,
		RaisedByID:   poster.ID,
		Reason:       "No progress since the bid was accepted.",
	}); err != nil {
		return err
	}
	fmt.Fprintln(out, Info("disputed:  " + disputed.Slug))
	return nil
}
