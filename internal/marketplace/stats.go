package marketplace

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/carlosnayan/gigboard/db"
)

// Stats is a snapshot of the marketplace.
type Stats struct {
	Assignments map[db.AssignmentStatus]int64
	Escrowed    float64
	Released    float64
	OpenDispute int64
	TopWorkers  []db.User
}

// Stats gathers the dashboard numbers. The queries are independent and run
// concurrently, except on a transaction client where they share one
// connection and run in turn.
func (s *Service) Stats(ctx context.Context, topWorkers int) (*Stats, error) {
	out := &Stats{Assignments: map[db.AssignmentStatus]int64{}}

	var escrowed, released float64
	var disputes int64
	var top []db.User
	queries := []func(ctx context.Context) error{
		func(ctx context.Context) error {
			rows, err := s.client.Assignment.GroupBy(ctx, db.AssignmentGroupByArgs{
				By:     []db.AssignmentScalarField{db.AssignmentFieldStatus},
				Select: db.AggregateSelect[db.AssignmentScalarField]{CountAll: true},
			})
			if err != nil {
				return err
			}
			for _, r := range rows {
				status, _ := r.Keys[string(db.AssignmentFieldStatus)].(string)
				out.Assignments[db.AssignmentStatus(status)] = r.Count[db.All]
			}
			return nil
		},
		s.paymentSum(db.PaymentStatusEscrowed, &escrowed),
		s.paymentSum(db.PaymentStatusReleased, &released),
		func(ctx context.Context) error {
			n, err := s.client.Dispute.Count(ctx, &db.DisputeWhereInput{Status: &db.DisputeStatusFilter{In: activeDispute}})
			disputes = n
			return err
		},
	}
	if topWorkers > 0 {
		queries = append(queries, func(ctx context.Context) error {
			var err error
			top, err = s.topWorkers(ctx, topWorkers)
			return err
		})
	}

	if s.client.InTransaction() {
		for _, q := range queries {
			if err := q(ctx); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for _, q := range queries {
			q := q
			g.Go(func() error { return q(gctx) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	out.Escrowed, out.Released, out.OpenDispute, out.TopWorkers = escrowed, released, disputes, top
	return out, nil
}

func (s *Service) paymentSum(status db.PaymentStatus, dst *float64) func(context.Context) error {
	return func(ctx context.Context) error {
		agg, err := s.client.Payment.Aggregate(ctx, db.PaymentAggregateArgs{
			Where:  &db.PaymentWhereInput{Status: &db.PaymentStatusFilter{Equals: &status}},
			Select: db.AggregateSelect[db.PaymentScalarField]{Sum: []db.PaymentScalarField{db.PaymentFieldAmount}},
		})
		if err != nil {
			return err
		}
		if sum := agg.Sum[string(db.PaymentFieldAmount)]; sum != nil {
			*dst = *sum
		}
		return nil
	}
}

// topWorkers ranks the rated users who were hired at least once, so posters
// rated by their workers are left out.
func (s *Service) topWorkers(ctx context.Context, n int) ([]db.User, error) {
	rows, err := s.client.Assignment.GroupBy(ctx, db.AssignmentGroupByArgs{
		By:    []db.AssignmentScalarField{db.AssignmentFieldWorkerID},
		Where: &db.AssignmentWhereInput{WorkerID: &db.StringNullableFilter{IsNull: db.Ptr(false)}},
	})
	if err != nil {
		return nil, err
	}
	hired := make([]string, 0, len(rows))
	for _, r := range rows {
		if id, ok := r.Keys[string(db.AssignmentFieldWorkerID)].(string); ok {
			hired = append(hired, id)
		}
	}
	if len(hired) == 0 {
		return nil, nil
	}
	return s.client.User.FindMany(ctx, db.UserFindManyArgs{
		Where: &db.UserWhereInput{
			ID:     &db.StringFilter{In: hired},
			Rating: &db.FloatFilter{Gt: db.Ptr(0.0)},
		},
		OrderBy: []db.UserOrderByInput{
			{Field: db.UserFieldRating, Order: db.SortOrderDesc},
			{Field: db.UserFieldCreatedAt, Order: db.SortOrderAsc},
		},
		Take: &n,
	})
}
