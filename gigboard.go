// Package gigboard is the data layer of an assignment marketplace: posters
// publish assignments, workers bid on them, money is held in escrow until
// the work is approved, and disputes freeze it until resolved.
//
// The typed client lives in package db:
//
//	import "github.com/carlosnayan/gigboard/db"
//
//	client, err := db.Open(ctx, os.Getenv("DATABASE_URL"))
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect()
//
//	open, err := client.Assignment.FindMany(ctx, db.AssignmentFindManyArgs{
//	    Where: &db.AssignmentWhereInput{
//	        Status: &db.AssignmentStatusFilter{Equals: db.Ptr(db.AssignmentStatusOpen)},
//	    },
//	    OrderBy: []db.AssignmentOrderByInput{{Field: db.AssignmentFieldCreatedAt, Order: db.SortOrderDesc}},
//	    Take:    db.Ptr(10),
//	})
//
// The marketplace workflows (bidding, escrow, reviews, disputes) are in
// internal/marketplace, and the gigboard command manages the database:
//
//	gigboard db push             # Create missing tables, columns and indexes
//	gigboard db health           # Check the connection
//	gigboard seed                # Fill the database with demo data
//	gigboard stats --every 30s   # Watch marketplace numbers
package gigboard

const Version = "0.1.0"
