package db

import "github.com/carlosnayan/gigboard/schema"

func id() *schema.Field {
	return &schema.Field{Name: "id", Type: schema.String, ID: true, Default: schema.DefaultUUID}
}

func createdAt() *schema.Field {
	return &schema.Field{Name: "createdAt", Type: schema.DateTime, Default: schema.DefaultNow}
}

func updatedAt() *schema.Field {
	return &schema.Field{Name: "updatedAt", Type: schema.DateTime, UpdatedAt: true}
}

func owner(name, model, from string, optional bool) *schema.Relation {
	onDelete := schema.Cascade
	if optional {
		onDelete = schema.SetNull
	}
	return &schema.Relation{Name: name, Model: model, From: from, To: "id", Owner: true, Optional: optional, OnDelete: onDelete}
}

func list(name, model, to string) *schema.Relation {
	return &schema.Relation{Name: name, Model: model, From: "id", To: to, List: true}
}

// Schema describes the marketplace tables. The client, the relation loader
// and `db push` all read it.
var Schema = &schema.Schema{
	Enums: []*schema.Enum{
		{Name: "AssignmentStatus", Values: enumStrings(AssignmentStatusValues)},
		{Name: "PaymentStatus", Values: enumStrings(PaymentStatusValues)},
		{Name: "DisputeStatus", Values: enumStrings(DisputeStatusValues)},
	},
	Models: []*schema.Model{
		{
			Name: "User",
			Fields: []*schema.Field{
				id(),
				{Name: "clerkId", Type: schema.String, Unique: true},
				{Name: "email", Type: schema.String, Unique: true},
				{Name: "name", Type: schema.String, Optional: true},
				{Name: "imageUrl", Type: schema.String, Optional: true},
				{Name: "bio", Type: schema.String, Optional: true, Text: true},
				{Name: "rating", Type: schema.Float, Default: "0"},
				createdAt(),
				updatedAt(),
			},
			Relations: []*schema.Relation{
				list("postedAssignments", "Assignment", "posterId"),
				list("acceptedAssignments", "Assignment", "workerId"),
				list("bids", "Bid", "bidderId"),
				list("submissions", "Submission", "workerId"),
				list("reviewsGiven", "Review", "reviewerId"),
				list("reviewsReceived", "Review", "revieweeId"),
				list("sentMessages", "Message", "senderId"),
				list("receivedMessages", "Message", "receiverId"),
				list("paymentsMade", "Payment", "payerId"),
				list("paymentsReceived", "Payment", "payeeId"),
				list("disputesRaised", "Dispute", "raisedById"),
			},
		},
		{
			Name: "Assignment",
			Fields: []*schema.Field{
				id(),
				{Name: "title", Type: schema.String},
				{Name: "slug", Type: schema.String, Unique: true},
				{Name: "description", Type: schema.String, Text: true},
				{Name: "subject", Type: schema.String, Optional: true},
				{Name: "budget", Type: schema.Float},
				{Name: "deadline", Type: schema.DateTime},
				{Name: "status", Type: "AssignmentStatus", Default: string(AssignmentStatusOpen)},
				{Name: "posterId", Type: schema.String},
				{Name: "workerId", Type: schema.String, Optional: true},
				{Name: "acceptedBidId", Type: schema.String, Optional: true},
				createdAt(),
				updatedAt(),
			},
			Relations: []*schema.Relation{
				owner("poster", "User", "posterId", false),
				owner("worker", "User", "workerId", true),
				list("bids", "Bid", "assignmentId"),
				list("submissions", "Submission", "assignmentId"),
				list("reviews", "Review", "assignmentId"),
				list("messages", "Message", "assignmentId"),
				{Name: "payment", Model: "Payment", From: "id", To: "assignmentId", Optional: true},
				list("disputes", "Dispute", "assignmentId"),
			},
			Indexes: [][]string{{"status"}, {"posterId"}, {"workerId"}},
		},
		{
			Name: "Bid",
			Fields: []*schema.Field{
				id(),
				{Name: "amount", Type: schema.Float},
				{Name: "message", Type: schema.String, Optional: true, Text: true},
				{Name: "assignmentId", Type: schema.String},
				{Name: "bidderId", Type: schema.String},
				{Name: "accepted", Type: schema.Boolean, Default: "false"},
				createdAt(),
			},
			Relations: []*schema.Relation{
				owner("assignment", "Assignment", "assignmentId", false),
				owner("bidder", "User", "bidderId", false),
			},
			Uniques: [][]string{{"assignmentId", "bidderId"}},
			Indexes: [][]string{{"bidderId"}},
		},
		{
			Name: "Submission",
			Fields: []*schema.Field{
				id(),
				{Name: "assignmentId", Type: schema.String},
				{Name: "workerId", Type: schema.String},
				{Name: "content", Type: schema.String, Text: true},
				{Name: "fileUrl", Type: schema.String, Optional: true},
				createdAt(),
			},
			Relations: []*schema.Relation{
				owner("assignment", "Assignment", "assignmentId", false),
				owner("worker", "User", "workerId", false),
			},
			Indexes: [][]string{{"assignmentId"}},
		},
		{
			Name: "Review",
			Fields: []*schema.Field{
				id(),
				{Name: "rating", Type: schema.Int},
				{Name: "comment", Type: schema.String, Optional: true, Text: true},
				{Name: "assignmentId", Type: schema.String},
				{Name: "reviewerId", Type: schema.String},
				{Name: "revieweeId", Type: schema.String},
				createdAt(),
			},
			Relations: []*schema.Relation{
				owner("assignment", "Assignment", "assignmentId", false),
				owner("reviewer", "User", "reviewerId", false),
				owner("reviewee", "User", "revieweeId", false),
			},
			Uniques: [][]string{{"assignmentId", "reviewerId"}},
			Indexes: [][]string{{"revieweeId"}},
		},
		{
			Name: "Message",
			Fields: []*schema.Field{
				id(),
				{Name: "content", Type: schema.String, Text: true},
				{Name: "senderId", Type: schema.String},
				{Name: "receiverId", Type: schema.String},
				{Name: "assignmentId", Type: schema.String, Optional: true},
				{Name: "read", Type: schema.Boolean, Default: "false"},
				createdAt(),
			},
			Relations: []*schema.Relation{
				owner("sender", "User", "senderId", false),
				owner("receiver", "User", "receiverId", false),
				owner("assignment", "Assignment", "assignmentId", true),
			},
			Indexes: [][]string{{"receiverId", "read"}, {"senderId"}, {"assignmentId"}},
		},
		{
			Name: "Payment",
			Fields: []*schema.Field{
				id(),
				{Name: "amount", Type: schema.Float},
				{Name: "status", Type: "PaymentStatus", Default: string(PaymentStatusPending)},
				{Name: "assignmentId", Type: schema.String, Unique: true},
				{Name: "payerId", Type: schema.String},
				{Name: "payeeId", Type: schema.String},
				{Name: "providerRef", Type: schema.String, Optional: true},
				createdAt(),
				updatedAt(),
			},
			Relations: []*schema.Relation{
				owner("assignment", "Assignment", "assignmentId", false),
				owner("payer", "User", "payerId", false),
				owner("payee", "User", "payeeId", false),
				list("disputes", "Dispute", "paymentId"),
			},
			Indexes: [][]string{{"status"}},
		},
		{
			Name: "Dispute",
			Fields: []*schema.Field{
				id(),
				{Name: "reason", Type: schema.String, Text: true},
				{Name: "status", Type: "DisputeStatus", Default: string(DisputeStatusOpen)},
				{Name: "resolution", Type: schema.String, Optional: true, Text: true},
				{Name: "assignmentId", Type: schema.String},
				{Name: "paymentId", Type: schema.String, Optional: true},
				{Name: "raisedById", Type: schema.String},
				createdAt(),
				{Name: "resolvedAt", Type: schema.DateTime, Optional: true},
			},
			Relations: []*schema.Relation{
				owner("assignment", "Assignment", "assignmentId", false),
				owner("payment", "Payment", "paymentId", true),
				owner("raisedBy", "User", "raisedById", false),
			},
			Indexes: [][]string{{"assignmentId", "status"}},
		},
	},
}
