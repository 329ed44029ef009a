package db

import "time"

// User is a marketplace member. Identities come from the external auth
// provider, ClerkID is its subject.
type User struct {
	ID        string    `db:"id" json:"id"`
	ClerkID   string    `db:"clerkId" json:"clerkId"`
	Email     string    `db:"email" json:"email"`
	Name      *string   `db:"name" json:"name"`
	ImageURL  *string   `db:"imageUrl" json:"imageUrl"`
	Bio       *string   `db:"bio" json:"bio"`
	Rating    float64   `db:"rating" json:"rating"`
	CreatedAt time.Time `db:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `db:"updatedAt" json:"updatedAt"`

	PostedAssignments   []Assignment `db:"-" json:"postedAssignments,omitempty"`
	AcceptedAssignments []Assignment `db:"-" json:"acceptedAssignments,omitempty"`
	Bids                []Bid        `db:"-" json:"bids,omitempty"`
	Submissions         []Submission `db:"-" json:"submissions,omitempty"`
	ReviewsGiven        []Review     `db:"-" json:"reviewsGiven,omitempty"`
	ReviewsReceived     []Review     `db:"-" json:"reviewsReceived,omitempty"`
	SentMessages        []Message    `db:"-" json:"sentMessages,omitempty"`
	ReceivedMessages    []Message    `db:"-" json:"receivedMessages,omitempty"`
	PaymentsMade        []Payment    `db:"-" json:"paymentsMade,omitempty"`
	PaymentsReceived    []Payment    `db:"-" json:"paymentsReceived,omitempty"`
	DisputesRaised      []Dispute    `db:"-" json:"disputesRaised,omitempty"`
}

// Assignment is a piece of work posted for bidding.
type Assignment struct {
	ID            string           `db:"id" json:"id"`
	Title         string           `db:"title" json:"title"`
	Slug          string           `db:"slug" json:"slug"`
	Description   string           `db:"description" json:"description"`
	Subject       *string          `db:"subject" json:"subject"`
	Budget        float64          `db:"budget" json:"budget"`
	Deadline      time.Time        `db:"deadline" json:"deadline"`
	Status        AssignmentStatus `db:"status" json:"status"`
	PosterID      string           `db:"posterId" json:"posterId"`
	WorkerID      *string          `db:"workerId" json:"workerId"`
	AcceptedBidID *string          `db:"acceptedBidId" json:"acceptedBidId"`
	CreatedAt     time.Time        `db:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time        `db:"updatedAt" json:"updatedAt"`

	Poster      *User        `db:"-" json:"poster,omitempty"`
	Worker      *User        `db:"-" json:"worker,omitempty"`
	Bids        []Bid        `db:"-" json:"bids,omitempty"`
	Submissions []Submission `db:"-" json:"submissions,omitempty"`
	Reviews     []Review     `db:"-" json:"reviews,omitempty"`
	Messages    []Message    `db:"-" json:"messages,omitempty"`
	Payment     *Payment     `db:"-" json:"payment,omitempty"`
	Disputes    []Dispute    `db:"-" json:"disputes,omitempty"`
}

type Bid struct {
	ID           string    `db:"id" json:"id"`
	Amount       float64   `db:"amount" json:"amount"`
	Message      *string   `db:"message" json:"message"`
	AssignmentID string    `db:"assignmentId" json:"assignmentId"`
	BidderID     string    `db:"bidderId" json:"bidderId"`
	Accepted     bool      `db:"accepted" json:"accepted"`
	CreatedAt    time.Time `db:"createdAt" json:"createdAt"`

	Assignment *Assignment `db:"-" json:"assignment,omitempty"`
	Bidder     *User       `db:"-" json:"bidder,omitempty"`
}

type Submission struct {
	ID           string    `db:"id" json:"id"`
	AssignmentID string    `db:"assignmentId" json:"assignmentId"`
	WorkerID     string    `db:"workerId" json:"workerId"`
	Content      string    `db:"content" json:"content"`
	FileURL      *string   `db:"fileUrl" json:"fileUrl"`
	CreatedAt    time.Time `db:"createdAt" json:"createdAt"`

	Assignment *Assignment `db:"-" json:"assignment,omitempty"`
	Worker     *User       `db:"-" json:"worker,omitempty"`
}

type Review struct {
	ID           string    `db:"id" json:"id"`
	Rating       int       `db:"rating" json:"rating"`
	Comment      *string   `db:"comment" json:"comment"`
	AssignmentID string    `db:"assignmentId" json:"assignmentId"`
	ReviewerID   string    `db:"reviewerId" json:"reviewerId"`
	RevieweeID   string    `db:"revieweeId" json:"revieweeId"`
	CreatedAt    time.Time `db:"createdAt" json:"createdAt"`

	Assignment *Assignment `db:"-" json:"assignment,omitempty"`
	Reviewer   *User       `db:"-" json:"reviewer,omitempty"`
	Reviewee   *User       `db:"-" json:"reviewee,omitempty"`
}

type Message struct {
	ID           string    `db:"id" json:"id"`
	Content      string    `db:"content" json:"content"`
	SenderID     string    `db:"senderId" json:"senderId"`
	ReceiverID   string    `db:"receiverId" json:"receiverId"`
	AssignmentID *string   `db:"assignmentId" json:"assignmentId"`
	Read         bool      `db:"read" json:"read"`
	CreatedAt    time.Time `db:"createdAt" json:"createdAt"`

	Sender     *User       `db:"-" json:"sender,omitempty"`
	Receiver   *User       `db:"-" json:"receiver,omitempty"`
	Assignment *Assignment `db:"-" json:"assignment,omitempty"`
}

// Payment is the escrow record of an assignment; there is at most one per
// assignment.
type Payment struct {
	ID           string        `db:"id" json:"id"`
	Amount       float64       `db:"amount" json:"amount"`
	Status       PaymentStatus `db:"status" json:"status"`
	AssignmentID string        `db:"assignmentId" json:"assignmentId"`
	PayerID      string        `db:"payerId" json:"payerId"`
	PayeeID      string        `db:"payeeId" json:"payeeId"`
	ProviderRef  *string       `db:"providerRef" json:"providerRef"`
	CreatedAt    time.Time     `db:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updatedAt" json:"updatedAt"`

	Assignment *Assignment `db:"-" json:"assignment,omitempty"`
	Payer      *User       `db:"-" json:"payer,omitempty"`
	Payee      *User       `db:"-" json:"payee,omitempty"`
	Disputes   []Dispute   `db:"-" json:"disputes,omitempty"`
}

type Dispute struct {
	ID           string        `db:"id" json:"id"`
	Reason       string        `db:"reason" json:"reason"`
	Status       DisputeStatus `db:"status" json:"status"`
	Resolution   *string       `db:"resolution" json:"resolution"`
	AssignmentID string        `db:"assignmentId" json:"assignmentId"`
	PaymentID    *string       `db:"paymentId" json:"paymentId"`
	RaisedByID   string        `db:"raisedById" json:"raisedById"`
	CreatedAt    time.Time     `db:"createdAt" json:"createdAt"`
	ResolvedAt   *time.Time    `db:"resolvedAt" json:"resolvedAt"`

	Assignment *Assignment `db:"-" json:"assignment,omitempty"`
	Payment    *Payment    `db:"-" json:"payment,omitempty"`
	RaisedBy   *User       `db:"-" json:"raisedBy,omitempty"`
}
