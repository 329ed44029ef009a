package db

// AssignmentStatus is the lifecycle of an assignment.
type AssignmentStatus string

const (
	AssignmentStatusOpen       AssignmentStatus = "OPEN"
	AssignmentStatusInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentStatusSubmitted  AssignmentStatus = "SUBMITTED"
	AssignmentStatusCompleted  AssignmentStatus = "COMPLETED"
	AssignmentStatusCancelled  AssignmentStatus = "CANCELLED"
	AssignmentStatusDisputed   AssignmentStatus = "DISPUTED"
)

// AssignmentStatusValues lists every AssignmentStatus in declaration order.
var AssignmentStatusValues = []AssignmentStatus{
	AssignmentStatusOpen,
	AssignmentStatusInProgress,
	AssignmentStatusSubmitted,
	AssignmentStatusCompleted,
	AssignmentStatusCancelled,
	AssignmentStatusDisputed,
}

func (s AssignmentStatus) IsValid() bool { return contains(AssignmentStatusValues, s) }

// PaymentStatus tracks the money held for an assignment.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusEscrowed PaymentStatus = "ESCROWED"
	PaymentStatusReleased PaymentStatus = "RELEASED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusDisputed PaymentStatus = "DISPUTED"
)

var PaymentStatusValues = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusEscrowed,
	PaymentStatusReleased,
	PaymentStatusRefunded,
	PaymentStatusDisputed,
}

func (s PaymentStatus) IsValid() bool { return contains(PaymentStatusValues, s) }

// DisputeStatus is the lifecycle of a dispute.
type DisputeStatus string

const (
	DisputeStatusOpen        DisputeStatus = "OPEN"
	DisputeStatusUnderReview DisputeStatus = "UNDER_REVIEW"
	DisputeStatusResolved    DisputeStatus = "RESOLVED"
	DisputeStatusRejected    DisputeStatus = "REJECTED"
)

var DisputeStatusValues = []DisputeStatus{
	DisputeStatusOpen,
	DisputeStatusUnderReview,
	DisputeStatusResolved,
	DisputeStatusRejected,
}

func (s DisputeStatus) IsValid() bool { return contains(DisputeStatusValues, s) }

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
