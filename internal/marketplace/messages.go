package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlosnayan/gigboard/db"
)

type SendMessageInput struct {
	SenderID     string
	ReceiverID   string
	AssignmentID *string
	Content      string
}

// SendMessage delivers a direct message. A message about an assignment is
// only allowed between its participants: poster, worker and bidders.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*db.Message, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, invalid("message content is required")
	}
	if in.SenderID == in.ReceiverID {
		return nil, invalid("cannot message yourself")
	}
	if in.AssignmentID != nil {
		a, err := s.assignment(ctx, s.client, *in.AssignmentID)
		if err != nil {
			return nil, err
		}
		members, err := participants(ctx, s.client, a)
		if err != nil {
			return nil, err
		}
		if !members[in.SenderID] || !members[in.ReceiverID] {
			return nil, fmt.Errorf("%w: both users must take part in assignment %s", ErrNotParticipant, a.ID)
		}
	}
	return s.client.Message.Create(ctx, db.MessageCreateInput{
		Content:      in.Content,
		SenderID:     in.SenderID,
		ReceiverID:   in.ReceiverID,
		AssignmentID: in.AssignmentID,
	}, nil)
}

func participants(ctx context.Context, c *db.Client, a *db.Assignment) (map[string]bool, error) {
	bids, err := c.Bid.FindMany(ctx, db.BidFindManyArgs{
		Where: &db.BidWhereInput{AssignmentID: &db.StringFilter{Equals: &a.ID}},
	})
	if err != nil {
		return nil, err
	}
	members := map[string]bool{a.PosterID: true}
	if a.WorkerID != nil {
		members[*a.WorkerID] = true
	}
	for _, b := range bids {
		members[b.BidderID] = true
	}
	return members, nil
}

// Conversation returns the messages exchanged by two users, oldest first,
// limited to the last take messages when take > 0.
func (s *Service) Conversation(ctx context.Context, userID, otherID string, take int) ([]db.Message, error) {
	between := func(from, to string) db.MessageWhereInput {
		return db.MessageWhereInput{
			SenderID:   &db.StringFilter{Equals: &from},
			ReceiverID: &db.StringFilter{Equals: &to},
		}
	}
	args := db.MessageFindManyArgs{
		Where:   &db.MessageWhereInput{OR: []db.MessageWhereInput{between(userID, otherID), between(otherID, userID)}},
		OrderBy: []db.MessageOrderByInput{{Field: db.MessageFieldCreatedAt, Order: db.SortOrderDesc}},
	}
	if take > 0 {
		args.Take = &take
	}
	msgs, err := s.client.Message.FindMany(ctx, args)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// MarkConversationRead marks every unread message from senderID to
// receiverID as read and returns how many changed.
func (s *Service) MarkConversationRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	res, err := s.client.Message.UpdateMany(ctx, &db.MessageWhereInput{
		ReceiverID: &db.StringFilter{Equals: &receiverID},
		SenderID:   &db.StringFilter{Equals: &senderID},
		Read:       &db.BoolFilter{Equals: db.Ptr(false)},
	}, db.MessageUpdateInput{Read: db.Ptr(true)})
	return res.Count, err
}

// UnreadCount is the number of unread messages addressed to userID.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.client.Message.Count(ctx, &db.MessageWhereInput{
		ReceiverID: &db.StringFilter{Equals: &userID},
		Read:       &db.BoolFilter{Equals: db.Ptr(false)},
	})
}
