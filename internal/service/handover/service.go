package handover

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/handover"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/sse"
)

type HandoverServiceImpl struct {
	handover.MessageRepository
	hub *sse.Hub
	loc *time.Location
	now func() time.Time
}

func NewHandoverService(repo handover.MessageRepository, hub *sse.Hub, loc *time.Location) handover.HandoverService {
	return &HandoverServiceImpl{MessageRepository: repo, hub: hub, loc: loc, now: time.Now}
}

func (s *HandoverServiceImpl) Post(ctx context.Context, actor user.Actor, req handover.PostMessageRequest) (handover.MessageResponse, error) {
	if err := actor.Require(user.PermissionHandoverPost); err != nil {
		return handover.MessageResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return handover.MessageResponse{}, err
	}

	day := timeentry.DayOf(s.now().In(s.loc))
	if !req.Day.IsZero() {
		day = timeentry.CivilDay(req.Day, s.loc)
	}

	msg, err := s.MessageRepository.Create(ctx, handover.Message{
		UserID:    actor.UserID,
		Message:   req.Message,
		ShiftDate: day,
	})
	if err != nil {
		return handover.MessageResponse{}, fmt.Errorf("failed to post handover message: %w", err)
	}
	if msg.UserName == "" {
		msg.UserName = actor.Name
	}

	resp := handover.ToResponse(msg)
	s.hub.Publish(handover.Topic, sse.Event{Event: handover.EventPosted, Data: resp})
	return resp, nil
}

func (s *HandoverServiceImpl) List(ctx context.Context, actor user.Actor) ([]handover.MessageResponse, error) {
	if err := actor.Require(user.PermissionHandoverPost); err != nil {
		return nil, err
	}
	msgs, err := s.MessageRepository.ListLatest(ctx, handover.DefaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list handover messages: %w", err)
	}
	resp := make([]handover.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, handover.ToResponse(m))
	}
	return resp, nil
}

func (s *HandoverServiceImpl) Subscribe(ctx context.Context, actor user.Actor) (<-chan sse.Event, func(), error) {
	if err := actor.Require(user.PermissionHandoverPost); err != nil {
		return nil, nil, err
	}
	events, cleanup := s.hub.Subscribe(handover.Topic)
	return events, cleanup, nil
}
