// Package handler carries notes between an organization owner and their
// staff.
package handler

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/events"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/sirupsen/logrus"
)

// MaxBodyLength is the longest message body accepted, in characters.
const MaxBodyLength = 2000

type MessageHandler struct {
	store  store.Store
	events events.Publisher
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewMessageHandler(st store.Store, pub events.Publisher, log logrus.FieldLogger) *MessageHandler {
	return &MessageHandler{
		store:  st,
		events: pub,
		log:    log,
		now:    time.Now,
	}
}

type SendInput struct {
	ReceiverID uint               `json:"receiver_id"`
	Body       string             `json:"message"`
	Kind       models.MessageKind `json:"type,omitempty"`
}

type ReplyInput struct {
	// ParentID optionally names the message being answered. It must have
	// been addressed to the replying user.
	ParentID *uint  `json:"parent_id,omitempty"`
	Body     string `json:"message"`
}

func body(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.InvalidInput("message is required")
	}
	if utf8.RuneCountInString(s) > MaxBodyLength {
		return "", apperr.InvalidInput("message cannot exceed %d characters", MaxBodyLength)
	}
	return s, nil
}

// Send delivers a note from the owner to one of their staff.
func (h *MessageHandler) Send(ctx context.Context, caller tenant.Identity, in SendInput) (*models.Message, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	text, err := body(in.Body)
	if err != nil {
		return nil, err
	}
	kind := in.Kind
	if kind == "" {
		kind = models.MessageNormal
	}
	if kind != models.MessageNormal && kind != models.MessageWarning {
		return nil, apperr.InvalidInput("type must be normal or warning")
	}

	receiver, err := h.store.Users().FindByID(ctx, caller.OrganizationID, in.ReceiverID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && receiver.Role != models.RoleStaff) {
		return nil, apperr.NotFound("staff member %d not found", in.ReceiverID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "load user %d", in.ReceiverID)
	}

	msg := &models.Message{
		OrganizationID: caller.OrganizationID,
		SenderID:       caller.UserID,
		ReceiverID:     receiver.ID,
		Kind:           kind,
		Body:           text,
		CreatedAt:      h.now().UTC(),
	}
	if err := h.store.Messages().Create(ctx, msg); err != nil {
		return nil, apperr.Internal(err, "create message")
	}

	h.publish(ctx, events.New(events.MessageSent, msg.OrganizationID, caller.UserID, msg.ID, msg))
	return msg, nil
}

// Reply sends a staff member's answer to the owner of their organization.
func (h *MessageHandler) Reply(ctx context.Context, caller tenant.Identity, in ReplyInput) (*models.Message, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if caller.IsOwner() {
		return nil, apperr.Forbidden("owners send messages instead of replying")
	}
	text, err := body(in.Body)
	if err != nil {
		return nil, err
	}
	orgID := caller.OrganizationID

	if in.ParentID != nil {
		parent, err := h.store.Messages().FindByID(ctx, orgID, *in.ParentID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && parent.ReceiverID != caller.UserID) {
			return nil, apperr.NotFound("message %d not found", *in.ParentID)
		}
		if err != nil {
			return nil, apperr.Internal(err, "load message %d", *in.ParentID)
		}
	}

	org, err := h.store.Organizations().FindByID(ctx, orgID)
	if err != nil {
		return nil, apperr.Internal(err, "load organization %d", orgID)
	}
	if org.OwnerID == nil {
		return nil, apperr.NotFound("organization %d has no owner", orgID)
	}

	msg := &models.Message{
		OrganizationID: orgID,
		SenderID:       caller.UserID,
		ReceiverID:     *org.OwnerID,
		ParentID:       in.ParentID,
		Kind:           models.MessageReply,
		Body:           text,
		CreatedAt:      h.now().UTC(),
	}
	if err := h.store.Messages().Create(ctx, msg); err != nil {
		return nil, apperr.Internal(err, "create reply")
	}

	h.publish(ctx, events.New(events.MessageSent, orgID, caller.UserID, msg.ID, msg))
	return msg, nil
}

// Inbox lists the messages addressed to the caller, newest first.
func (h *MessageHandler) Inbox(ctx context.Context, caller tenant.Identity, unreadOnly bool) ([]models.Message, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	messages, err := h.store.Messages().ListReceived(ctx, caller.OrganizationID, caller.UserID, store.MessageFilter{UnreadOnly: unreadOnly})
	if err != nil {
		return nil, apperr.Internal(err, "list inbox")
	}
	return messages, nil
}

func (h *MessageHandler) Replies(ctx context.Context, caller tenant.Identity) ([]models.Message, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	messages, err := h.store.Messages().ListReceived(ctx, caller.OrganizationID, caller.UserID, store.MessageFilter{Kind: models.MessageReply})
	if err != nil {
		return nil, apperr.Internal(err, "list replies")
	}
	return messages, nil
}

// MarkRead stamps a message addressed to the caller. Marking it again keeps
// the first read time.
func (h *MessageHandler) MarkRead(ctx context.Context, caller tenant.Identity, messageID uint) (*models.Message, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	orgID := caller.OrganizationID

	msg, err := h.store.Messages().FindByID(ctx, orgID, messageID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && msg.ReceiverID != caller.UserID) {
		return nil, apperr.NotFound("message %d not found", messageID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "load message %d", messageID)
	}
	if msg.ReadAt != nil {
		return msg, nil
	}

	now := h.now().UTC()
	err = h.store.Messages().MarkRead(ctx, orgID, messageID, caller.UserID, now)
	switch {
	case errors.Is(err, store.ErrNotApplied):
		// Read concurrently; report the stored time.
		if msg, err = h.store.Messages().FindByID(ctx, orgID, messageID); err != nil {
			return nil, apperr.Internal(err, "reload message %d", messageID)
		}
		return msg, nil
	case err != nil:
		return nil, apperr.Internal(err, "mark message %d read", messageID)
	}
	msg.ReadAt = &now
	return msg, nil
}

func (h *MessageHandler) publish(ctx context.Context, event events.Event) {
	if err := h.events.Publish(ctx, event); err != nil {
		h.log.WithFields(logrus.Fields{
			"event_type":      event.Type,
			"organization_id": event.OrganizationID,
		}).WithError(err).Warn("failed to publish event")
	}
}
