package handler

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/dbtest"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/events"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/sirupsen/logrus"
)

type fixture struct {
	h     *MessageHandler
	rec   *events.Recorder
	owner tenant.Identity
	staff tenant.Identity
	other tenant.Identity
	// outsider belongs to another organization.
	outsider tenant.Identity
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	tn := dbtest.SeedTenant(t, db, "acme")
	ravi := dbtest.SeedStaff(t, db, tn.Org.ID, "ravi")
	mina := dbtest.SeedStaff(t, db, tn.Org.ID, "mina")
	globex := dbtest.SeedTenant(t, db, "globex")
	log := logrus.New()
	log.SetOutput(io.Discard)
	rec := &events.Recorder{}

	h := NewMessageHandler(store.New(db), rec, log)
	h.now = func() time.Time { return time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC) }

	return &fixture{
		h:        h,
		rec:      rec,
		owner:    tenant.Identity{UserID: tn.Owner.ID, OrganizationID: tn.Org.ID, Role: models.RoleOwner},
		staff:    tenant.Identity{UserID: ravi.ID, OrganizationID: tn.Org.ID, Role: models.RoleStaff},
		other:    tenant.Identity{UserID: mina.ID, OrganizationID: tn.Org.ID, Role: models.RoleStaff},
		outsider: tenant.Identity{UserID: globex.Owner.ID, OrganizationID: globex.Org.ID, Role: models.RoleOwner},
	}
}

func TestSendAndReply(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sent, err := f.h.Send(ctx, f.owner, SendInput{ReceiverID: f.staff.UserID, Body: "  late again  ", Kind: models.MessageWarning})
	if err != nil {
		t.Fatal(err)
	}
	if sent.Body != "late again" || sent.Kind != models.MessageWarning || sent.SenderID != f.owner.UserID {
		t.Fatalf("sent = %+v", sent)
	}

	inbox, err := f.h.Inbox(ctx, f.staff, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(inbox) != 1 || inbox[0].ID != sent.ID {
		t.Fatalf("inbox = %+v", inbox)
	}
	if others, _ := f.h.Inbox(ctx, f.other, false); len(others) != 0 {
		t.Fatalf("other staff inbox = %+v", others)
	}

	reply, err := f.h.Reply(ctx, f.staff, ReplyInput{ParentID: &sent.ID, Body: "sorry"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.ReceiverID != f.owner.UserID || reply.Kind != models.MessageReply || *reply.ParentID != sent.ID {
		t.Fatalf("reply = %+v", reply)
	}
	if _, err := f.h.Reply(ctx, f.staff, ReplyInput{Body: "also, can I leave early?"}); err != nil {
		t.Fatal(err)
	}

	replies, err := f.h.Replies(ctx, f.owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(replies) != 2 || replies[1].ID != reply.ID {
		t.Fatalf("replies = %+v", replies)
	}

	if got := f.rec.Types(); len(got) != 3 || got[0] != events.MessageSent {
		t.Fatalf("events = %v", got)
	}
}

func TestSendRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		caller tenant.Identity
		in     SendInput
		want   error
	}{
		{"staff cannot send", f.staff, SendInput{ReceiverID: f.other.UserID, Body: "hi"}, apperr.ErrForbidden},
		{"empty body", f.owner, SendInput{ReceiverID: f.staff.UserID, Body: "   "}, apperr.ErrInvalidInput},
		{"long body", f.owner, SendInput{ReceiverID: f.staff.UserID, Body: strings.Repeat("x", MaxBodyLength+1)}, apperr.ErrInvalidInput},
		{"bad type", f.owner, SendInput{ReceiverID: f.staff.UserID, Body: "hi", Kind: models.MessageReply}, apperr.ErrInvalidInput},
		{"to self", f.owner, SendInput{ReceiverID: f.owner.UserID, Body: "hi"}, apperr.ErrNotFound},
		{"other tenant", f.outsider, SendInput{ReceiverID: f.staff.UserID, Body: "hi"}, apperr.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.h.Send(ctx, tc.caller, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
	if len(f.rec.Types()) != 0 {
		t.Fatalf("events = %v", f.rec.Types())
	}
}

func TestReplyRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	toOther, err := f.h.Send(ctx, f.owner, SendInput{ReceiverID: f.other.UserID, Body: "for mina"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.h.Reply(ctx, f.owner, ReplyInput{Body: "hi"}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("owner reply: %v", err)
	}
	if _, err := f.h.Reply(ctx, f.staff, ReplyInput{ParentID: &toOther.ID, Body: "hi"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("reply to someone else's message: %v", err)
	}
	missing := toOther.ID + 100
	if _, err := f.h.Reply(ctx, f.staff, ReplyInput{ParentID: &missing, Body: "hi"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("reply to missing message: %v", err)
	}
	if _, err := f.h.Reply(ctx, f.staff, ReplyInput{Body: ""}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("empty reply: %v", err)
	}
	if _, err := f.h.Replies(ctx, f.staff); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("staff replies: %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.h.Send(ctx, f.owner, SendInput{ReceiverID: f.staff.UserID, Body: "one"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.h.Send(ctx, f.owner, SendInput{ReceiverID: f.staff.UserID, Body: "two"}); err != nil {
		t.Fatal(err)
	}

	if _, err := f.h.MarkRead(ctx, f.other, first.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("mark someone else's message: %v", err)
	}

	read, err := f.h.MarkRead(ctx, f.staff, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if read.ReadAt == nil {
		t.Fatal("read_at not set")
	}
	readAt := *read.ReadAt

	f.h.now = func() time.Time { return readAt.Add(time.Hour) }
	again, err := f.h.MarkRead(ctx, f.staff, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.ReadAt == nil || !again.ReadAt.Equal(readAt) {
		t.Fatalf("read_at moved from %v to %v", readAt, again.ReadAt)
	}

	unread, err := f.h.Inbox(ctx, f.staff, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 1 || unread[0].Body != "two" {
		t.Fatalf("unread = %+v", unread)
	}
}
