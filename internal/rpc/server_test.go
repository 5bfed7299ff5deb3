package rpc

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"syntra-bizops/internal/database/dbtest"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/events"
	attendance "syntra-bizops/internal/services/attendance/handler"
	hr "syntra-bizops/internal/services/hr/handler"
	pos "syntra-bizops/internal/services/pos/handler"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"
	"syntra-bizops/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"gorm.io/gorm"
)

var secret = []byte("rpc-test-secret")

func startServer(t *testing.T) (*Client, *gorm.DB) {
	t.Helper()

	db := dbtest.Open(t)
	st := store.New(db)
	log := logrus.New()
	log.SetOutput(io.Discard)
	pub := events.Nop{}

	ops := NewOperationsServer(
		attendance.NewAttendanceHandler(st, pub, log),
		pos.NewPOSHandler(st, pub, log),
		hr.NewHRHandler(st, pub, log, time.Sunday),
	)
	srv, _ := NewServer(ops, secret, log)

	lis := bufconn.Listen(1 << 20)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	client, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })
	return client, db
}

func authed(t *testing.T, u models.User) context.Context {
	t.Helper()
	id := tenant.Identity{UserID: u.ID, OrganizationID: *u.OrganizationID, Role: u.Role}
	token, _, err := utils.GenerateToken(secret, id, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return WithToken(ctx, token)
}

func TestHealthIsServing(t *testing.T) {
	client, _ := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, err := client.Serving(ctx)
	if err != nil || !ok {
		t.Fatalf("Serving = %v, %v", ok, err)
	}
}

func TestCallsNeedToken(t *testing.T) {
	client, _ := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.GetSale(ctx, &GetSaleRequest{SaleID: 1})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("got %v, want Unauthenticated", err)
	}
}

func TestSaleOverRPC(t *testing.T) {
	client, db := startServer(t)
	tn := dbtest.SeedTenant(t, db, "acme")
	other := dbtest.SeedTenant(t, db, "globex")
	p := dbtest.SeedProduct(t, db, tn.Org.ID, "tea", "2.50", 4)
	ctx := authed(t, tn.Owner)

	_, err := client.CreateSale(ctx, &CreateSaleRequest{Sale: pos.SaleInput{
		Items: []pos.SaleItemInput{{ProductID: p.ID, Quantity: 5}},
	}})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("oversell: got %v, want FailedPrecondition", err)
	}

	reply, err := client.CreateSale(ctx, &CreateSaleRequest{Sale: pos.SaleInput{
		Items: []pos.SaleItemInput{{ProductID: p.ID, Quantity: 4}},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !reply.Sale.Total.Equal(decimal.RequireFromString("10")) || len(reply.Sale.Items) != 1 {
		t.Fatalf("sale = %+v", reply.Sale)
	}

	got, err := client.GetSale(ctx, &GetSaleRequest{SaleID: reply.Sale.ID})
	if err != nil {
		t.Fatal(err)
	}
	if got.Sale.Reference != reply.Sale.Reference {
		t.Fatalf("reference = %q, want %q", got.Sale.Reference, reply.Sale.Reference)
	}

	_, err = client.GetSale(authed(t, other.Owner), &GetSaleRequest{SaleID: reply.Sale.ID})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("foreign GetSale: got %v, want NotFound", err)
	}
}

func TestAttendanceOverRPC(t *testing.T) {
	client, db := startServer(t)
	tn := dbtest.SeedTenant(t, db, "acme")
	staff := dbtest.SeedStaff(t, db, tn.Org.ID, "ravi")
	ctx := authed(t, tn.Owner)

	in, err := client.CheckIn(ctx, &CheckInRequest{UserID: staff.ID})
	if err != nil {
		t.Fatal(err)
	}
	if in.Attendance.CheckInTime == nil {
		t.Fatalf("check-in not stamped: %+v", in.Attendance)
	}

	_, err = client.CheckIn(ctx, &CheckInRequest{UserID: staff.ID})
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("second check-in: got %v, want AlreadyExists", err)
	}

	_, err = client.CheckIn(authed(t, staff), &CheckInRequest{UserID: staff.ID})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("staff check-in: got %v, want PermissionDenied", err)
	}
}
