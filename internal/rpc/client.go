package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

// Client calls the operations service over a single connection.
type Client struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("operations service connection failed: %w", err)
	}
	return &Client{conn: conn, health: healthpb.NewHealthClient(conn)}, nil
}

// WithToken attaches a bearer token to outgoing calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Serving reports whether the operations service answers health checks
// as SERVING.
func (c *Client) Serving(ctx context.Context) (bool, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return false, err
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}

func (c *Client) CheckIn(ctx context.Context, req *CheckInRequest) (*AttendanceReply, error) {
	out := new(AttendanceReply)
	if err := c.conn.Invoke(ctx, fullMethod("CheckIn"), req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CheckOut(ctx context.Context, req *CheckOutRequest) (*AttendanceReply, error) {
	out := new(AttendanceReply)
	if err := c.conn.Invoke(ctx, fullMethod("CheckOut"), req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkByBarcode(ctx context.Context, req *MarkByBarcodeRequest) (*AttendanceReply, error) {
	out := new(AttendanceReply)
	if err := c.conn.Invoke(ctx, fullMethod("MarkByBarcode"), req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSale(ctx context.Context, req *CreateSaleRequest) (*SaleReply, error) {
	out := new(SaleReply)
	if err := c.conn.Invoke(ctx, fullMethod("CreateSale"), req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSale(ctx context.Context, req *GetSaleRequest) (*SaleReply, error) {
	out := new(SaleReply)
	if err := c.conn.Invoke(ctx, fullMethod("GetSale"), req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GeneratePayslip(ctx context.Context, req *GeneratePayslipRequest) (*PayslipReply, error) {
	out := new(PayslipReply)
	if err := c.conn.Invoke(ctx, fullMethod("GeneratePayslip"), req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReviewLeave(ctx context.Context, req *ReviewLeaveRequest) (*LeaveReply, error) {
	out := new(LeaveReply)
	if err := c.conn.Invoke(ctx, fullMethod("ReviewLeave"), req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}
