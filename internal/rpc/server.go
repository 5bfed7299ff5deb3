package rpc

import (
	"context"

	"syntra-bizops/internal/database/models"
	attendance "syntra-bizops/internal/services/attendance/handler"
	hr "syntra-bizops/internal/services/hr/handler"
	pos "syntra-bizops/internal/services/pos/handler"
	"syntra-bizops/internal/tenant"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

type Server struct {
	attendance *attendance.AttendanceHandler
	pos        *pos.POSHandler
	hr         *hr.HRHandler
}

func NewOperationsServer(att *attendance.AttendanceHandler, sales *pos.POSHandler, people *hr.HRHandler) *Server {
	return &Server{attendance: att, pos: sales, hr: people}
}

// NewServer builds a grpc.Server with the operations and health services
// registered behind the auth and logging interceptors.
func NewServer(ops OperationsServer, jwtSecret []byte, log logrus.FieldLogger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		LoggingInterceptor(log),
		AuthInterceptor(jwtSecret),
	))
	s := grpc.NewServer(opts...)
	s.RegisterService(&ServiceDesc, ops)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(s)
	return s, hs
}

func identity(ctx context.Context) (tenant.Identity, error) {
	id, ok := tenant.FromContext(ctx)
	if !ok {
		return tenant.Identity{}, status.Error(codes.Unauthenticated, "missing identity")
	}
	return id, nil
}

func (s *Server) CheckIn(ctx context.Context, req *CheckInRequest) (*AttendanceReply, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.attendance.CheckIn(ctx, id, req.UserID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &AttendanceReply{Attendance: rec}, nil
}

func (s *Server) CheckOut(ctx context.Context, req *CheckOutRequest) (*AttendanceReply, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.attendance.CheckOut(ctx, id, req.AttendanceID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &AttendanceReply{Attendance: rec}, nil
}

func (s *Server) MarkByBarcode(ctx context.Context, req *MarkByBarcodeRequest) (*AttendanceReply, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.attendance.MarkByBarcode(ctx, id, req.Barcode)
	if err != nil {
		return nil, toStatus(err)
	}
	return &AttendanceReply{Attendance: rec}, nil
}

func (s *Server) CreateSale(ctx context.Context, req *CreateSaleRequest) (*SaleReply, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	sale, err := s.pos.CreateSale(ctx, id, req.Sale)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SaleReply{Sale: sale}, nil
}

func (s *Server) GetSale(ctx context.Context, req *GetSaleRequest) (*SaleReply, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	sale, err := s.pos.GetSale(ctx, id, req.SaleID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SaleReply{Sale: sale}, nil
}

func (s *Server) GeneratePayslip(ctx context.Context, req *GeneratePayslipRequest) (*PayslipReply, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	payslip, err := s.hr.GeneratePayslip(ctx, id, req.UserID, req.Month, req.Year)
	if err != nil {
		return nil, toStatus(err)
	}
	return &PayslipReply{Payslip: payslip}, nil
}

func (s *Server) ReviewLeave(ctx context.Context, req *ReviewLeaveRequest) (*LeaveReply, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	leave, err := s.hr.ReviewLeave(ctx, id, req.LeaveID, models.LeaveStatus(req.Status))
	if err != nil {
		return nil, toStatus(err)
	}
	return &LeaveReply{Leave: leave}, nil
}
