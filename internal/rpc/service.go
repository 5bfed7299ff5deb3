// Package rpc exposes the business handlers as the gRPC service
// bizops.v1.Operations. Messages travel as JSON.
package rpc

import (
	"context"

	"syntra-bizops/internal/database/models"
	pos "syntra-bizops/internal/services/pos/handler"

	"google.golang.org/grpc"
)

const ServiceName = "bizops.v1.Operations"

type CheckInRequest struct {
	UserID uint `json:"user_id"`
}

type CheckOutRequest struct {
	AttendanceID uint `json:"attendance_id"`
}

type MarkByBarcodeRequest struct {
	Barcode string `json:"barcode"`
}

type AttendanceReply struct {
	Attendance *models.Attendance `json:"attendance"`
}

type CreateSaleRequest struct {
	Sale pos.SaleInput `json:"sale"`
}

type GetSaleRequest struct {
	SaleID uint `json:"sale_id"`
}

type SaleReply struct {
	Sale *models.Sale `json:"sale"`
}

type GeneratePayslipRequest struct {
	UserID uint `json:"user_id"`
	Month  int  `json:"month"`
	Year   int  `json:"year"`
}

type PayslipReply struct {
	Payslip *models.Payslip `json:"payslip"`
}

type ReviewLeaveRequest struct {
	LeaveID uint   `json:"leave_id"`
	Status  string `json:"status"`
}

type LeaveReply struct {
	Leave *models.Leave `json:"leave"`
}

type OperationsServer interface {
	CheckIn(context.Context, *CheckInRequest) (*AttendanceReply, error)
	CheckOut(context.Context, *CheckOutRequest) (*AttendanceReply, error)
	MarkByBarcode(context.Context, *MarkByBarcodeRequest) (*AttendanceReply, error)
	CreateSale(context.Context, *CreateSaleRequest) (*SaleReply, error)
	GetSale(context.Context, *GetSaleRequest) (*SaleReply, error)
	GeneratePayslip(context.Context, *GeneratePayslipRequest) (*PayslipReply, error)
	ReviewLeave(context.Context, *ReviewLeaveRequest) (*LeaveReply, error)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(OperationsServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(OperationsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(OperationsServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OperationsServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CheckIn", OperationsServer.CheckIn),
		unary("CheckOut", OperationsServer.CheckOut),
		unary("MarkByBarcode", OperationsServer.MarkByBarcode),
		unary("CreateSale", OperationsServer.CreateSale),
		unary("GetSale", OperationsServer.GetSale),
		unary("GeneratePayslip", OperationsServer.GeneratePayslip),
		unary("ReviewLeave", OperationsServer.ReviewLeave),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bizops/v1/operations",
}
