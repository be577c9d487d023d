package grpc

// proto.go hand-writes the service descriptor for credit.v1.CreditService.
// Messages are the application DTOs, carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"

	"github.com/bibbank/credit-service/internal/application/dto"
)

const serviceName = "credit.v1.CreditService"

// CreditServiceServer is the server API for CreditService.
type CreditServiceServer interface {
	RegisterCustomer(context.Context, *dto.RegisterCustomerRequest) (*dto.CustomerResponse, error)
	CheckEligibility(context.Context, *dto.LoanRequest) (*dto.EligibilityResponse, error)
	CreateLoan(context.Context, *dto.LoanRequest) (*dto.CreateLoanResponse, error)
	ViewLoan(context.Context, *dto.GetLoanRequest) (*dto.LoanResponse, error)
	ListCustomerLoans(context.Context, *dto.ListCustomerLoansRequest) (*ListCustomerLoansResponse, error)
	RecordRepayment(context.Context, *dto.RecordRepaymentRequest) (*dto.RepaymentResponse, error)
}

// ListCustomerLoansResponse wraps the loan list in a message.
type ListCustomerLoansResponse struct {
	Loans []dto.CustomerLoanResponse `json:"loans"`
}

// RegisterCreditServiceServer registers srv with the gRPC server.
func RegisterCreditServiceServer(s grpclib.ServiceRegistrar, srv CreditServiceServer) {
	s.RegisterService(&creditServiceDesc, srv)
}

var creditServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CreditServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "RegisterCustomer", Handler: unary("RegisterCustomer", CreditServiceServer.RegisterCustomer)},
		{MethodName: "CheckEligibility", Handler: unary("CheckEligibility", CreditServiceServer.CheckEligibility)},
		{MethodName: "CreateLoan", Handler: unary("CreateLoan", CreditServiceServer.CreateLoan)},
		{MethodName: "ViewLoan", Handler: unary("ViewLoan", CreditServiceServer.ViewLoan)},
		{MethodName: "ListCustomerLoans", Handler: unary("ListCustomerLoans", CreditServiceServer.ListCustomerLoans)},
		{MethodName: "RecordRepayment", Handler: unary("RecordRepayment", CreditServiceServer.RecordRepayment)},
	},
	Streams: []grpclib.StreamDesc{},
}

// FullMethod returns the gRPC method path of a CreditService method.
func FullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// unary builds the method handler that decodes Req, runs the interceptor
// chain, and dispatches to call.
func unary[Req, Resp any](
	method string,
	call func(CreditServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(CreditServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
