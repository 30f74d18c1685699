// Package salesv1 declares the gRPC services of the sales API. Messages are plain
// structs carried by the JSON codec in internal/pkg/codec; money travels as decimal
// strings and times as RFC 3339.
package salesv1

import (
	"context"

	"google.golang.org/grpc"
)

const servicePrefix = "sales.v1."

// unary builds the MethodDesc of one unary RPC on a server of type S.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + servicePrefix + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod returns the gRPC method path, e.g. /sales.v1.SaleService/Checkout.
func FullMethod(service, method string) string {
	return "/" + servicePrefix + service + "/" + method
}

// Page is the pagination block shared by list requests and responses.
type Page struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

type IDRequest struct {
	ID string `json:"id"`
}
