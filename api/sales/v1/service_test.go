package salesv1_test

import (
	"context"
	"net"
	"testing"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/codec"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeSales struct{}

func (fakeSales) Checkout(_ context.Context, in *salesv1.CheckoutRequest) (*salesv1.CheckoutResponse, error) {
	return &salesv1.CheckoutResponse{
		Sale:     &salesv1.Sale{SaleNumber: 7, IdempotencyKey: in.IdempotencyKey, Total: "320.00"},
		Replayed: true,
	}, nil
}

func (fakeSales) GetSale(context.Context, *salesv1.IDRequest) (*salesv1.SaleResponse, error) {
	return nil, status.Error(codes.NotFound, "sale not found")
}

func (fakeSales) ListSales(context.Context, *salesv1.ListSalesRequest) (*salesv1.ListSalesResponse, error) {
	return &salesv1.ListSalesResponse{}, nil
}

func (fakeSales) GetReceipt(context.Context, *salesv1.GetReceiptRequest) (*salesv1.ReceiptResponse, error) {
	return &salesv1.ReceiptResponse{}, nil
}

func dial(t *testing.T, opts ...grpc.ServerOption) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(opts...)
	salesv1.RegisterSaleServiceServer(srv, fakeSales{})
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codec.Name)),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestUnaryOverJSONCodec(t *testing.T) {
	var seen string
	conn := dial(t, grpc.UnaryInterceptor(func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		seen = info.FullMethod
		return handler(ctx, req)
	}))
	ctx := context.Background()

	out := &salesv1.CheckoutResponse{}
	err := conn.Invoke(ctx, salesv1.FullMethod("SaleService", "Checkout"), &salesv1.CheckoutRequest{IdempotencyKey: "k-1"}, out)
	if err != nil {
		t.Fatal(err)
	}
	if out.Sale == nil || out.Sale.SaleNumber != 7 || out.Sale.IdempotencyKey != "k-1" || !out.Replayed {
		t.Fatalf("response = %+v", out)
	}
	if seen != "/sales.v1.SaleService/Checkout" {
		t.Fatalf("interceptor saw %q", seen)
	}

	err = conn.Invoke(ctx, salesv1.FullMethod("SaleService", "GetSale"), &salesv1.IDRequest{ID: "x"}, &salesv1.SaleResponse{})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %s, want NotFound", status.Code(err))
	}
}

func TestServiceDescsAreComplete(t *testing.T) {
	descs := []*grpc.ServiceDesc{
		&salesv1.ProductService_ServiceDesc,
		&salesv1.CategoryService_ServiceDesc,
		&salesv1.CustomerService_ServiceDesc,
		&salesv1.CartService_ServiceDesc,
		&salesv1.SaleService_ServiceDesc,
		&salesv1.AccountService_ServiceDesc,
		&salesv1.InventoryService_ServiceDesc,
		&salesv1.ReportService_ServiceDesc,
		&salesv1.NotificationService_ServiceDesc,
	}
	names := map[string]bool{}
	for _, d := range descs {
		if names[d.ServiceName] {
			t.Errorf("duplicate service %s", d.ServiceName)
		}
		names[d.ServiceName] = true
		seen := map[string]bool{}
		for _, m := range d.Methods {
			if seen[m.MethodName] || m.Handler == nil {
				t.Errorf("%s: bad method %q", d.ServiceName, m.MethodName)
			}
			seen[m.MethodName] = true
		}
	}
}
