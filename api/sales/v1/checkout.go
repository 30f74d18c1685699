package salesv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

type CartLine struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Stock     int32  `json:"stock"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Discount  string `json:"discount"`
	Total     string `json:"total"`
}

type CartCustomer struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	CurrentBalance string `json:"current_balance"`
	CreditLimit    string `json:"credit_limit"`
}

type Cart struct {
	Items         []*CartLine   `json:"items"`
	Customer      *CartCustomer `json:"customer,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Notes         string        `json:"notes"`
	Subtotal      string        `json:"subtotal"`
	Discount      string        `json:"discount"`
	Total         string        `json:"total"`
	ItemCount     int32         `json:"item_count"`
}

type CartResponse struct {
	Cart *Cart `json:"cart"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type RemoveItemRequest struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type UpdateDiscountRequest struct {
	ProductID string `json:"product_id"`
	Discount  string `json:"discount"`
}

type SetCustomerRequest struct {
	// CustomerID empty deselects the customer.
	CustomerID string `json:"customer_id"`
}

type SetPaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type SetNotesRequest struct {
	Notes string `json:"notes"`
}

type CartServiceServer interface {
	GetCart(context.Context, *emptypb.Empty) (*CartResponse, error)
	AddItem(context.Context, *AddItemRequest) (*CartResponse, error)
	RemoveItem(context.Context, *RemoveItemRequest) (*CartResponse, error)
	UpdateQuantity(context.Context, *UpdateQuantityRequest) (*CartResponse, error)
	UpdateDiscount(context.Context, *UpdateDiscountRequest) (*CartResponse, error)
	SetCustomer(context.Context, *SetCustomerRequest) (*CartResponse, error)
	SetPaymentMethod(context.Context, *SetPaymentMethodRequest) (*CartResponse, error)
	SetNotes(context.Context, *SetNotesRequest) (*CartResponse, error)
	ClearCart(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

const cartService = "CartService"

var CartService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: servicePrefix + cartService,
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(cartService, "GetCart", CartServiceServer.GetCart),
		unary(cartService, "AddItem", CartServiceServer.AddItem),
		unary(cartService, "RemoveItem", CartServiceServer.RemoveItem),
		unary(cartService, "UpdateQuantity", CartServiceServer.UpdateQuantity),
		unary(cartService, "UpdateDiscount", CartServiceServer.UpdateDiscount),
		unary(cartService, "SetCustomer", CartServiceServer.SetCustomer),
		unary(cartService, "SetPaymentMethod", CartServiceServer.SetPaymentMethod),
		unary(cartService, "SetNotes", CartServiceServer.SetNotes),
		unary(cartService, "ClearCart", CartServiceServer.ClearCart),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sales/v1/checkout",
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&CartService_ServiceDesc, srv)
}

type SaleItem struct {
	ProductID   string `json:"product_id"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
}

type Sale struct {
	ID             string      `json:"id"`
	SaleNumber     int64       `json:"sale_number"`
	Business       string      `json:"business"`
	CustomerID     string      `json:"customer_id,omitempty"`
	CustomerName   string      `json:"customer_name,omitempty"`
	SellerID       string      `json:"seller_id"`
	SellerName     string      `json:"seller_name"`
	Status         string      `json:"status"`
	Subtotal       string      `json:"subtotal"`
	Discount       string      `json:"discount"`
	Tax            string      `json:"tax"`
	Total          string      `json:"total"`
	PaymentMethod  string      `json:"payment_method"`
	Notes          string      `json:"notes,omitempty"`
	IdempotencyKey string      `json:"idempotency_key"`
	CreatedAt      string      `json:"created_at"`
	Items          []*SaleItem `json:"items,omitempty"`
}

type Receipt struct {
	SaleNumber    int64       `json:"sale_number"`
	BusinessName  string      `json:"business_name"`
	Items         []*SaleItem `json:"items"`
	CustomerName  string      `json:"customer_name,omitempty"`
	PaymentMethod string      `json:"payment_method"`
	PaymentLabel  string      `json:"payment_label"`
	Subtotal      string      `json:"subtotal"`
	Discount      string      `json:"discount"`
	Total         string      `json:"total"`
	SellerName    string      `json:"seller_name"`
	Notes         string      `json:"notes,omitempty"`
	BalanceAfter  string      `json:"balance_after,omitempty"`
	IssuedAt      string      `json:"issued_at"`
	// Text is the ticket laid out for a 40-column printer.
	Text string `json:"text"`
}

type CreditStatus struct {
	CustomerID   string `json:"customer_id"`
	Balance      string `json:"balance"`
	CreditLimit  string `json:"credit_limit"`
	Available    string `json:"available"`
	UsagePercent string `json:"usage_percent"`
	State        string `json:"state"`
}

type CheckoutRequest struct {
	// IdempotencyKey must be resent unchanged when a checkout is retried.
	IdempotencyKey string `json:"idempotency_key"`
}

type CheckoutResponse struct {
	Sale        *Sale         `json:"sale"`
	Receipt     *Receipt      `json:"receipt"`
	Credit      *CreditStatus `json:"credit,omitempty"`
	Replayed    bool          `json:"replayed"`
	CartCleared bool          `json:"cart_cleared"`
}

type SaleResponse struct {
	Sale *Sale `json:"sale"`
}

type ListSalesRequest struct {
	CustomerID    string `json:"customer_id"`
	SellerID      string `json:"seller_id"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	From          string `json:"from"`
	To            string `json:"to"`
	Page
}

type ListSalesResponse struct {
	Sales []*Sale `json:"sales"`
	Total int32   `json:"total"`
	Page
}

type GetReceiptRequest struct {
	SaleNumber int64  `json:"sale_number"`
	Language   string `json:"language"`
}

type ReceiptResponse struct {
	Receipt *Receipt `json:"receipt"`
}

type SaleServiceServer interface {
	Checkout(context.Context, *CheckoutRequest) (*CheckoutResponse, error)
	GetSale(context.Context, *IDRequest) (*SaleResponse, error)
	ListSales(context.Context, *ListSalesRequest) (*ListSalesResponse, error)
	GetReceipt(context.Context, *GetReceiptRequest) (*ReceiptResponse, error)
}

const saleService = "SaleService"

var SaleService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: servicePrefix + saleService,
	HandlerType: (*SaleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(saleService, "Checkout", SaleServiceServer.Checkout),
		unary(saleService, "GetSale", SaleServiceServer.GetSale),
		unary(saleService, "ListSales", SaleServiceServer.ListSales),
		unary(saleService, "GetReceipt", SaleServiceServer.GetReceipt),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sales/v1/checkout",
}

func RegisterSaleServiceServer(s grpc.ServiceRegistrar, srv SaleServiceServer) {
	s.RegisterService(&SaleService_ServiceDesc, srv)
}
