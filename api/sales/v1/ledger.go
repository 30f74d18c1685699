package salesv1

import (
	"context"

	"google.golang.org/grpc"
)

type AccountMovement struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customer_id"`
	SaleID       string `json:"sale_id,omitempty"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	BalanceAfter string `json:"balance_after"`
	Description  string `json:"description"`
	CreatedBy    string `json:"created_by,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type ManualMovementRequest struct {
	CustomerID string `json:"customer_id"`
	// Amount is positive; payments are stored negative.
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type MovementResponse struct {
	Movement *AccountMovement `json:"movement"`
	Credit   *CreditStatus    `json:"credit,omitempty"`
}

type ListMovementsRequest struct {
	CustomerID string `json:"customer_id"`
	Type       string `json:"type"`
	Page
}

type ListMovementsResponse struct {
	Movements []*AccountMovement `json:"movements"`
	Total     int32              `json:"total"`
	Page
}

type CustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

type CreditStatusResponse struct {
	Credit *CreditStatus `json:"credit"`
}

type VerifyLedgerResponse struct {
	CustomerID      string `json:"customer_id"`
	Movements       int32  `json:"movements"`
	ComputedBalance string `json:"computed_balance"`
	CachedBalance   string `json:"cached_balance"`
	Consistent      bool   `json:"consistent"`
	BrokenAt        string `json:"broken_at,omitempty"`
}

type AccountServiceServer interface {
	RecordPayment(context.Context, *ManualMovementRequest) (*MovementResponse, error)
	RecordCharge(context.Context, *ManualMovementRequest) (*MovementResponse, error)
	ListMovements(context.Context, *ListMovementsRequest) (*ListMovementsResponse, error)
	GetCreditStatus(context.Context, *CustomerRequest) (*CreditStatusResponse, error)
	VerifyLedger(context.Context, *CustomerRequest) (*VerifyLedgerResponse, error)
}

const accountService = "AccountService"

var AccountService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: servicePrefix + accountService,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(accountService, "RecordPayment", AccountServiceServer.RecordPayment),
		unary(accountService, "RecordCharge", AccountServiceServer.RecordCharge),
		unary(accountService, "ListMovements", AccountServiceServer.ListMovements),
		unary(accountService, "GetCreditStatus", AccountServiceServer.GetCreditStatus),
		unary(accountService, "VerifyLedger", AccountServiceServer.VerifyLedger),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sales/v1/ledger",
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountService_ServiceDesc, srv)
}

type StockMovement struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	SaleID         string `json:"sale_id,omitempty"`
	MovementType   string `json:"movement_type"`
	QuantityChange int32  `json:"quantity_change"`
	QuantityBefore int32  `json:"quantity_before"`
	QuantityAfter  int32  `json:"quantity_after"`
	Notes          string `json:"notes,omitempty"`
	CreatedBy      string `json:"created_by,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type AdjustStockRequest struct {
	ProductID      string `json:"product_id"`
	QuantityChange int32  `json:"quantity_change"`
	Reason         string `json:"reason"`
}

type StockMovementResponse struct {
	Movement *StockMovement `json:"movement"`
}

type ListStockMovementsRequest struct {
	ProductID    string `json:"product_id"`
	SaleID       string `json:"sale_id"`
	MovementType string `json:"movement_type"`
	From         string `json:"from"`
	To           string `json:"to"`
	Page
}

type ListStockMovementsResponse struct {
	Movements []*StockMovement `json:"movements"`
	Total     int32            `json:"total"`
	Page
}

type InventoryServiceServer interface {
	AdjustStock(context.Context, *AdjustStockRequest) (*StockMovementResponse, error)
	ListStockMovements(context.Context, *ListStockMovementsRequest) (*ListStockMovementsResponse, error)
}

const inventoryService = "InventoryService"

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: servicePrefix + inventoryService,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(inventoryService, "AdjustStock", InventoryServiceServer.AdjustStock),
		unary(inventoryService, "ListStockMovements", InventoryServiceServer.ListStockMovements),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sales/v1/ledger",
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}
