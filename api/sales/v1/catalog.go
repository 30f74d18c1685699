package salesv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

type Product struct {
	ID            string `json:"id"`
	Business      string `json:"business"`
	CategoryID    string `json:"category_id,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	PurchasePrice string `json:"purchase_price"`
	SalePrice     string `json:"sale_price"`
	Stock         int32  `json:"stock"`
	MinStock      int32  `json:"min_stock"`
	Active        bool   `json:"active"`
	LowStock      bool   `json:"low_stock"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type CreateProductRequest struct {
	CategoryID    string `json:"category_id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
	PurchasePrice string `json:"purchase_price"`
	SalePrice     string `json:"sale_price"`
	Stock         int32  `json:"stock"`
	MinStock      int32  `json:"min_stock"`
}

type UpdateProductRequest struct {
	ID            string `json:"id"`
	CategoryID    string `json:"category_id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
	PurchasePrice string `json:"purchase_price"`
	SalePrice     string `json:"sale_price"`
	MinStock      int32  `json:"min_stock"`
	Active        bool   `json:"active"`
}

type ProductResponse struct {
	Product *Product `json:"product"`
}

type ListProductsRequest struct {
	Query      string `json:"query"`
	CategoryID string `json:"category_id"`
	OnlyActive bool   `json:"only_active"`
	InStock    bool   `json:"in_stock"`
	SortBy     string `json:"sort_by"`
	SortOrder  string `json:"sort_order"`
	Page
}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
	Total    int32      `json:"total"`
	Page
}

type ListLowStockRequest struct {
	Limit int32 `json:"limit"`
}

type ProductServiceServer interface {
	CreateProduct(context.Context, *CreateProductRequest) (*ProductResponse, error)
	GetProduct(context.Context, *IDRequest) (*ProductResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*ProductResponse, error)
	DeleteProduct(context.Context, *IDRequest) (*emptypb.Empty, error)
	ListLowStock(context.Context, *ListLowStockRequest) (*ListProductsResponse, error)
}

const productService = "ProductService"

var ProductService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: servicePrefix + productService,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(productService, "CreateProduct", ProductServiceServer.CreateProduct),
		unary(productService, "GetProduct", ProductServiceServer.GetProduct),
		unary(productService, "ListProducts", ProductServiceServer.ListProducts),
		unary(productService, "UpdateProduct", ProductServiceServer.UpdateProduct),
		unary(productService, "DeleteProduct", ProductServiceServer.DeleteProduct),
		unary(productService, "ListLowStock", ProductServiceServer.ListLowStock),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sales/v1/catalog",
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductService_ServiceDesc, srv)
}

type Category struct {
	ID          string `json:"id"`
	Business    string `json:"business"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	Category *Category `json:"category"`
}

type ListCategoriesRequest struct {
	Query string `json:"query"`
	Page
}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
	Total      int32       `json:"total"`
	Page
}

type CategoryServiceServer interface {
	CreateCategory(context.Context, *CreateCategoryRequest) (*CategoryResponse, error)
	GetCategory(context.Context, *IDRequest) (*CategoryResponse, error)
	ListCategories(context.Context, *ListCategoriesRequest) (*ListCategoriesResponse, error)
	UpdateCategory(context.Context, *UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(context.Context, *IDRequest) (*emptypb.Empty, error)
}

const categoryService = "CategoryService"

var CategoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: servicePrefix + categoryService,
	HandlerType: (*CategoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(categoryService, "CreateCategory", CategoryServiceServer.CreateCategory),
		unary(categoryService, "GetCategory", CategoryServiceServer.GetCategory),
		unary(categoryService, "ListCategories", CategoryServiceServer.ListCategories),
		unary(categoryService, "UpdateCategory", CategoryServiceServer.UpdateCategory),
		unary(categoryService, "DeleteCategory", CategoryServiceServer.DeleteCategory),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sales/v1/catalog",
}

func RegisterCategoryServiceServer(s grpc.ServiceRegistrar, srv CategoryServiceServer) {
	s.RegisterService(&CategoryService_ServiceDesc, srv)
}

type Customer struct {
	ID             string `json:"id"`
	Business       string `json:"business"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	TaxID          string `json:"tax_id,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	Active         bool   `json:"active"`
	CreditLimit    string `json:"credit_limit"`
	CurrentBalance string `json:"current_balance"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type CreateCustomerRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	TaxID       string `json:"tax_id"`
	Address     string `json:"address"`
	City        string `json:"city"`
	CreditLimit string `json:"credit_limit"`
}

type UpdateCustomerRequest struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	TaxID       string `json:"tax_id"`
	Address     string `json:"address"`
	City        string `json:"city"`
	CreditLimit string `json:"credit_limit"`
	Active      bool   `json:"active"`
}

type CustomerResponse struct {
	Customer *Customer `json:"customer"`
}

type ListCustomersRequest struct {
	Query       string `json:"query"`
	OnlyActive  bool   `json:"only_active"`
	WithBalance bool   `json:"with_balance"`
	Page
}

type ListCustomersResponse struct {
	Customers []*Customer `json:"customers"`
	Total     int32       `json:"total"`
	Page
}

type CustomerServiceServer interface {
	CreateCustomer(context.Context, *CreateCustomerRequest) (*CustomerResponse, error)
	GetCustomer(context.Context, *IDRequest) (*CustomerResponse, error)
	ListCustomers(context.Context, *ListCustomersRequest) (*ListCustomersResponse, error)
	UpdateCustomer(context.Context, *UpdateCustomerRequest) (*CustomerResponse, error)
}

const customerService = "CustomerService"

var CustomerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: servicePrefix + customerService,
	HandlerType: (*CustomerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(customerService, "CreateCustomer", CustomerServiceServer.CreateCustomer),
		unary(customerService, "GetCustomer", CustomerServiceServer.GetCustomer),
		unary(customerService, "ListCustomers", CustomerServiceServer.ListCustomers),
		unary(customerService, "UpdateCustomer", CustomerServiceServer.UpdateCustomer),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sales/v1/catalog",
}

func RegisterCustomerServiceServer(s grpc.ServiceRegistrar, srv CustomerServiceServer) {
	s.RegisterService(&CustomerService_ServiceDesc, srv)
}
