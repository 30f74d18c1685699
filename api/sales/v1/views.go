package salesv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

type ProductSales struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	Revenue   string `json:"revenue"`
}

type Bucket struct {
	Label   string `json:"label"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Revenue string `json:"revenue"`
	Count   int32  `json:"count"`
}

type MethodTotal struct {
	Method string `json:"method"`
	Label  string `json:"label"`
	Total  string `json:"total"`
	Count  int32  `json:"count"`
}

type Dashboard struct {
	TodayRevenue string          `json:"today_revenue"`
	TodaySales   int32           `json:"today_sales"`
	WeekRevenue  string          `json:"week_revenue"`
	MonthRevenue string          `json:"month_revenue"`
	Products     int32           `json:"products"`
	LowStock     int32           `json:"low_stock"`
	Customers    int32           `json:"customers"`
	Daily        []*Bucket       `json:"daily"`
	Weekly       []*Bucket       `json:"weekly"`
	TopProducts  []*ProductSales `json:"top_products"`
	LeastSold    []*ProductSales `json:"least_sold"`
}

type DashboardResponse struct {
	Dashboard *Dashboard `json:"dashboard"`
}

type SalesReportRequest struct {
	// Period is daily, weekly, monthly or custom; From and To (YYYY-MM-DD) apply to custom.
	Period string `json:"period"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type SalesReport struct {
	Period          string          `json:"period"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	Buckets         []*Bucket       `json:"buckets"`
	Revenue         string          `json:"revenue"`
	SalesCount      int32           `json:"sales_count"`
	AverageTicket   string          `json:"average_ticket"`
	PreviousRevenue string          `json:"previous_revenue"`
	ChangePercent   string          `json:"change_percent"`
	PaymentMethods  []*MethodTotal  `json:"payment_methods"`
	TopProducts     []*ProductSales `json:"top_products"`
	LeastSold       []*ProductSales `json:"least_sold"`
}

type SalesReportResponse struct {
	Report *SalesReport `json:"report"`
}

type ReportServiceServer interface {
	GetDashboard(context.Context, *emptypb.Empty) (*DashboardResponse, error)
	GetSalesReport(context.Context, *SalesReportRequest) (*SalesReportResponse, error)
}

const reportService = "ReportService"

var ReportService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: servicePrefix + reportService,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(reportService, "GetDashboard", ReportServiceServer.GetDashboard),
		unary(reportService, "GetSalesReport", ReportServiceServer.GetSalesReport),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sales/v1/views",
}

func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ReportService_ServiceDesc, srv)
}

type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

type ListNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int32           `json:"unread_count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

type NotificationServiceServer interface {
	ListNotifications(context.Context, *emptypb.Empty) (*ListNotificationsResponse, error)
	MarkRead(context.Context, *IDRequest) (*emptypb.Empty, error)
	MarkAllRead(context.Context, *emptypb.Empty) (*MarkAllReadResponse, error)
}

const notificationService = "NotificationService"

var NotificationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: servicePrefix + notificationService,
	HandlerType: (*NotificationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(notificationService, "ListNotifications", NotificationServiceServer.ListNotifications),
		unary(notificationService, "MarkRead", NotificationServiceServer.MarkRead),
		unary(notificationService, "MarkAllRead", NotificationServiceServer.MarkAllRead),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sales/v1/views",
}

func RegisterNotificationServiceServer(s grpc.ServiceRegistrar, srv NotificationServiceServer) {
	s.RegisterService(&NotificationService_ServiceDesc, srv)
}
