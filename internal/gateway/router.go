// Package gateway assembles the HTTP API on top of the business handlers.
package gateway

import (
	"syntra-bizops/internal/gateway/handlers"
	"syntra-bizops/internal/gateway/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User       *handlers.UserHTTPHandler
	Attendance *handlers.AttendanceHTTPHandler
	Inventory  *handlers.InventoryHTTPHandler
	POS        *handlers.POSHTTPHandler
	HR         *handlers.HRHTTPHandler
	Analytics  *handlers.AnalyticsHTTPHandler
	Messages   *handlers.MessageHTTPHandler
}

// RegisterRoutes mounts the public and protected /api/v1 groups on r.
func RegisterRoutes(r *gin.Engine, jwtSecret []byte, h Handlers) {
	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		public.POST("/organizations", h.User.RegisterOrganization)
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtSecret))
	{
		protected.GET("/organization", h.User.GetOrganization)

		staff := protected.Group("/staff")
		{
			staff.POST("", h.User.AddStaff)
			staff.GET("", h.User.ListStaff)
			staff.DELETE("/:id", h.User.RemoveStaff)
			staff.POST("/:id/barcode", h.User.IssueBarcode)
		}

		attendance := protected.Group("/attendance")
		{
			attendance.POST("/check-in", h.Attendance.CheckIn)
			attendance.POST("/:id/check-out", h.Attendance.CheckOut)
			attendance.POST("/mark", h.Attendance.Mark)
			attendance.POST("/scan", h.Attendance.Scan)
			attendance.GET("", h.Attendance.List)
			attendance.GET("/me", h.Attendance.ListMine)
			attendance.GET("/users/:id", h.Attendance.ListForUser)
		}

		products := protected.Group("/products")
		{
			products.POST("", h.Inventory.CreateProduct)
			products.GET("", h.Inventory.ListProducts)
			products.GET("/low-stock", h.Inventory.LowStock)
			products.GET("/:id", h.Inventory.GetProduct)
			products.PUT("/:id", h.Inventory.UpdateProduct)
			products.DELETE("/:id", h.Inventory.ArchiveProduct)
			products.POST("/:id/stock", h.Inventory.AdjustStock)
			products.GET("/:id/movements", h.Inventory.StockHistory)
		}

		sales := protected.Group("/sales")
		{
			sales.POST("", h.POS.CreateSale)
			sales.GET("", h.POS.ListSales)
			sales.GET("/:id", h.POS.GetSale)
			sales.GET("/:id/receipt", h.POS.Receipt)
		}

		salaries := protected.Group("/salaries")
		{
			salaries.GET("", h.HR.ListSalaries)
			salaries.GET("/me", h.HR.MySalary)
			salaries.PUT("/:user_id", h.HR.SetSalary)
		}

		payslips := protected.Group("/payslips")
		{
			payslips.POST("", h.HR.GeneratePayslip)
			payslips.GET("", h.HR.ListPayslips)
			payslips.GET("/me", h.HR.MyPayslips)
		}

		leaves := protected.Group("/leaves")
		{
			leaves.POST("", h.HR.ApplyLeave)
			leaves.GET("", h.HR.ListLeaves)
			leaves.GET("/me", h.HR.MyLeaves)
			leaves.POST("/:id/review", h.HR.ReviewLeave)
		}

		analytics := protected.Group("/analytics")
		{
			analytics.GET("/overview", h.Analytics.Overview)
			analytics.GET("/attendance", h.Analytics.AttendanceSummary)
			analytics.GET("/attendance/daily", h.Analytics.DailyAttendance)
			analytics.GET("/staff-performance", h.Analytics.StaffPerformance)
			analytics.GET("/sales", h.Analytics.SalesSummary)
			analytics.GET("/sales/daily", h.Analytics.DailySales)
			analytics.GET("/top-products", h.Analytics.TopProducts)
			analytics.GET("/payroll", h.Analytics.PayrollSummary)
		}

		messages := protected.Group("/messages")
		{
			messages.POST("", h.Messages.Send)
			messages.POST("/reply", h.Messages.Reply)
			messages.GET("/inbox", h.Messages.Inbox)
			messages.GET("/replies", h.Messages.Replies)
			messages.POST("/:id/read", h.Messages.MarkRead)
		}
	}
}
