package handler

import (
	"context"

	apprevenue "github.com/erp/backoffice/internal/application/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// PermissionRevenueWrite guards the revenue center write routes when auth is enabled
const PermissionRevenueWrite = "revenue:write"

// RevenueCenterService is the CRUD surface the handler drives
type RevenueCenterService interface {
	Create(ctx context.Context, req apprevenue.CreateRevenueCenterRequest) (*apprevenue.RevenueCenterResponse, error)
	Update(ctx context.Context, id uint, req apprevenue.UpdateRevenueCenterRequest) (*apprevenue.RevenueCenterResponse, error)
	Recalculate(ctx context.Context, id uint) (*apprevenue.RevenueCenterResponse, error)
	FindByID(ctx context.Context, id uint) (*apprevenue.RevenueCenterResponse, error)
	FindAll(ctx context.Context, query apprevenue.ListRevenueCenterQuery) (*apprevenue.Paginated[apprevenue.RevenueCenterResponse], error)
}

// RevenueReportService is the reporting surface the handler drives
type RevenueReportService interface {
	FindAllMaterial(ctx context.Context, id uint, page shared.Page) (*apprevenue.Paginated[apprevenue.InputRowResponse], error)
	FindAllInputs(ctx context.Context, id uint, page shared.Page) (*apprevenue.Paginated[apprevenue.InputRowResponse], error)
	FindAllEpp(ctx context.Context, id uint, page shared.Page) (*apprevenue.Paginated[apprevenue.InputRowResponse], error)
	FindAllExpenditures(ctx context.Context, id uint, page shared.Page) (*apprevenue.Paginated[apprevenue.ExpenditureResponse], error)
	FindAllContractedSummary(ctx context.Context, id uint, page shared.Page) (*apprevenue.Paginated[apprevenue.ContractedLineResponse], error)
	FindAllWorkTracking(ctx context.Context, id *uint, page shared.Page) (*apprevenue.Paginated[apprevenue.WorkTrackingResponse], error)
	FindAllQuotation(ctx context.Context, id *uint, page shared.Page) (*apprevenue.Paginated[apprevenue.QuotationRowResponse], error)
	FindAllInvoiceSummary(ctx context.Context, id uint) (*apprevenue.InvoiceSummaryResponse, error)
	FindAllMaterialSummaryDetail(ctx context.Context, id uint, page shared.Page) (*apprevenue.Paginated[apprevenue.MaterialSummaryResponse], error)
	Export(ctx context.Context, id uint, view string) (*apprevenue.ExportFile, error)
}

// RevenueCenterHandler serves /revenue-center
type RevenueCenterHandler struct {
	BaseHandler
	centers RevenueCenterService
	reports RevenueReportService
}

// NewRevenueCenterHandler creates a new RevenueCenterHandler
func NewRevenueCenterHandler(centers RevenueCenterService, reports RevenueReportService) *RevenueCenterHandler {
	return &RevenueCenterHandler{centers: centers, reports: reports}
}

// Routes builds the revenue center route group. With requireAuth the write
// routes additionally need PermissionRevenueWrite.
func (h *RevenueCenterHandler) Routes(requireAuth bool) *router.DomainGroup {
	var guard []gin.HandlerFunc
	if requireAuth {
		guard = append(guard, middleware.RequirePermission(PermissionRevenueWrite))
	}
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guard...), handler)
	}

	g := router.NewDomainGroup("revenue-center", "/revenue-center")
	g.GET("", h.List)
	g.POST("", write(h.Create)...)
	g.GET("/work-tracking", h.WorkTracking)
	g.GET("/quotation", h.Quotation)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", write(h.Update)...)
	g.POST("/:id/recalculate", write(h.Recalculate)...)
	g.GET("/:id/material", h.Material)
	g.GET("/:id/inputs", h.Inputs)
	g.GET("/:id/epp", h.Epp)
	g.GET("/:id/expenditures", h.Expenditures)
	g.GET("/:id/contracted-summary", h.ContractedSummary)
	g.GET("/:id/work-tracking", h.WorkTracking)
	g.GET("/:id/quotation", h.Quotation)
	g.GET("/:id/invoice-summary", h.InvoiceSummary)
	g.GET("/:id/material-summary-detail", h.MaterialSummaryDetail)
	g.GET("/:id/export/:view", h.Export)
	return g
}

// =============================================================================
// CRUD
// =============================================================================

// List handles GET /revenue-center
func (h *RevenueCenterHandler) List(c *gin.Context) {
	var query apprevenue.ListRevenueCenterQuery
	if !h.BindQuery(c, &query) {
		return
	}
	result, err := h.centers.FindAll(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Create handles POST /revenue-center
func (h *RevenueCenterHandler) Create(c *gin.Context) {
	var req apprevenue.CreateRevenueCenterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.centers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get handles GET /revenue-center/:id
func (h *RevenueCenterHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	result, err := h.centers.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Update handles PATCH /revenue-center/:id
func (h *RevenueCenterHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req apprevenue.UpdateRevenueCenterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.centers.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Recalculate handles POST /revenue-center/:id/recalculate
func (h *RevenueCenterHandler) Recalculate(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	result, err := h.centers.Recalculate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// =============================================================================
// Reports
// =============================================================================

// servePaged parses :id and the page query, then answers with the view result.
func servePaged[T any](h *RevenueCenterHandler, c *gin.Context, view func(context.Context, uint, shared.Page) (*apprevenue.Paginated[T], error)) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var query apprevenue.PageQuery
	if !h.BindQuery(c, &query) {
		return
	}
	result, err := view(c.Request.Context(), id, query.ToPage())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// optionalID reads :id when the route carries one. Routes without the
// parameter aggregate across every revenue center.
func (h *RevenueCenterHandler) optionalID(c *gin.Context) (*uint, bool) {
	if c.Param("id") == "" {
		return nil, true
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return nil, false
	}
	return &id, true
}

// Material handles GET /revenue-center/:id/material
func (h *RevenueCenterHandler) Material(c *gin.Context) {
	servePaged(h, c, h.reports.FindAllMaterial)
}

// Inputs handles GET /revenue-center/:id/inputs
func (h *RevenueCenterHandler) Inputs(c *gin.Context) {
	servePaged(h, c, h.reports.FindAllInputs)
}

// Epp handles GET /revenue-center/:id/epp
func (h *RevenueCenterHandler) Epp(c *gin.Context) {
	servePaged(h, c, h.reports.FindAllEpp)
}

// Expenditures handles GET /revenue-center/:id/expenditures
func (h *RevenueCenterHandler) Expenditures(c *gin.Context) {
	servePaged(h, c, h.reports.FindAllExpenditures)
}

// ContractedSummary handles GET /revenue-center/:id/contracted-summary
func (h *RevenueCenterHandler) ContractedSummary(c *gin.Context) {
	servePaged(h, c, h.reports.FindAllContractedSummary)
}

// MaterialSummaryDetail handles GET /revenue-center/:id/material-summary-detail
func (h *RevenueCenterHandler) MaterialSummaryDetail(c *gin.Context) {
	servePaged(h, c, h.reports.FindAllMaterialSummaryDetail)
}

// WorkTracking handles GET /revenue-center/work-tracking and GET /revenue-center/:id/work-tracking
func (h *RevenueCenterHandler) WorkTracking(c *gin.Context) {
	id, ok := h.optionalID(c)
	if !ok {
		return
	}
	var query apprevenue.PageQuery
	if !h.BindQuery(c, &query) {
		return
	}
	result, err := h.reports.FindAllWorkTracking(c.Request.Context(), id, query.ToPage())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Quotation handles GET /revenue-center/quotation and GET /revenue-center/:id/quotation
func (h *RevenueCenterHandler) Quotation(c *gin.Context) {
	id, ok := h.optionalID(c)
	if !ok {
		return
	}
	var query apprevenue.PageQuery
	if !h.BindQuery(c, &query) {
		return
	}
	result, err := h.reports.FindAllQuotation(c.Request.Context(), id, query.ToPage())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// InvoiceSummary handles GET /revenue-center/:id/invoice-summary
func (h *RevenueCenterHandler) InvoiceSummary(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	result, err := h.reports.FindAllInvoiceSummary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Export handles GET /revenue-center/:id/export/:view
func (h *RevenueCenterHandler) Export(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	file, err := h.reports.Export(c.Request.Context(), id, c.Param("view"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, file.FileName, file.ContentType, file.Content)
}
