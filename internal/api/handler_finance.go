package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"property-backoffice/internal/billing"
	"property-backoffice/internal/export"
	"property-backoffice/internal/model"
	"property-backoffice/internal/parse"
)

const maxReportMonths = 120

// reportSince resolves ?months= into the first month of the report window.
func (h *Handler) reportSince(c *gin.Context) (time.Time, error) {
	months := h.cfg.Finance.ReportMonths
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxReportMonths {
			return time.Time{}, fmt.Errorf("months must be a number between 1 and %d", maxReportMonths)
		}
		months = n
	}
	return billing.MonthStart(h.now()).AddDate(0, -(months - 1), 0), nil
}

// GetFinance handles GET /api/apartments/:id/finance?months=N.
func (h *Handler) GetFinance(c *gin.Context) {
	since, err := h.reportSince(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.store.FinanceReport(c.Request.Context(), c.Param("id"), since)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// FinanceXLSX handles GET /api/apartments/:id/finance.xlsx?months=N.
func (h *Handler) FinanceXLSX(c *gin.Context) {
	since, err := h.reportSince(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.store.FinanceReport(c.Request.Context(), c.Param("id"), since)
	if err != nil {
		h.fail(c, err)
		return
	}
	data, err := export.FinanceXLSX(report)
	if err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, fmt.Sprintf("finance-%s.xlsx", parse.FormatMonth(h.now())), data)
}

type mortgageRequest struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	LoanAmount     float64 `json:"loanAmount"`
	InterestRate   float64 `json:"interestRate"`
}

// PutMortgage handles PUT /api/apartments/:id/mortgage.
func (h *Handler) PutMortgage(c *gin.Context) {
	var req mortgageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := h.store.UpsertMortgage(c.Request.Context(), &model.Mortgage{
		ApartmentID:    c.Param("id"),
		MonthlyPayment: req.MonthlyPayment,
		LoanAmount:     req.LoanAmount,
		InterestRate:   req.InterestRate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type expenseRequest struct {
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Month       string  `json:"month"`
	Description string  `json:"description"`
}

// PutExpense handles PUT /api/apartments/:id/expenses. One entry is kept per
// category and month; a second PUT replaces the first.
func (h *Handler) PutExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	month, err := h.month(req.Month)
	if err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.store.UpsertExpense(c.Request.Context(), &model.Expense{
		ApartmentID: c.Param("id"),
		Category:    req.Category,
		Amount:      req.Amount,
		RecordMonth: datatypes.Date(month),
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// DeleteExpense handles DELETE /api/expenses/:expense_id.
func (h *Handler) DeleteExpense(c *gin.Context) {
	if err := h.store.DeleteExpense(c.Request.Context(), c.Param("expense_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type maintenanceRequest struct {
	RoomID      *string `json:"roomId"`
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category"`
	Cost        float64 `json:"cost"`
	RecordDate  string  `json:"recordDate"`
}

// CreateMaintenance handles POST /api/apartments/:id/maintenance.
func (h *Handler) CreateMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ticket := &model.Maintenance{
		ApartmentID: c.Param("id"),
		RoomID:      req.RoomID,
		Description: req.Description,
		Category:    req.Category,
		Cost:        req.Cost,
	}
	if req.RecordDate != "" {
		d, err := time.ParseInLocation(time.DateOnly, req.RecordDate, time.UTC)
		if err != nil {
			badRequest(c, fmt.Errorf("invalid recordDate %q, expected YYYY-MM-DD", req.RecordDate))
			return
		}
		ticket.RecordDate = datatypes.Date(d)
	}
	if err := h.store.CreateMaintenance(c.Request.Context(), ticket); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

type maintenanceStatusRequest struct {
	Status model.MaintenanceStatus `json:"status" binding:"required"`
}

// UpdateMaintenanceStatus handles PUT /api/maintenance/:ticket_id/status.
func (h *Handler) UpdateMaintenanceStatus(c *gin.Context) {
	var req maintenanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ticket, err := h.store.UpdateMaintenanceStatus(c.Request.Context(), c.Param("ticket_id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// DeleteMaintenance handles DELETE /api/maintenance/:ticket_id.
func (h *Handler) DeleteMaintenance(c *gin.Context) {
	if err := h.store.DeleteMaintenance(c.Request.Context(), c.Param("ticket_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
