package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"property-backoffice/internal/billing"
	"property-backoffice/internal/events"
	"property-backoffice/internal/export"
	"property-backoffice/internal/model"
	"property-backoffice/internal/parse"
	"property-backoffice/internal/store"
)

// GetUtilities handles GET /api/apartments/:id/utilities?month=YYYY-MM and
// returns the meter-entry sheet for that month.
func (h *Handler) GetUtilities(c *gin.Context) {
	month, err := h.month(c.Query("month"))
	if err != nil {
		badRequest(c, err)
		return
	}
	sheet, err := h.store.UtilitySheet(c.Request.Context(), c.Param("id"), month)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}

type submitReadingsRequest struct {
	Month    string             `json:"month"`
	Readings []store.BatchEntry `json:"readings" binding:"required"`
}

// SubmitReadings handles POST /api/apartments/:id/readings. Incomplete rows
// are reported as skipped; the rest are saved.
func (h *Handler) SubmitReadings(c *gin.Context) {
	var req submitReadingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	month, err := h.month(req.Month)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	res, err := h.store.SubmitReadings(ctx, c.Param("id"), month, req.Readings)
	if err != nil {
		h.fail(c, err)
		return
	}
	for _, r := range res.Saved {
		h.publish(ctx, events.TypeReadingUpserted, r)
	}
	c.JSON(http.StatusOK, res)
}

// GetPreviousReading handles GET /api/rooms/:room_id/previous-reading?month=.
func (h *Handler) GetPreviousReading(c *gin.Context) {
	month, err := h.month(c.Query("month"))
	if err != nil {
		badRequest(c, err)
		return
	}
	base, err := h.store.ResolvePreviousReading(c.Request.Context(), c.Param("room_id"), month)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, base)
}

type paymentRequest struct {
	Action billing.PaymentAction `json:"action" binding:"required"`
	Method model.PaymentMethod   `json:"method"`
}

// UpdatePayment handles PUT /api/readings/:reading_id/payment with
// {"action":"PAY","method":"CASH"} or {"action":"UNPAY"}.
func (h *Handler) UpdatePayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	reading, err := h.store.SetPayment(ctx, c.Param("reading_id"), req.Action, req.Method)
	if err != nil {
		h.fail(c, err)
		return
	}
	eventType := events.TypeReadingUnpaid
	if reading.IsPaid {
		eventType = events.TypeReadingPaid
	}
	h.publish(ctx, eventType, *reading)
	c.JSON(http.StatusOK, reading)
}

// ListInvoices handles GET /api/apartments/:id/invoices?month=.
func (h *Handler) ListInvoices(c *gin.Context) {
	month, err := h.month(c.Query("month"))
	if err != nil {
		badRequest(c, err)
		return
	}
	readings, err := h.store.ListReadingsForMonth(c.Request.Context(), c.Param("id"), month)
	if err != nil {
		h.fail(c, err)
		return
	}
	invoices := make([]export.Invoice, 0, len(readings))
	for _, r := range readings {
		invoices = append(invoices, export.NewInvoice(r))
	}
	c.JSON(http.StatusOK, gin.H{"billingMonth": parse.FormatMonth(month), "invoices": invoices})
}

// InvoicesXLSX handles GET /api/apartments/:id/invoices.xlsx?month=.
func (h *Handler) InvoicesXLSX(c *gin.Context) {
	month, err := h.month(c.Query("month"))
	if err != nil {
		badRequest(c, err)
		return
	}
	readings, err := h.store.ListReadingsForMonth(c.Request.Context(), c.Param("id"), month)
	if err != nil {
		h.fail(c, err)
		return
	}
	data, err := export.InvoicesXLSX(month, readings)
	if err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, fmt.Sprintf("invoices-%s.xlsx", parse.FormatMonth(month)), data)
}

// GetInvoice handles GET /api/readings/:reading_id/invoice.
func (h *Handler) GetInvoice(c *gin.Context) {
	reading, err := h.store.GetReading(c.Request.Context(), c.Param("reading_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, export.NewInvoice(*reading))
}

// InvoiceXLSX handles GET /api/readings/:reading_id/invoice.xlsx.
func (h *Handler) InvoiceXLSX(c *gin.Context) {
	reading, err := h.store.GetReading(c.Request.Context(), c.Param("reading_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	inv := export.NewInvoice(*reading)
	data, err := export.InvoiceXLSX(inv)
	if err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, fmt.Sprintf("invoice-%s-%s.xlsx", inv.RoomNumber, inv.BillingMonth), data)
}

func attachment(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, data)
}
