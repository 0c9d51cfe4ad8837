package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/httpresp"
	ucpayment "github.com/BruksfildServices01/practice-scheduler/internal/usecase/payment"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PaymentHandler struct {
	create   *ucpayment.CreatePayment
	update   *ucpayment.UpdatePayment
	markPaid *ucpayment.MarkPaid
	remove   *ucpayment.DeletePayment
	list     *ucpayment.ListPayments
	summary  *ucpayment.GetSummary
	checkout *ucpayment.CreateCheckoutLink
	export   *ucpayment.ExportFinance
}

func NewPaymentHandler(
	repo domain.Repository,
	provider ucpayment.CheckoutProvider,
	dispatcher *audit.Dispatcher,
) *PaymentHandler {
	return &PaymentHandler{
		create:   ucpayment.NewCreatePayment(repo, dispatcher),
		update:   ucpayment.NewUpdatePayment(repo, dispatcher, nil),
		markPaid: ucpayment.NewMarkPaid(repo, dispatcher, nil),
		remove:   ucpayment.NewDeletePayment(repo, dispatcher),
		list:     ucpayment.NewListPayments(repo),
		summary:  ucpayment.NewGetSummary(repo, nil),
		checkout: ucpayment.NewCreateCheckoutLink(repo, provider, dispatcher),
		export:   ucpayment.NewExportFinance(repo, nil),
	}
}

// --------- Requests ---------

type CreatePaymentRequest struct {
	ClientID      *uint   `json:"client_id"`
	AppointmentID *uint   `json:"appointment_id"`
	Amount        float64 `json:"amount"`
	DueDate       string  `json:"due_date" binding:"required"`
	Status        string  `json:"status"`
	Notes         string  `json:"notes"`
}

type UpdatePaymentRequest struct {
	Amount  *float64 `json:"amount"`
	DueDate *string  `json:"due_date"`
	Status  *string  `json:"status"`
	Notes   *string  `json:"notes"`
}

type MarkPaidRequest struct {
	PaymentDate string `json:"payment_date"`
}

// --------- Handlers ---------

func (h *PaymentHandler) List(c *gin.Context) {
	q := ucpayment.ListQuery{
		From:   c.Query("from"),
		To:     c.Query("to"),
		Status: c.Query("status"),
	}
	if v := c.Query("client_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_client_id", "Cliente inválido.")
			return
		}
		clientID := uint(id)
		q.ClientID = &clientID
	}

	payments, err := h.list.Execute(c.Request.Context(), currentUser(c), q)
	if err != nil {
		respondError(c, err, "failed_to_list_payments", "Erro ao listar lançamentos.")
		return
	}

	httpresp.List(c, payments)
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.create.Execute(c.Request.Context(), currentUser(c), ucpayment.PaymentInput{
		ClientID:      req.ClientID,
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		DueDate:       req.DueDate,
		Status:        req.Status,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err, "failed_to_create_payment", "Erro ao criar lançamento.")
		return
	}

	httpresp.Created(c, p)
}

func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.update.Execute(c.Request.Context(), currentUser(c), id, ucpayment.PaymentChanges{
		Amount:  req.Amount,
		DueDate: req.DueDate,
		Status:  req.Status,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(c, err, "failed_to_update_payment", "Erro ao atualizar lançamento.")
		return
	}

	httpresp.OK(c, p)
}

func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// body is optional
	var req MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	p, err := h.markPaid.Execute(c.Request.Context(), currentUser(c), id, req.PaymentDate)
	if err != nil {
		respondError(c, err, "failed_to_mark_paid", "Erro ao registrar pagamento.")
		return
	}

	httpresp.OK(c, p)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err, "failed_to_delete_payment", "Erro ao excluir lançamento.")
		return
	}

	httpresp.NoContent(c)
}

func (h *PaymentHandler) Checkout(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.checkout.Execute(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err, "failed_to_create_checkout", "Erro ao gerar link de pagamento.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment":      p,
		"checkout_url": p.CheckoutURL,
	})
}

func (h *PaymentHandler) Summary(c *gin.Context) {
	s, err := h.summary.Execute(c.Request.Context(), currentUser(c), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err, "failed_to_get_summary", "Erro ao calcular resumo financeiro.")
		return
	}

	httpresp.OK(c, s)
}

func (h *PaymentHandler) ExportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.export.Execute(c.Request.Context(), currentUser(c), c.Query("from"), c.Query("to"), &buf); err != nil {
		respondError(c, err, "failed_to_export_finance", "Erro ao gerar planilha.")
		return
	}

	filename := "financeiro.xlsx"
	if from := c.Query("from"); from != "" {
		filename = fmt.Sprintf("financeiro-%s.xlsx", from)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
