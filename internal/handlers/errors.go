package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/logging"
	"github.com/BruksfildServices01/practice-scheduler/internal/middleware"
	ucappointment "github.com/BruksfildServices01/practice-scheduler/internal/usecase/appointment"
)

type businessResponse struct {
	status  int
	message string
}

var businessErrors = map[string]businessResponse{
	"user_not_found":            {http.StatusNotFound, "Usuário não encontrado."},
	"client_not_found":          {http.StatusNotFound, "Cliente não encontrado."},
	"service_not_found":         {http.StatusNotFound, "Serviço não encontrado."},
	"appointment_not_found":     {http.StatusNotFound, "Agendamento não encontrado."},
	"series_not_found":          {http.StatusNotFound, "Série não encontrada."},
	"payment_not_found":         {http.StatusNotFound, "Lançamento não encontrado."},
	"note_not_found":            {http.StatusNotFound, "Anotação não encontrada."},
	"invalid_date":              {http.StatusBadRequest, "Data inválida."},
	"invalid_year":              {http.StatusBadRequest, "Ano inválido."},
	"invalid_month":             {http.StatusBadRequest, "Mês inválido."},
	"invalid_scope":             {http.StatusBadRequest, "Escolha entre esta ocorrência ou a série inteira."},
	"invalid_financial_option":  {http.StatusBadRequest, "Escolha entre manter ou excluir os lançamentos."},
	"invalid_status":            {http.StatusBadRequest, "Status inválido."},
	"invalid_state":             {http.StatusConflict, "Não é possível mudar para este status."},
	"series_client_immutable":   {http.StatusConflict, "O cliente de uma série não pode ser alterado."},
	"scope_required":            {http.StatusConflict, "Deseja aplicar a esta ocorrência ou à série inteira?"},
	"financial_choice_required": {http.StatusConflict, "Deseja manter ou excluir os lançamentos financeiros vinculados?"},
	"payment_already_paid":      {http.StatusConflict, "Este lançamento já está pago."},
	"payment_not_chargeable":    {http.StatusConflict, "Somente receitas em aberto podem gerar link de pagamento."},
	"checkout_unavailable":      {http.StatusServiceUnavailable, "Pagamento online não configurado."},
	"storage_unavailable":       {http.StatusServiceUnavailable, "Armazenamento de arquivos não configurado."},
	"messaging_unavailable":     {http.StatusServiceUnavailable, "Integração de mensagens não configurada."},
	"invalid_image":             {http.StatusBadRequest, "Imagem inválida. Envie JPG, PNG, GIF ou WebP."},
	"email_already_registered":  {http.StatusConflict, "Este e-mail já está cadastrado."},
}

// respondError maps use case errors to the JSON error contract. Unknown
// errors are logged and reported with the fallback code.
func respondError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	var scopeErr *ucappointment.ScopeRequiredError
	if errors.As(err, &scopeErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error_code":          "scope_required",
			"message":             businessErrors["scope_required"].message,
			"recurrence_group_id": scopeErr.GroupID,
			"series_conflicts":    scopeErr.Preview,
		})
		return
	}

	if ve, ok := httperr.AsValidation(err); ok {
		httperr.Validation(c, ve.FieldErrors)
		return
	}

	if code, ok := httperr.BusinessCode(err); ok {
		if resp, known := businessErrors[code]; known {
			httperr.Write(c, resp.status, code, resp.message)
			return
		}
		httperr.BadRequest(c, code, "Operação não permitida.")
		return
	}

	if httperr.IsUniqueViolation(err) {
		httperr.Conflict(c, "already_exists", "Registro duplicado.")
		return
	}

	logging.FromContext(c.Request.Context()).Error(fallbackCode, "error", err, "detail", httperr.PgDetail(err))
	_ = c.Error(err)
	httperr.Internal(c, fallbackCode, fallbackMessage)
}

func bindError(c *gin.Context, err error) {
	httperr.Write(c, http.StatusBadRequest, "invalid_request", "Dados inválidos na requisição.")
	_ = c.Error(err)
}

func currentUser(c *gin.Context) uint {
	return middleware.UserID(c)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}
