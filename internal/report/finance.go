package report

import (
	"fmt"
	"io"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/BruksfildServices01/practice-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

const (
	sheetPayments = "Lançamentos"
	sheetSummary  = "Resumo"
)

var statusLabels = map[string]string{
	string(payment.StatusPending): "Pendente",
	string(payment.StatusPaid):    "Pago",
	string(payment.StatusOverdue): "Vencido",
}

// Finance is the data behind the financial spreadsheet.
type Finance struct {
	From     time.Time
	To       time.Time
	Location *time.Location
	Payments []models.Payment
	Clients  map[uint]string
	Summary  payment.Summary
}

// WriteFinance renders one row per record plus a totals sheet.
func WriteFinance(w io.Writer, data Finance) error {
	loc := data.Location
	if loc == nil {
		loc = time.UTC
	}

	file := excelize.NewFile()
	idx := file.NewSheet(sheetPayments)
	file.NewSheet(sheetSummary)
	file.DeleteSheet("Sheet1")

	headers := map[string]string{
		"A1": "Vencimento",
		"B1": "Cliente",
		"C1": "Tipo",
		"D1": "Valor",
		"E1": "Status",
		"F1": "Pago em",
		"G1": "Observações",
	}
	for cell, v := range headers {
		file.SetCellValue(sheetPayments, cell, v)
	}

	for i, p := range data.Payments {
		appendPaymentRow(file, i+2, p, data.Clients, loc)
	}
	file.SetColWidth(sheetPayments, "A", "G", 18)

	s := data.Summary
	rows := [][2]any{
		{"Período", fmt.Sprintf("%s a %s", data.From.In(loc).Format("02/01/2006"), data.To.In(loc).AddDate(0, 0, -1).Format("02/01/2006"))},
		{"Lançamentos", s.Count},
		{"Receitas", s.Income},
		{"Despesas", s.Expense},
		{"Saldo", s.Balance},
		{"Recebido", s.Received},
		{"Pendente", s.Pending},
		{"Vencido", s.Overdue},
	}
	for i, r := range rows {
		file.SetCellValue(sheetSummary, fmt.Sprintf("A%d", i+1), r[0])
		file.SetCellValue(sheetSummary, fmt.Sprintf("B%d", i+1), r[1])
	}
	file.SetColWidth(sheetSummary, "A", "B", 22)

	file.SetActiveSheet(idx)
	return file.Write(w)
}

func appendPaymentRow(file *excelize.File, row int, p models.Payment, clients map[uint]string, loc *time.Location) {
	client := ""
	if p.ClientID != nil {
		client = clients[*p.ClientID]
	}

	kind := "Receita"
	if p.Amount < 0 {
		kind = "Despesa"
	}

	paidOn := ""
	if p.PaymentDate != nil {
		paidOn = p.PaymentDate.In(loc).Format("02/01/2006")
	}

	status := statusLabels[p.Status]
	if status == "" {
		status = p.Status
	}

	file.SetCellValue(sheetPayments, fmt.Sprintf("A%d", row), p.DueDate.In(loc).Format("02/01/2006"))
	file.SetCellValue(sheetPayments, fmt.Sprintf("B%d", row), client)
	file.SetCellValue(sheetPayments, fmt.Sprintf("C%d", row), kind)
	file.SetCellValue(sheetPayments, fmt.Sprintf("D%d", row), p.Amount)
	file.SetCellValue(sheetPayments, fmt.Sprintf("E%d", row), status)
	file.SetCellValue(sheetPayments, fmt.Sprintf("F%d", row), paidOn)
	file.SetCellValue(sheetPayments, fmt.Sprintf("G%d", row), p.Notes)
}
