package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/BruksfildServices01/practice-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

func TestWriteFinance(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	clientID := uint(5)
	paid := time.Date(2024, time.March, 5, 10, 0, 0, 0, loc)

	payments := []models.Payment{
		{ID: 1, ClientID: &clientID, Amount: 150, Status: "paid", DueDate: time.Date(2024, time.March, 4, 0, 0, 0, 0, loc), PaymentDate: &paid},
		{ID: 2, Amount: -80, Status: "pending", DueDate: time.Date(2024, time.March, 10, 0, 0, 0, 0, loc), Notes: "Aluguel"},
	}

	var buf bytes.Buffer
	err := WriteFinance(&buf, Finance{
		From:     time.Date(2024, time.March, 1, 0, 0, 0, 0, loc),
		To:       time.Date(2024, time.April, 1, 0, 0, 0, 0, loc),
		Location: loc,
		Payments: payments,
		Clients:  map[uint]string{5: "Ana"},
		Summary:  payment.Summarize(payments),
	})
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	checks := map[string]string{
		"A2": "04/03/2024",
		"B2": "Ana",
		"C2": "Receita",
		"E2": "Pago",
		"F2": "05/03/2024",
		"C3": "Despesa",
		"E3": "Pendente",
		"G3": "Aluguel",
	}
	for cell, want := range checks {
		if got := f.GetCellValue(sheetPayments, cell); got != want {
			t.Fatalf("%s: expected %q, got %q", cell, want, got)
		}
	}

	if got := f.GetCellValue(sheetSummary, "B1"); got != "01/03/2024 a 31/03/2024" {
		t.Fatalf("unexpected period %q", got)
	}
}
