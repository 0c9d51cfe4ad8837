package appointment

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
)

// DraftCheck is what a create request looks like to the validator.
type DraftCheck struct {
	Kind      Kind
	ClientID  *uint
	Title     string
	Interval  Interval
	Recurring bool
	Frequency string
	Count     int
	Status    string
}

func (d DraftCheck) Validate() error {
	vErr := &httperr.ValidationError{}
	validateInterval(d.Interval, vErr)

	if d.Kind.RequiresClient() && d.ClientID == nil {
		vErr.Add("client_id", "Cliente é obrigatório.")
	}
	if !d.Kind.RequiresClient() && d.ClientID != nil {
		vErr.Add("client_id", "Compromissos pessoais e bloqueios não têm cliente.")
	}
	if !d.Kind.RequiresClient() && strings.TrimSpace(d.Title) == "" {
		vErr.Add("title", "Título é obrigatório.")
	}

	if d.Recurring {
		if !d.Kind.RequiresClient() {
			vErr.Add("appointment_type", "Somente atendimentos podem se repetir.")
		}
		if _, err := ParseFrequency(d.Frequency); err != nil {
			vErr.Add("frequency", "Frequência inválida.")
		}
		if d.Count < 1 || d.Count > MaxSeriesCount {
			vErr.Add("count", fmt.Sprintf("Quantidade deve estar entre 1 e %d.", MaxSeriesCount))
		}
	}

	if d.Status != "" && !Status(d.Status).Valid() {
		vErr.Add("status", "Status inválido.")
	}

	return vErr.Err()
}

// ValidateChanges checks the interval an edit would produce. The stored
// interval is only re-checked when the edit touches start or end.
func ValidateChanges(next Interval, ch Changes) error {
	vErr := &httperr.ValidationError{}
	if ch.StartTime != nil || ch.EndTime != nil {
		validateInterval(next, vErr)
	}
	if ch.Status != nil && !ch.Status.Valid() {
		vErr.Add("status", "Status inválido.")
	}
	if ch.Price != nil && *ch.Price < 0 {
		vErr.Add("price", "Valor não pode ser negativo.")
	}
	return vErr.Err()
}

func validateInterval(iv Interval, vErr *httperr.ValidationError) {
	if iv.Start.IsZero() {
		vErr.Add("start_time", "Início é obrigatório.")
	}
	if iv.End.IsZero() {
		vErr.Add("end_time", "Fim é obrigatório.")
	}
	if !iv.Start.IsZero() && !iv.End.IsZero() && !iv.End.After(iv.Start) {
		vErr.Add("end_time", "O fim deve ser depois do início.")
	}
}
