package appointment

import "github.com/BruksfildServices01/practice-scheduler/internal/models"

// Stored values of appointment_type.
const (
	TypeAppointment = "appointment"
	TypePersonal    = "personal"
	TypeBlock       = "block"
)

// Stored values of session_type.
const (
	SessionSingle    = "single"
	SessionRecurring = "recurring"
	SessionPersonal  = "personal"
)

type kindTag uint8

const (
	kindSingle kindTag = iota
	kindRecurring
	kindPersonal
	kindBlock
)

// Kind is the single source of truth for what an appointment is.
// The redundant session_type / appointment_type / recurrence_group_id columns
// are derived from it by Apply and read back by KindOf.
type Kind struct {
	tag     kindTag
	groupID string
}

func Single() Kind   { return Kind{tag: kindSingle} }
func Personal() Kind { return Kind{tag: kindPersonal} }
func Block() Kind    { return Kind{tag: kindBlock} }

func Recurring(groupID string) Kind {
	return Kind{tag: kindRecurring, groupID: groupID}
}

// KindOf reads the kind from a persisted row. Personal and block entries never
// belong to a series; otherwise a non-empty recurrence_group_id wins over session_type.
func KindOf(ap *models.Appointment) Kind {
	switch ap.AppointmentType {
	case TypePersonal:
		return Personal()
	case TypeBlock:
		return Block()
	}
	if ap.RecurrenceGroupID != nil && *ap.RecurrenceGroupID != "" {
		return Recurring(*ap.RecurrenceGroupID)
	}
	return Single()
}

// ParseType maps a requested appointment_type to a non-recurring kind.
func ParseType(appointmentType string) (Kind, bool) {
	switch appointmentType {
	case "", TypeAppointment:
		return Single(), true
	case TypePersonal:
		return Personal(), true
	case TypeBlock:
		return Block(), true
	}
	return Kind{}, false
}

func (k Kind) IsRecurring() bool { return k.tag == kindRecurring }

// RequiresClient reports whether the kind must carry a client (and forbids one otherwise).
func (k Kind) RequiresClient() bool {
	return k.tag == kindSingle || k.tag == kindRecurring
}

func (k Kind) GroupID() (string, bool) {
	if k.tag != kindRecurring {
		return "", false
	}
	return k.groupID, true
}

func (k Kind) AppointmentType() string {
	switch k.tag {
	case kindPersonal:
		return TypePersonal
	case kindBlock:
		return TypeBlock
	}
	return TypeAppointment
}

// SessionType has no block value in the stored enum; blocks are stored as personal.
func (k Kind) SessionType() string {
	switch k.tag {
	case kindRecurring:
		return SessionRecurring
	case kindPersonal, kindBlock:
		return SessionPersonal
	}
	return SessionSingle
}

func (k Kind) String() string {
	switch k.tag {
	case kindRecurring:
		return "recurring(" + k.groupID + ")"
	case kindPersonal:
		return "personal"
	case kindBlock:
		return "block"
	}
	return "single"
}

// Apply writes the derived columns onto the row.
func (k Kind) Apply(ap *models.Appointment) {
	ap.AppointmentType = k.AppointmentType()
	ap.SessionType = k.SessionType()

	if id, ok := k.GroupID(); ok {
		group := id
		ap.RecurrenceGroupID = &group
	} else {
		ap.RecurrenceGroupID = nil
		ap.RecurrenceFrequency = ""
	}

	if !k.RequiresClient() {
		ap.ClientID = nil
		ap.Client = nil
	}
}
