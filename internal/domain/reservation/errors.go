package reservation

import (
	"errors"
	"fmt"
)

// Reason is the stable, machine-readable code of a rejected request.
type Reason string

const (
	ReasonIncomplete              Reason = "incomplete"
	ReasonInsufficientLeadTime    Reason = "insufficient_lead_time"
	ReasonInvalidOrder            Reason = "invalid_order"
	ReasonTableUnavailable        Reason = "table_unavailable"
	ReasonPartySizeOutOfRange     Reason = "party_size_out_of_range"
	ReasonCollaboratorUnreachable Reason = "collaborator_unreachable"
)

func (r Reason) String() string { return string(r) }

var (
	ErrIncomplete              = errors.New("table, start, end and party size are required")
	ErrInsufficientLeadTime    = errors.New("reservation must start at least 3 hours from now")
	ErrInvalidOrder            = errors.New("start must be before end")
	ErrTableUnavailable        = errors.New("table is not available for the requested window")
	ErrPartySizeOutOfRange     = errors.New("party size is out of range for this table")
	ErrCollaboratorUnreachable = errors.New("reservation service unreachable")
)

var reasonErrors = map[Reason]error{
	ReasonIncomplete:              ErrIncomplete,
	ReasonInsufficientLeadTime:    ErrInsufficientLeadTime,
	ReasonInvalidOrder:            ErrInvalidOrder,
	ReasonTableUnavailable:        ErrTableUnavailable,
	ReasonPartySizeOutOfRange:     ErrPartySizeOutOfRange,
	ReasonCollaboratorUnreachable: ErrCollaboratorUnreachable,
}

// ParseReason accepts only known reason codes.
func ParseReason(s string) (Reason, bool) {
	r := Reason(s)
	_, ok := reasonErrors[r]
	return r, ok
}

// ValidationError carries a rejection across layers. errors.Is matches the reason sentinel.
type ValidationError struct {
	Reason       Reason
	Message      string
	MinPartySize int
	MaxPartySize int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return reasonErrors[e.Reason] == target
}

func NewValidationError(reason Reason) *ValidationError {
	msg := ""
	if err, ok := reasonErrors[reason]; ok {
		msg = err.Error()
	}
	return &ValidationError{Reason: reason, Message: msg}
}

// ReasonOf extracts the rejection reason from err, if any.
func ReasonOf(err error) (Reason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}
