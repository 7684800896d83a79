/*
lifecycle.go - Timesheet status machine

PURPOSE:
  The authoritative state machine for one employee-week timesheet. Edit
  rights are a pure function of status; there are no auxiliary flags.

STATES:
  New        never submitted, freely editable by the owning employee
  Submitted  awaiting an admin decision, read-only to the employee
  Approved   terminal, read-only to everyone
  Denied     editable again, carries the rejection reason

TRANSITIONS:
  New       --save-->    New
  New       --submit-->  Submitted   (weekly-total gate in validate.go)
  Denied    --save-->    Denied
  Denied    --submit-->  Submitted   (prior rejection reason retained)
  Submitted --approve--> Approved    (admin)
  Submitted --reject-->  Denied      (admin, reason mandatory)
  Approved  has no outgoing transitions
*/
package timesheet

import "fmt"

type Status string

const (
	StatusNew       Status = "New"
	StatusSubmitted Status = "Submitted"
	StatusApproved  Status = "Approved"
	StatusDenied    Status = "Denied"
)

// ParseStatus converts a wire string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusSubmitted, StatusApproved, StatusDenied:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Editable reports whether the owning employee may mutate content.
func (s Status) Editable() bool {
	return s == StatusNew || s == StatusDenied
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool { return s == StatusApproved }

// Pending reports whether the timesheet awaits an admin decision.
func (s Status) Pending() bool { return s == StatusSubmitted }
