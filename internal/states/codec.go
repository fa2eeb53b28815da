// internal/states/codec.go

// Package states owns the packed per-state entry format stored on a
// license request ("<STATE>:<STATUS>[:<DATE>][:<AET_NUMBER>]" in
// state_statuses, "<STATE>:<VALUE>" in state_files/state_aet_numbers).
// All reads and writes of those arrays go through this package.
package states

import (
	"strings"
)

type Status string

const (
	StatusPendingRegistration    Status = "pending_registration"
	StatusRegistrationInProgress Status = "registration_in_progress"
	StatusUnderReview            Status = "under_review"
	StatusPendingApproval        Status = "pending_approval"
	StatusApproved               Status = "approved"
	StatusRejected               Status = "rejected"
	StatusCanceled               Status = "canceled"

	// StatusUnknown marks a packed entry whose status token is not
	// recognized. It is deliberately distinct from
	// StatusPendingRegistration so corrupt data stays visible.
	StatusUnknown Status = "unknown"
)

// Aliases written by older releases. They must keep decoding.
var legacyAliases = map[string]Status{
	"pending":         StatusPendingRegistration,
	"in_progress":     StatusRegistrationInProgress,
	"analyzing":       StatusUnderReview,
	"pending_release": StatusPendingApproval,
	"released":        StatusApproved,
}

var canonical = map[Status]bool{
	StatusPendingRegistration:    true,
	StatusRegistrationInProgress: true,
	StatusUnderReview:            true,
	StatusPendingApproval:        true,
	StatusApproved:               true,
	StatusRejected:               true,
	StatusCanceled:               true,
}

// pipelineRank orders the progress pipeline. Rejected and canceled are
// terminal branches and carry no rank.
var pipelineRank = map[Status]int{
	StatusPendingRegistration:    0,
	StatusRegistrationInProgress: 1,
	StatusUnderReview:            2,
	StatusPendingApproval:        3,
	StatusApproved:               4,
}

// Normalize maps a raw status token to its canonical form. Unrecognized
// tokens come back as StatusUnknown.
func Normalize(raw string) Status {
	s := Status(strings.TrimSpace(raw))
	if canonical[s] {
		return s
	}
	if alias, ok := legacyAliases[string(s)]; ok {
		return alias
	}
	return StatusUnknown
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCanceled
}

// Record is the normalized per-state sub-record of one license request.
type Record struct {
	State      string `json:"state"`
	Status     Status `json:"status"`
	ValidUntil string `json:"valid_until,omitempty"`
	AETNumber  string `json:"aet_number,omitempty"`
}

func entryState(entry string) string {
	if i := strings.Index(entry, ":"); i >= 0 {
		return entry[:i]
	}
	return entry
}

// Decode finds the entry for state in a state_statuses array. A state
// with no entry decodes to pending_registration with no date and no AET
// number. Field positions follow the legacy layout: field 1 is the
// status; field 2 is the validity date for approved entries, otherwise
// an AET number assigned during review; field 3 is the AET number of an
// approval.
func Decode(entries []string, state string) Record {
	state = strings.ToUpper(strings.TrimSpace(state))
	for _, entry := range entries {
		if !strings.EqualFold(entryState(entry), state) {
			continue
		}

		parts := strings.Split(entry, ":")
		rec := Record{State: state}
		if len(parts) < 2 {
			rec.Status = StatusUnknown
			return rec
		}

		rec.Status = Normalize(parts[1])
		if len(parts) > 2 {
			if rec.Status == StatusApproved {
				rec.ValidUntil = parts[2]
				if len(parts) > 3 {
					rec.AETNumber = parts[3]
				}
			} else {
				rec.AETNumber = parts[2]
			}
		}
		return rec
	}
	return Record{State: state, Status: StatusPendingRegistration}
}

// DecodeAll decodes every target state of a request, in order.
func DecodeAll(entries []string, targetStates []string) []Record {
	recs := make([]Record, 0, len(targetStates))
	for _, st := range targetStates {
		recs = append(recs, Decode(entries, st))
	}
	return recs
}

// Encode writes rec into a state_statuses array, replacing the existing
// entry for that state in place and dropping stray duplicates. Entries
// for other states keep their relative order; a new state appends.
func Encode(entries []string, rec Record) []string {
	state := strings.ToUpper(strings.TrimSpace(rec.State))

	packed := state + ":" + string(rec.Status)
	if rec.Status == StatusApproved {
		if rec.ValidUntil != "" || rec.AETNumber != "" {
			packed += ":" + rec.ValidUntil
		}
		if rec.AETNumber != "" {
			packed += ":" + rec.AETNumber
		}
	} else if rec.AETNumber != "" {
		// Non-approved records carry the AET number in field 2.
		packed += ":" + rec.AETNumber
	}

	out := make([]string, 0, len(entries)+1)
	replaced := false
	for _, entry := range entries {
		if strings.EqualFold(entryState(entry), state) {
			if !replaced {
				out = append(out, packed)
				replaced = true
			}
			continue
		}
		out = append(out, entry)
	}
	if !replaced {
		out = append(out, packed)
	}
	return out
}

// Value looks up a "<STATE>:<VALUE>" entry (state_files,
// state_aet_numbers). The split happens on the FIRST colon only; the
// value itself may contain colons, URLs always do.
func Value(entries []string, state string) string {
	state = strings.ToUpper(strings.TrimSpace(state))
	for _, entry := range entries {
		parts := strings.SplitN(entry, ":", 2)
		if strings.EqualFold(parts[0], state) {
			if len(parts) == 2 {
				return parts[1]
			}
			return ""
		}
	}
	return ""
}

// SetValue writes a "<STATE>:<VALUE>" entry with the same replacement
// semantics as Encode.
func SetValue(entries []string, state, value string) []string {
	state = strings.ToUpper(strings.TrimSpace(state))
	packed := state + ":" + value

	out := make([]string, 0, len(entries)+1)
	replaced := false
	for _, entry := range entries {
		if strings.EqualFold(entryState(entry), state) {
			if !replaced {
				out = append(out, packed)
				replaced = true
			}
			continue
		}
		out = append(out, entry)
	}
	if !replaced {
		out = append(out, packed)
	}
	return out
}

// ProjectOverall derives the single display status of a request from
// its per-state records: any rejection wins, then full approval, then
// the least-progressed state in pipeline order. Canceled states don't
// hold the projection back unless every state is canceled.
func ProjectOverall(recs []Record) Status {
	if len(recs) == 0 {
		return StatusPendingRegistration
	}

	active := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.Status == StatusRejected {
			return StatusRejected
		}
		if r.Status != StatusCanceled {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		return StatusCanceled
	}

	min := active[0].Status
	for _, r := range active[1:] {
		if rankOf(r.Status) < rankOf(min) {
			min = r.Status
		}
	}
	return min
}

func rankOf(s Status) int {
	if r, ok := pipelineRank[s]; ok {
		return r
	}
	// Unknown sorts below everything so corruption surfaces in the
	// projection instead of being averaged away.
	return -1
}

// Dedupe upper-cases and de-duplicates a target state list, keeping
// first occurrences in order.
func Dedupe(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
