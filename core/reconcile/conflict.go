package reconcile

import "time"

// Decision is the outcome of conflict resolution.
type Decision int

const (
	// DecisionCreate creates a new local record.
	DecisionCreate Decision = iota

	// DecisionOverwrite overwrites the local record in place.
	DecisionOverwrite

	// DecisionKeepLocal leaves the local record untouched.
	DecisionKeepLocal
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	switch d {
	case DecisionCreate:
		return "create"
	case DecisionOverwrite:
		return "overwrite"
	case DecisionKeepLocal:
		return "keep_local"
	default:
		return "unknown"
	}
}

// Version is the local side of a conflict.
type Version struct {
	Exists     bool
	ModifiedAt time.Time
}

// ResolveConflict decides between keeping and overwriting the local version.
// A missing remote timestamp counts as the zero time, so an existing local
// record is kept unless force is set.
func ResolveConflict(local Version, remoteModified time.Time, force bool) Decision {
	if !local.Exists {
		return DecisionCreate
	}
	if force {
		return DecisionOverwrite
	}
	if !local.ModifiedAt.Before(remoteModified) {
		return DecisionKeepLocal
	}
	return DecisionOverwrite
}
