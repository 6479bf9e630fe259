package store

type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoadingInitial
	StatusLoadingMore
	StatusSearching
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusLoadingInitial:
		return "loading_initial"
	case StatusLoadingMore:
		return "loading_more"
	case StatusSearching:
		return "searching"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is the store's current activity. Err is set only for StatusError.
type Status struct {
	Kind StatusKind
	Err  error
}
