package library

// Action is the scanner's decision for a discovered audio file.
type Action int

const (
	// Skip: the file is cataloged with full metadata; nothing to do.
	Skip Action = iota
	// Refresh: the file is cataloged but its duration is missing; probe
	// for duration only and back-fill the row.
	Refresh
	// Insert: the file has never been seen; probe full tags and catalog it.
	Insert
)

func (a Action) String() string {
	switch a {
	case Skip:
		return "skip"
	case Refresh:
		return "refresh"
	default:
		return "insert"
	}
}

// Classify decides what to do with a discovered file using two precomputed
// membership sets: complete holds filenames cataloged with a duration,
// incomplete holds filenames cataloged without one. The sets are built once
// per scan from a catalog snapshot, making the decision O(1) per file
// instead of a query per file. The sets are disjoint by construction, so
// exactly one action applies.
func Classify(path string, complete, incomplete map[string]struct{}) Action {
	if _, ok := complete[path]; ok {
		return Skip
	}
	if _, ok := incomplete[path]; ok {
		return Refresh
	}
	return Insert
}
