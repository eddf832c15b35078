package library

// Event is one message on the scan progress stream. The stream is ordered,
// single-producer: per scanned folder one StartingFolder, then FoundFile and
// ScannedFile per accepted file, and exactly one terminal Complete after
// which the channel is closed.
type Event interface {
	isEvent()
}

// StartingFolder is emitted once per configured folder, in configured order.
type StartingFolder struct {
	Folder string
}

// FoundFile is emitted after an accepted file is counted, before it is
// classified.
type FoundFile struct {
	Found   int
	Skipped int
	Path    string
}

// ScannedFile is emitted after an accepted file has been classified and
// handled.
type ScannedFile struct {
	Found   int
	Skipped int
	Added   int
	Updated int
	Path    string
}

// Complete is the unique terminal event. Stale lists cataloged files under a
// scanned folder that no longer exist on disk.
type Complete struct {
	Found   int
	Skipped int
	Added   int
	Updated int
	Stale   []string
}

func (StartingFolder) isEvent() {}
func (FoundFile) isEvent()      {}
func (ScannedFile) isEvent()    {}
func (Complete) isEvent()       {}
