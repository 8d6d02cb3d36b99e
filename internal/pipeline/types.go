package pipeline

import "time"

// State is the pipeline's lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateCompiling  State = "compiling"
	StatePreviewing State = "previewing"
	StateSubmitting State = "submitting"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

// busy reports whether an attempt is in flight.
func (s State) busy() bool { return s == StateCompiling || s == StateSubmitting }

// NoticeKind classifies the operator-facing status message.
type NoticeKind string

const (
	NoticeNone    NoticeKind = "none"
	NoticeError   NoticeKind = "error"
	NoticeSuccess NoticeKind = "success"
)

// Notice is the current outcome message shown to the operator.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Artifact is a compiled document awaiting preview/submission.
type Artifact struct {
	Data      []byte
	MimeType  string
	Pages     int
	CreatedAt time.Time
	// Filename is derived from the session name at the time it is read.
	Filename string
}

// FileInfo is the public view of a pending input.
type FileInfo struct {
	Name string
	Size int64
}

// ArtifactInfo describes an artifact without its bytes.
type ArtifactInfo struct {
	Filename  string
	MimeType  string
	SizeBytes int
	Pages     int
	CreatedAt time.Time
}

// Snapshot is a read-only projection of the pipeline.
type Snapshot struct {
	State       State
	SessionName string
	Files       []FileInfo
	Notice      Notice
	Artifact    *ArtifactInfo
	// CanCompile mirrors the compile guard; surfaces disable the action when false.
	CanCompile bool
	// ActiveOp is the ID of the in-flight attempt, if any.
	ActiveOp string
}
