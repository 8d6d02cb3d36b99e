package types

// FileInfo describes one pending input file.
type FileInfo struct {
	// Position in merge order, starting at 0.
	// example: 0
	Index int `json:"index" example:"0"`
	// Display name of the file.
	// example: q3-north.pdf
	Name string `json:"name" example:"q3-north.pdf"`
	// Size in bytes; together with name it identifies the file.
	// example: 48213
	SizeBytes int64 `json:"size_bytes" example:"48213"`
}

// Notice is the operator-facing outcome message.
type Notice struct {
	// One of none, error, success.
	// example: error
	Kind string `json:"kind" example:"error"`
	// Human readable message; empty when kind is none.
	// example: Submission cancelled.
	Message string `json:"message,omitempty" example:"Submission cancelled."`
}

// ArtifactInfo describes the compiled document held for preview.
type ArtifactInfo struct {
	// Name the document will be submitted under.
	// example: Q3_Sales_Review_compiled.pdf
	Filename string `json:"filename" example:"Q3_Sales_Review_compiled.pdf"`
	// example: application/pdf
	MimeType string `json:"mime_type" example:"application/pdf"`
	// example: 120934
	SizeBytes int `json:"size_bytes" example:"120934"`
	// Total page count of the merged document.
	// example: 6
	Pages int `json:"pages" example:"6"`
	// Compile time in unix seconds.
	// example: 1700000000
	CreatedUnix int64 `json:"created_unix" example:"1700000000"`
}

// SessionResponse is returned by GET /session.
type SessionResponse struct {
	// Pipeline state: idle, compiling, previewing, submitting, failed, cancelled.
	// example: previewing
	State string `json:"state" example:"previewing"`
	// example: Q3 Sales Review
	SessionName string `json:"session_name" example:"Q3 Sales Review"`
	// Pending files in merge order.
	Files []FileInfo `json:"files"`
	// Current notice.
	Notice Notice `json:"notice"`
	// Present only while previewing.
	Artifact *ArtifactInfo `json:"artifact,omitempty"`
	// Whether a compile request would start right now.
	// example: true
	CanCompile bool `json:"can_compile" example:"true"`
	// ID of the in-flight compile or submit, if any.
	// example: compile-3
	ActiveOp string `json:"active_op,omitempty" example:"compile-3"`
}

// SetNameRequest is the body of PUT /session/name.
type SetNameRequest struct {
	// example: Q3 Sales Review
	Name string `json:"name" example:"Q3 Sales Review"`
}

// AddFilesResponse is returned by POST /session/files.
type AddFilesResponse struct {
	// Number of uploaded files that were new to the session.
	// example: 2
	Added int `json:"added" example:"2"`
	// Files in the session after the upload.
	Files []FileInfo `json:"files"`
}

// OperationResponse is returned by the compile, submit, cancel and reset actions.
type OperationResponse struct {
	// False when the action's precondition did not hold; nothing changed.
	// example: true
	Started bool `json:"started" example:"true"`
	// ID of the started attempt, for compile and submit.
	// example: compile-3
	OpID string `json:"op_id,omitempty" example:"compile-3"`
	// State right after the action.
	// example: compiling
	State string `json:"state" example:"compiling"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
