package pipeline

import (
	"strings"

	"github.com/naveenkr153/spectra-sales-review/internal/submit"
	"github.com/naveenkr153/spectra-sales-review/pkg/types"
)

// Snapshot returns a read-only view of the pipeline.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	files := p.files.Files()
	s := Snapshot{
		State:       p.state,
		SessionName: p.name,
		Files:       make([]FileInfo, len(files)),
		Notice:      p.notice,
		CanCompile:  p.canCompileLocked(),
	}
	for i, f := range files {
		s.Files[i] = FileInfo{Name: f.Name, Size: f.Size}
	}
	if p.artifact != nil {
		s.Artifact = &ArtifactInfo{
			Filename:  p.filenameLocked(),
			MimeType:  p.artifact.MimeType,
			SizeBytes: len(p.artifact.Data),
			Pages:     p.artifact.Pages,
			CreatedAt: p.artifact.CreatedAt,
		}
	}
	if p.op != nil {
		s.ActiveOp = p.op.ID
	}
	return s
}

// Status builds the JSON projection served at /session.
func (p *Pipeline) Status() types.SessionResponse {
	s := p.Snapshot()
	resp := types.SessionResponse{
		State:       string(s.State),
		SessionName: s.SessionName,
		Files:       make([]types.FileInfo, len(s.Files)),
		Notice:      types.Notice{Kind: string(s.Notice.Kind), Message: s.Notice.Message},
		CanCompile:  s.CanCompile,
		ActiveOp:    s.ActiveOp,
	}
	for i, f := range s.Files {
		resp.Files[i] = types.FileInfo{Index: i, Name: f.Name, SizeBytes: f.Size}
	}
	if a := s.Artifact; a != nil {
		resp.Artifact = &types.ArtifactInfo{
			Filename:    a.Filename,
			MimeType:    a.MimeType,
			SizeBytes:   a.SizeBytes,
			Pages:       a.Pages,
			CreatedUnix: a.CreatedAt.Unix(),
		}
	}
	return resp
}

// Preview returns the live artifact while previewing. The returned Data must be
// treated as read-only.
func (p *Pipeline) Preview() (Artifact, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePreviewing || p.artifact == nil {
		return Artifact{}, false
	}
	a := *p.artifact
	a.Filename = p.filenameLocked()
	return a, true
}

// State returns the current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Ready reports whether the pipeline accepts work.
func (p *Pipeline) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed
}

func (p *Pipeline) filenameLocked() string {
	return submit.CompiledFilename(strings.TrimSpace(p.name))
}
