package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/naveenkr153/spectra-sales-review/internal/fileset"
	"github.com/naveenkr153/spectra-sales-review/internal/merge"
	"github.com/naveenkr153/spectra-sales-review/internal/pipeline"
	"github.com/naveenkr153/spectra-sales-review/pkg/types"
)

// multipartMemory is how much of an upload ParseMultipartForm keeps in memory
// before spilling parts to temp files.
const multipartMemory = 32 << 20

type sessionHandlers struct {
	svc Service
}

// status godoc
// @Summary      Session status
// @Description  Current pipeline state, session name, pending files, notice and artifact metadata.
// @Tags         session
// @Produce      json
// @Success      200  {object}  types.SessionResponse
// @Router       /session [get]
func (h *sessionHandlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// setName godoc
// @Summary      Set the session name
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      types.SetNameRequest  true  "New name"
// @Success      200   {object}  types.SessionResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      409   {object}  types.ErrorResponse
// @Router       /session/name [put]
func (h *sessionHandlers) setName(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		IncrementRejected("content_type")
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.SetNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !h.svc.SetName(req.Name) {
		h.locked(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// addFiles godoc
// @Summary      Add PDF files to the session
// @Description  Multipart upload; repeat the "files" field once per document. Files already
// @Description  in the session (same name and size) are skipped.
// @Tags         session
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "PDF documents"
// @Success      200    {object}  types.AddFilesResponse
// @Failure      400    {object}  types.ErrorResponse
// @Failure      409    {object}  types.ErrorResponse
// @Failure      413    {object}  types.ErrorResponse
// @Failure      415    {object}  types.ErrorResponse
// @Router       /session/files [post]
func (h *sessionHandlers) addFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			IncrementRejected("too_large")
			writeJSONError(w, http.StatusRequestEntityTooLarge, "upload exceeds "+strconv.FormatInt(maxUploadBytes, 10)+" bytes")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSONError(w, http.StatusBadRequest, `no files in field "files"`)
		return
	}
	files := make([]fileset.InputFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "read "+fh.Filename+": "+err.Error())
			return
		}
		if !looksLikePDF(fh.Filename, data) {
			IncrementRejected("media_type")
			writeJSONError(w, http.StatusUnsupportedMediaType, fh.Filename+" is not a PDF")
			return
		}
		files = append(files, fileset.FromBytes(fh.Filename, data))
	}
	added, ok := h.svc.AddFiles(files...)
	if !ok {
		h.locked(w, r)
		return
	}
	logEvent(r, LevelInfo, "files added", map[string]any{"uploaded": len(files), "added": added})
	writeJSON(w, http.StatusOK, types.AddFilesResponse{Added: added, Files: h.svc.Status().Files})
}

// removeFile godoc
// @Summary      Remove a pending file
// @Tags         session
// @Produce      json
// @Param        name  query     string  true  "File name"
// @Param        size  query     int     true  "File size in bytes"
// @Success      200   {object}  types.SessionResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Failure      409   {object}  types.ErrorResponse
// @Router       /session/files [delete]
func (h *sessionHandlers) removeFile(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	size, err := strconv.ParseInt(q.Get("size"), 10, 64)
	if name == "" || err != nil || size < 0 {
		writeJSONError(w, http.StatusBadRequest, "name and a non-negative size are required")
		return
	}
	removed, ok := h.svc.RemoveFile(fileset.InputFile{Name: name, Size: size})
	if !ok {
		h.locked(w, r)
		return
	}
	if !removed {
		writeJSONError(w, http.StatusNotFound, "file not in session")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// compile godoc
// @Summary      Compile the pending files into one PDF
// @Description  Starts a compile in the background. started=false means the session has no
// @Description  name, no files, or another operation is running.
// @Tags         actions
// @Produce      json
// @Success      200  {object}  types.OperationResponse
// @Router       /session/compile [post]
func (h *sessionHandlers) compile(w http.ResponseWriter, r *http.Request) {
	op, ok := h.svc.Compile()
	h.operation(w, r, "compile", op, ok)
}

// submit godoc
// @Summary      Submit the previewed document
// @Description  Only valid while previewing; otherwise started=false.
// @Tags         actions
// @Produce      json
// @Success      200  {object}  types.OperationResponse
// @Router       /session/submit [post]
func (h *sessionHandlers) submit(w http.ResponseWriter, r *http.Request) {
	op, ok := h.svc.Submit()
	h.operation(w, r, "submit", op, ok)
}

// cancel godoc
// @Summary      Cancel the running compile or submit
// @Tags         actions
// @Produce      json
// @Success      200  {object}  types.OperationResponse
// @Router       /session/cancel [post]
func (h *sessionHandlers) cancel(w http.ResponseWriter, r *http.Request) {
	h.operation(w, r, "cancel", nil, h.svc.Cancel())
}

// reset godoc
// @Summary      Reset the session
// @Description  Cancels any running operation and clears name, files, artifact and notice.
// @Tags         actions
// @Produce      json
// @Success      200  {object}  types.OperationResponse
// @Router       /session/reset [post]
func (h *sessionHandlers) reset(w http.ResponseWriter, r *http.Request) {
	h.svc.Reset()
	h.operation(w, r, "reset", nil, true)
}

// preview godoc
// @Summary      Download the compiled document
// @Tags         preview
// @Produce      application/pdf
// @Success      200
// @Failure      404  {object}  types.ErrorResponse
// @Router       /session/preview [get]
func (h *sessionHandlers) preview(w http.ResponseWriter, r *http.Request) {
	a, ok := h.svc.Preview()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "no document to preview")
		return
	}
	ct := a.MimeType
	if ct == "" {
		ct = merge.MimeType
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": a.Filename}))
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, a.Filename, a.CreatedAt, bytes.NewReader(a.Data))
}

// closePreview godoc
// @Summary      Close the preview
// @Description  Discards the compiled document and returns to idle; the session is kept.
// @Tags         preview
// @Produce      json
// @Success      200  {object}  types.OperationResponse
// @Router       /session/preview [delete]
func (h *sessionHandlers) closePreview(w http.ResponseWriter, r *http.Request) {
	h.operation(w, r, "close_preview", nil, h.svc.ClosePreview())
}

// dismissNotice godoc
// @Summary      Dismiss the current notice
// @Tags         session
// @Produce      json
// @Success      200  {object}  types.SessionResponse
// @Router       /session/notice [delete]
func (h *sessionHandlers) dismissNotice(w http.ResponseWriter, r *http.Request) {
	h.svc.DismissNotice()
	writeJSON(w, http.StatusOK, h.svc.Status())
}

func (h *sessionHandlers) operation(w http.ResponseWriter, r *http.Request, action string, op *pipeline.Op, started bool) {
	resp := types.OperationResponse{Started: started, State: h.svc.Status().State}
	if op != nil {
		resp.OpID = op.ID
	}
	logEvent(r, LevelInfo, "session action", map[string]any{
		"action":  action,
		"started": started,
		"op":      resp.OpID,
		"state":   resp.State,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (h *sessionHandlers) locked(w http.ResponseWriter, r *http.Request) {
	IncrementRejected("session_locked")
	logEvent(r, LevelDebug, "edit rejected", map[string]any{"path": r.URL.Path})
	writeError(w, errSessionLocked)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// looksLikePDF accepts content that sniffs as PDF or a .pdf name. Malformed PDFs
// still reach the merger, which reports them as compile failures.
func looksLikePDF(name string, data []byte) bool {
	if http.DetectContentType(data) == merge.MimeType {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
