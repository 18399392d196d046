package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/internal/bufpool"
	"github.com/Cameron831/CloudStreamer/internal/operations/assemble"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// uploadField is the multipart field carrying upload files.
const uploadField = "files[]"

type errorResponse struct {
	Error     errors.ErrorCode `json:"error"`
	Message   string           `json:"message"`
	RequestID string           `json:"request_id,omitempty"`
}

type uploadResponse struct {
	Results []string `json:"results"`
}

type foldersResponse struct {
	Folders []string `json:"folders"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "CloudStreamer\n")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lookup := s.svc.Stream
	if r.Method == http.MethodHead {
		lookup = s.svc.Head
	}
	resp, err := lookup(ctx, r.PathValue("key"), r.Header.Get("Range"))
	if err != nil {
		s.metrics.StreamFailed(string(errors.CodeOf(err)))
		if size, ok := errors.ObjectSize(err); ok {
			for k, v := range assemble.Unsatisfiable(size) {
				w.Header()[k] = v
			}
		}
		s.writeError(w, r, err)
		return
	}
	defer resp.Body.Close()

	done := s.metrics.StreamStarted()
	defer done()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if r.Method == http.MethodHead {
		return
	}
	n, err := bufpool.Copy(w, resp.Body)
	s.metrics.AddBytes(resp.StatusCode, n)
	if err != nil && s.logger != nil {
		s.logger.DebugContext(ctx, "stream interrupted",
			"request_id", RequestID(ctx),
			"key", r.PathValue("key"),
			"sent", n,
			"error", err,
		)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(w, r, errors.NewError("upload", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("cannot read upload form: %v", err)))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		s.writeError(w, r, errors.NewError("upload", errors.ErrInvalidInput).
			WithMessage("No files provided"))
		return
	}

	files := make([]streamtypes.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadFile(fh))
	}

	results, err := s.svc.Upload(r.Context(), r.FormValue("folder"), files)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := uploadResponse{Results: make([]string, 0, len(results))}
	for _, res := range results {
		name := res.Filename
		if res.Key != "" {
			name = path.Base(res.Key)
		}
		if res.Err != nil {
			body.Results = append(body.Results, fmt.Sprintf("Failed to upload %s: %v", name, res.Err))
			continue
		}
		body.Results = append(body.Results, name+" uploaded successfully")
	}
	s.writeJSON(w, r, http.StatusOK, body)
}

func uploadFile(fh *multipart.FileHeader) streamtypes.UploadFile {
	return streamtypes.UploadFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.svc.Folders(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, foldersResponse{Folders: folders})
}

// writeError renders err as a JSON error body with its mapped status.
// Internal failures are not described to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	status := code.HTTPStatus()

	msg := err.Error()
	if code == errors.CodeInternal {
		msg = http.StatusText(status)
	}

	if s.logger != nil {
		side := "client"
		if status >= http.StatusInternalServerError {
			side = "server"
		}
		s.logger.WarnContext(r.Context(), "request failed",
			"request_id", RequestID(r.Context()),
			"status", status,
			"side", side,
			"error", err,
		)
	}

	h := w.Header()
	if status != http.StatusRequestedRangeNotSatisfiable {
		h.Del("Accept-Ranges")
	}
	h.Del("Content-Length")
	s.writeJSON(w, r, status, errorResponse{
		Error:     code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.DebugContext(r.Context(), "write response failed",
			"request_id", RequestID(r.Context()),
			"error", err,
		)
	}
}
