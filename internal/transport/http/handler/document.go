package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docanalyzer/internal/model"
	"docanalyzer/internal/transport/http/response"
	"docanalyzer/internal/upload"
	"docanalyzer/internal/workspace"
)

type DocumentHandler struct {
	ws     *workspace.Workspace
	policy upload.Policy
}

type UploadRequest struct {
	Files []model.FileMeta `json:"files" binding:"required,dive"`
}

func NewDocumentHandler(ws *workspace.Workspace, policy upload.Policy) *DocumentHandler {
	return &DocumentHandler{ws: ws, policy: policy}
}

// Upload accepts either a JSON list of file names and sizes or a multipart
// form with one or more "files" parts. Only the metadata is recorded.
func (h *DocumentHandler) Upload(c *gin.Context) {
	files, err := bindFiles(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.policy.Validate(files); err != nil {
		var verr *upload.ValidationError
		if errors.As(err, &verr) {
			response.ErrorWithData(c, http.StatusBadRequest, response.CodeUploadRejected, "upload rejected", gin.H{
				"errors": verr.Problems,
			})
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload failed")
		return
	}

	docs := h.ws.Upload(files)
	response.OK(c, gin.H{"documents": docs})
}

func bindFiles(c *gin.Context) ([]model.FileMeta, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		headers := form.File["files"]
		if len(headers) == 0 {
			return nil, errors.New("no files in form")
		}
		files := make([]model.FileMeta, 0, len(headers))
		for _, fh := range headers {
			files = append(files, model.FileMeta{Name: fh.Filename, Size: fh.Size})
		}
		return files, nil
	}

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return req.Files, nil
}

func (h *DocumentHandler) List(c *gin.Context) {
	response.OK(c, gin.H{"documents": h.ws.Documents()})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.ws.DeleteDocument(c.Param("id")); err != nil {
		writeWorkspaceError(c, err)
		return
	}
	response.OK(c, gin.H{"selection": h.ws.Selection()})
}

func (h *DocumentHandler) Select(c *gin.Context) {
	session, err := h.ws.SelectDocument(c.Param("id"))
	if err != nil {
		writeWorkspaceError(c, err)
		return
	}
	response.OK(c, gin.H{
		"selection": h.ws.Selection(),
		"session":   session,
	})
}

func writeWorkspaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workspace.ErrDocumentNotFound):
		response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
	case errors.Is(err, workspace.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
	case errors.Is(err, workspace.ErrMessageEmpty):
		response.Error(c, http.StatusBadRequest, response.CodeMessageEmpty, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "internal error")
	}
}
