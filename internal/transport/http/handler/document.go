package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"deepdocs/internal/app"
	"deepdocs/internal/extract"
	"deepdocs/internal/transport/http/response"
)

type DocumentHandler struct {
	documents   *app.DocumentService
	maxSizeByte int64
}

func NewDocumentHandler(documents *app.DocumentService, maxSizeMB int) *DocumentHandler {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &DocumentHandler{
		documents:   documents,
		maxSizeByte: int64(maxSizeMB) << 20,
	}
}

// Upload accepts a multipart form with "file" and ingests it into the
// conversation's document set.
func (h *DocumentHandler) Upload(c *gin.Context) {
	conversationID, err := parseUintParam(c, "id")
	if err != nil || conversationID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid conversation id")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > h.maxSizeByte {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
			"file too large (max "+strconv.FormatInt(h.maxSizeByte>>20, 10)+"MB)")
		return
	}
	if !extract.Supported(file.Filename) {
		response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFormat, "unsupported document format")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxSizeByte+1))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	if int64(len(data)) > h.maxSizeByte {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
			"file too large (max "+strconv.FormatInt(h.maxSizeByte>>20, 10)+"MB)")
		return
	}

	doc, err := h.documents.Ingest(c.Request.Context(), conversationID, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrConversationNotFound):
			response.Error(c, http.StatusNotFound, response.CodeConversationNotFound, err.Error())
		case errors.Is(err, extract.ErrUnsupportedFormat):
			response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFormat, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest failed: "+err.Error())
		}
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	conversationID, err := parseUintParam(c, "id")
	if err != nil || conversationID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid conversation id")
		return
	}

	docs, err := h.documents.List(conversationID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, docs)
}

// Download serves the stored document bytes under its original filename.
func (h *DocumentHandler) Download(c *gin.Context) {
	docID, err := parseUintParam(c, "doc_id")
	if err != nil || docID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	doc, data, err := h.documents.Open(docID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "download document failed")
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.OriginalName+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, err := parseUintParam(c, "doc_id")
	if err != nil || docID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	if err := h.documents.Remove(c.Request.Context(), docID); err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		}
		return
	}
	response.OK(c, gin.H{"deleted_document_id": docID})
}
