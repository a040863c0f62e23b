package admin

import (
	"strconv"
	"strings"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var mediaErrorRules = []mappedHandlerError{
	{target: service.ErrMediaNotFound, code: response.CodeNotFound, msg: "upload not found"},
	{target: service.ErrUploadTooLarge, code: response.CodeBadRequest, msg: "upload exceeds size limit"},
	{target: service.ErrUploadTypeInvalid, code: response.CodeBadRequest, msg: "upload type not allowed"},
	{target: service.ErrPlanLimitReached, code: response.CodeBadRequest, msg: "plan storage limit reached"},
}

// ListMedia lists the tenant's uploads.
func (h *Handler) ListMedia(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	uploads, total, err := h.MediaService.List(repository.MediaListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: scope,
		MimeType: strings.TrimSpace(c.Query("mime_type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "media list failed", err)
		return
	}
	response.SuccessWithPage(c, uploads, paginationMeta(page, pageSize, total))
}

// UploadMedia stores one multipart file under the tenant's directory.
func (h *Handler) UploadMedia(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "file field required", err)
		return
	}

	upload, err := h.MediaService.Save(scope, staffID, file)
	if err != nil {
		respondWithMappedError(c, err, mediaErrorRules, response.CodeInternal, "upload failed")
		return
	}
	requestLog(c).Infow("media_uploaded",
		"media_id", upload.ID,
		"tenant_id", upload.TenantID,
		"size", upload.SizeBytes,
	)
	response.Success(c, upload)
}

// DeleteMedia removes an upload record and its file.
func (h *Handler) DeleteMedia(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.MediaService.Delete(scope, id); err != nil {
		respondWithMappedError(c, err, mediaErrorRules, response.CodeInternal, "media delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
