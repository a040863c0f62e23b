package public

import (
	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var formSubmitErrorRules = []mappedHandlerError{
	{target: service.ErrFormNotFound, code: response.CodeNotFound, msg: "form not found"},
	{target: service.ErrFormValidation, code: response.CodeBadRequest, msg: "form submission invalid"},
	{target: service.ErrFormSchemaInvalid, code: response.CodeInternal, msg: "form schema invalid"},
}

// SubmitForm validates a submission against the form schema and stores
// it.
func (h *Handler) SubmitForm(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	var submission models.JSON
	if err := c.ShouldBindJSON(&submission); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	result, err := h.FormService.Submit(tenantID, c.Param("slug"), submission, c.ClientIP())
	if err != nil {
		respondWithMappedError(c, err, formSubmitErrorRules, response.CodeInternal, "form submit failed")
		return
	}
	response.Success(c, gin.H{
		"submission_id": result.ID,
		"submitted_at":  result.CreatedAt,
	})
}
