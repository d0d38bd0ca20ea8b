package handler

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	printingapp "github.com/orderportal/backend/internal/application/printing"
	infra "github.com/orderportal/backend/internal/infrastructure/printing"
	"github.com/orderportal/backend/internal/interfaces/http/dto"
	"github.com/orderportal/backend/internal/interfaces/http/middleware"
)

// Response headers describing a generated document
const (
	HeaderPageCount         = "X-Page-Count"
	HeaderRenderMode        = "X-Render-Mode"
	HeaderArchiveURL        = "X-Archive-URL"
	HeaderCheckboxConflicts = "X-Checkbox-Conflicts"
)

// SLIGenerator is the application service behind the SLI endpoints
type SLIGenerator interface {
	Preview(ctx context.Context, tenantID uuid.UUID, source string, id uuid.UUID) (*infra.RenderResult, error)
	GeneratePDF(ctx context.Context, tenantID uuid.UUID, source string, id uuid.UUID, mode string) (*printingapp.GenerateResult, error)
	Summary(ctx context.Context, tenantID uuid.UUID, source string, id uuid.UUID) (*infra.RenderResult, error)
	RenderDocument(ctx context.Context, tenantID uuid.UUID, req *printingapp.RenderDocumentRequest, mode string) (*printingapp.GenerateResult, error)
}

// SLIHandler serves Shipper's Letter of Instruction documents
type SLIHandler struct {
	BaseHandler
	service SLIGenerator
}

// NewSLIHandler creates a new SLIHandler
func NewSLIHandler(service SLIGenerator) *SLIHandler {
	return &SLIHandler{service: service}
}

// recordRef is the tenant and record a stored-record request addresses
type recordRef struct {
	tenantID uuid.UUID
	source   string
	id       uuid.UUID
}

// Preview godoc
//
//	@ID				previewSLI
//
//	@Summary		Preview an SLI
//	@Description	Returns the populated form as HTML for a stored order or document
//	@Tags			sli
//	@Produce		html
//	@Param			source	path		string	true	"Record source"	Enums(orders, documents)
//	@Param			id		path		string	true	"Record ID"		format(uuid)
//	@Success		200		{string}	string	"Populated form markup"
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		422		{object}	dto.Response	"Too many product rows for the form"
//	@Security		BearerAuth
//	@Router			/api/v1/sli/{source}/{id}/preview [get]
func (h *SLIHandler) Preview(c *gin.Context) {
	ref, ok := h.resolve(c)
	if !ok {
		return
	}

	result, err := h.service.Preview(c.Request.Context(), ref.tenantID, ref.source, ref.id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// PDF returns the document as a PDF attachment. ?mode=vector|raster picks
// the pipeline; the configured default applies when it is omitted.
//
//	@ID				generateSLIPDF
//
//	@Summary		Generate an SLI PDF
//	@Description	Renders a stored order or document to PDF and returns it as an attachment
//	@Tags			sli
//	@Produce		application/pdf
//	@Param			source	path		string	true	"Record source"	Enums(orders, documents)
//	@Param			id		path		string	true	"Record ID"		format(uuid)
//	@Param			mode	query		string	false	"Render pipeline"	Enums(vector, raster)
//	@Success		200		{file}		file	"PDF attachment"
//	@Header			200		{integer}	X-Page-Count			"Pages in the PDF"
//	@Header			200		{string}	X-Render-Mode			"Pipeline that produced the PDF"
//	@Header			200		{string}	X-Archive-URL			"Location of the archived copy, when archiving is enabled"
//	@Header			200		{string}	X-Checkbox-Conflicts	"Comma separated mutually exclusive box pairs that were both set"
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		422		{object}	dto.Response	"Too many product rows for vector output"
//	@Failure		500		{object}	dto.Response
//	@Failure		503		{object}	dto.Response	"Raster renderer unavailable"
//	@Failure		504		{object}	dto.Response	"Render timed out"
//	@Security		BearerAuth
//	@Router			/api/v1/sli/{source}/{id}/pdf [get]
func (h *SLIHandler) PDF(c *gin.Context) {
	ref, ok := h.resolve(c)
	if !ok {
		return
	}

	result, err := h.service.GeneratePDF(c.Request.Context(), ref.tenantID, ref.source, ref.id, c.Query("mode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendGenerated(c, result)
}

// Summary godoc
//
//	@ID				summarySLI
//
//	@Summary		Download the product summary
//	@Description	Returns the product table of a stored order or document as an Excel workbook
//	@Tags			sli
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			source	path		string	true	"Record source"	Enums(orders, documents)
//	@Param			id		path		string	true	"Record ID"		format(uuid)
//	@Success		200		{file}		file	"Workbook attachment"
//	@Header			200		{integer}	X-Page-Count	"Always 1"
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		500		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/api/v1/sli/{source}/{id}/summary.xlsx [get]
func (h *SLIHandler) Summary(c *gin.Context) {
	ref, ok := h.resolve(c)
	if !ok {
		return
	}

	result, err := h.service.Summary(c.Request.Context(), ref.tenantID, ref.source, ref.id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendAttachment(c, result)
}

// Render returns a PDF for a posted, fully resolved record.
//
//	@ID				renderSLI
//
//	@Summary		Render a posted SLI
//	@Description	Renders a caller-supplied SLI record to PDF without reading stored data
//	@Tags			sli
//	@Accept			json
//	@Produce		application/pdf
//	@Param			request	body		printingapp.RenderDocumentRequest	true	"SLI record"
//	@Param			mode	query		string								false	"Render pipeline"	Enums(vector, raster)
//	@Success		200		{file}		file								"PDF attachment"
//	@Header			200		{integer}	X-Page-Count						"Pages in the PDF"
//	@Header			200		{string}	X-Render-Mode						"Pipeline that produced the PDF"
//	@Header			200		{string}	X-Archive-URL						"Location of the archived copy, when archiving is enabled"
//	@Header			200		{string}	X-Checkbox-Conflicts				"Comma separated mutually exclusive box pairs that were both set"
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		413		{object}	dto.Response
//	@Failure		422		{object}	dto.Response	"Too many product rows for vector output"
//	@Failure		500		{object}	dto.Response
//	@Failure		503		{object}	dto.Response	"Raster renderer unavailable"
//	@Failure		504		{object}	dto.Response	"Render timed out"
//	@Security		BearerAuth
//	@Router			/api/v1/sli/render [post]
func (h *SLIHandler) Render(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant could not be determined")
		return
	}

	var req printingapp.RenderDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return
		}
		if details := middleware.ValidationDetails(err); details != nil {
			h.ValidationError(c, details)
			return
		}
		h.BadRequest(c, "Request body must be a JSON SLI record")
		return
	}

	result, err := h.service.RenderDocument(c.Request.Context(), tenantID, &req, c.Query("mode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendGenerated(c, result)
}

// resolve reads the tenant and path parameters, writing the error response
// itself when they are unusable
func (h *SLIHandler) resolve(c *gin.Context) (recordRef, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant could not be determined")
		return recordRef{}, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Record ID must be a UUID")
		return recordRef{}, false
	}
	return recordRef{tenantID: tenantID, source: c.Param("source"), id: id}, true
}

func (h *SLIHandler) sendGenerated(c *gin.Context, result *printingapp.GenerateResult) {
	c.Header(HeaderRenderMode, string(result.Mode))
	if result.ArchiveURL != "" {
		c.Header(HeaderArchiveURL, result.ArchiveURL)
	}
	if len(result.Conflicts) > 0 {
		pairs := make([]string, len(result.Conflicts))
		for i, p := range result.Conflicts {
			pairs[i] = string(p.First) + "/" + string(p.Second)
		}
		c.Header(HeaderCheckboxConflicts, strings.Join(pairs, ","))
	}
	h.sendAttachment(c, result.RenderResult)
}

func (h *SLIHandler) sendAttachment(c *gin.Context, result *infra.RenderResult) {
	if result.PageCount > 0 {
		c.Header(HeaderPageCount, strconv.Itoa(result.PageCount))
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
