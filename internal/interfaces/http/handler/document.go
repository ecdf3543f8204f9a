package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	docapp "github.com/budgeterp/backend/internal/application/document"
	"github.com/budgeterp/backend/internal/domain/document"
)

// DocumentHandler handles financial document API endpoints. One handler
// serves all three document kinds; the router binds each method to a
// kind so purchase orders, vendor bills and customer invoices share the
// same lifecycle code.
type DocumentHandler struct {
	BaseHandler
	documentService *docapp.Service
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *docapp.Service) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Create godoc
// @ID           createDocument
// @Summary      Create a financial document
// @Description  Creates a draft document; lines without an analytic go through auto assignment
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        request body docapp.CreateDocumentRequest true "Document creation request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /{kind} [post]
func (h *DocumentHandler) Create(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req docapp.CreateDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}

		doc, err := h.documentService.Create(c.Request.Context(), kind, req)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.Created(c, doc)
	}
}

// GetByID godoc
// @ID           getDocumentById
// @Summary      Get financial document by ID
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /{kind}/{id} [get]
func (h *DocumentHandler) GetByID(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			h.BadRequest(c, "Invalid document ID format")
			return
		}

		doc, err := h.documentService.GetByID(c.Request.Context(), kind, id)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.Success(c, doc)
	}
}

// List godoc
// @ID           listDocuments
// @Summary      List financial documents
// @Tags         documents
// @Produce      json
// @Param        search query string false "Search term (document number, partner name)"
// @Param        status query string false "Document status" Enums(draft, confirmed, cancelled)
// @Param        payment_status query string false "Payment status" Enums(not_paid, partial, paid, reversed)
// @Param        partner_id query string false "Partner ID" format(uuid)
// @Param        date_from query string false "Document date lower bound (ISO 8601)"
// @Param        date_to query string false "Document date upper bound (ISO 8601)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Router       /{kind} [get]
func (h *DocumentHandler) List(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := bindListFilter(c, "status", "payment_status", "partner_id", "date_from", "date_to")
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}

		docs, total, err := h.documentService.List(c.Request.Context(), kind, filter)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.SuccessWithMeta(c, docs, total, filter.Page, filter.PageSize)
	}
}

// Update godoc
// @ID           updateDocument
// @Summary      Update a financial document
// @Description  Only draft documents can be edited; given lines replace the existing set
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body docapp.UpdateDocumentRequest true "Document update request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /{kind}/{id} [put]
func (h *DocumentHandler) Update(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			h.BadRequest(c, "Invalid document ID format")
			return
		}

		var req docapp.UpdateDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}

		doc, err := h.documentService.Update(c.Request.Context(), kind, id, req)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.Success(c, doc)
	}
}

// Delete godoc
// @ID           deleteDocument
// @Summary      Delete a financial document
// @Description  Only draft documents can be deleted
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /{kind}/{id} [delete]
func (h *DocumentHandler) Delete(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			h.BadRequest(c, "Invalid document ID format")
			return
		}

		if err := h.documentService.Delete(c.Request.Context(), kind, id); err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.NoContent(c)
	}
}

// Confirm godoc
// @ID           confirmDocument
// @Summary      Confirm a financial document
// @Description  Transitions the document to CONFIRMED and records budget achievement
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /{kind}/{id}/confirm [post]
func (h *DocumentHandler) Confirm(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			h.BadRequest(c, "Invalid document ID format")
			return
		}

		doc, err := h.documentService.Confirm(c.Request.Context(), kind, id)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.Success(c, doc)
	}
}

// Cancel godoc
// @ID           cancelDocument
// @Summary      Cancel a financial document
// @Description  Cancelling a confirmed document reverses its budget achievement
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /{kind}/{id}/cancel [post]
func (h *DocumentHandler) Cancel(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			h.BadRequest(c, "Invalid document ID format")
			return
		}

		doc, err := h.documentService.Cancel(c.Request.Context(), kind, id)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.Success(c, doc)
	}
}

// Send godoc
// @ID           sendDocument
// @Summary      Mark a financial document as sent
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /{kind}/{id}/send [post]
func (h *DocumentHandler) Send(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			h.BadRequest(c, "Invalid document ID format")
			return
		}

		doc, err := h.documentService.Send(c.Request.Context(), kind, id)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.Success(c, doc)
	}
}

// ExportPDF godoc
// @ID           exportDocumentPdf
// @Summary      Export a document as a render-ready PDF payload
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /{kind}/{id}/pdf [get]
func (h *DocumentHandler) ExportPDF(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			h.BadRequest(c, "Invalid document ID format")
			return
		}

		payload, err := h.documentService.ExportPDF(c.Request.Context(), kind, id)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.Success(c, payload)
	}
}

// RecordPayment godoc
// @ID           recordDocumentPayment
// @Summary      Record a payment against a confirmed document
// @Description  Repeated requests with the same idempotency key return the current state without double-counting
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body docapp.RecordPaymentRequest true "Payment request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /{kind}/{id}/create-payment [post]
func (h *DocumentHandler) RecordPayment(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			h.BadRequest(c, "Invalid document ID format")
			return
		}

		var req docapp.RecordPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}

		doc, err := h.documentService.RecordPayment(c.Request.Context(), kind, id, req)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.Success(c, doc)
	}
}

// VerifyPaymentRequest names the payment to verify
type VerifyPaymentRequest struct {
	PaymentID uuid.UUID `json:"paymentId" binding:"required"`
}

// VerifyPayment godoc
// @ID           verifyDocumentPayment
// @Summary      Verify a recorded payment
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body VerifyPaymentRequest true "Payment to verify"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /{kind}/{id}/verify-payment [post]
func (h *DocumentHandler) VerifyPayment(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			h.BadRequest(c, "Invalid document ID format")
			return
		}

		var req VerifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}

		doc, err := h.documentService.VerifyPayment(c.Request.Context(), kind, id, req.PaymentID)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.Success(c, doc)
	}
}

// AssignLine godoc
// @ID           assignDocumentLine
// @Summary      Manually assign or clear a line's budget analytic
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        line_id path string true "Line ID" format(uuid)
// @Param        request body docapp.AssignLineRequest true "Assignment request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /{kind}/{id}/lines/{line_id}/assign [post]
func (h *DocumentHandler) AssignLine(kind document.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			h.BadRequest(c, "Invalid document ID format")
			return
		}

		lineID, err := parseIDParam(c, "line_id")
		if err != nil {
			h.BadRequest(c, "Invalid line ID format")
			return
		}

		var req docapp.AssignLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}

		doc, err := h.documentService.AssignLine(c.Request.Context(), kind, id, lineID, req)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		h.Success(c, doc)
	}
}
