package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ridelink/verify-api/internal/pkg/apperror"
	"github.com/ridelink/verify-api/internal/pkg/response"
	"github.com/ridelink/verify-api/internal/service/verification"
)

// VerificationHandler handles phone verification HTTP requests
type VerificationHandler struct {
	service *verification.Service
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(service *verification.Service) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// Send handles POST /api/v1/verification/send
func (h *VerificationHandler) Send(c *gin.Context) {
	var req verification.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidArgument("phone_number is required"))
		return
	}

	resp, err := h.service.Issue(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}

	response.Success(c, resp)
}

// Resend handles POST /api/v1/verification/resend
func (h *VerificationHandler) Resend(c *gin.Context) {
	var req verification.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidArgument("phone_number is required"))
		return
	}

	resp, err := h.service.Resend(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}

	response.Success(c, resp)
}

// Verify handles POST /api/v1/verification/verify
func (h *VerificationHandler) Verify(c *gin.Context) {
	var req verification.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidArgument("phone_number and a 6-digit code are required"))
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}

	response.Success(c, resp)
}
