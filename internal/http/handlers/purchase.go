package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/probiller/purchase-gateway/internal/http/middleware"
	"github.com/probiller/purchase-gateway/internal/http/response"
	"github.com/probiller/purchase-gateway/internal/platform/apierr"
	"github.com/probiller/purchase-gateway/internal/platform/dbctx"
	"github.com/probiller/purchase-gateway/internal/services"
)

type PurchaseHandler struct {
	initService     services.PurchaseInitService
	processService  services.PurchaseProcessService
	completeService services.PurchaseCompleteService
}

func NewPurchaseHandler(
	initService services.PurchaseInitService,
	processService services.PurchaseProcessService,
	completeService services.PurchaseCompleteService,
) *PurchaseHandler {
	return &PurchaseHandler{
		initService:     initService,
		processService:  processService,
		completeService: completeService,
	}
}

func (h *PurchaseHandler) Init(c *gin.Context) {
	var req services.InitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	if req.IPAddress == "" {
		req.IPAddress = c.ClientIP()
	}
	res, err := h.initService.Init(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, res)
}

func (h *PurchaseHandler) Process(c *gin.Context) {
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req services.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	req.SessionID = sessionID
	res, err := h.processService.Process(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, res)
}

func (h *PurchaseHandler) Complete(c *gin.Context) {
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	res, err := h.completeService.Complete(dbctx.Context{Ctx: c.Request.Context()}, sessionID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// Return receives the third-party biller round trip. The biller calls back
// with the session token in the query string, so it goes through the same
// session middleware as process.
func (h *PurchaseHandler) Return(c *gin.Context) {
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req services.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	req.SessionID = sessionID
	res, err := h.processService.HandleReturn(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, res)
}
