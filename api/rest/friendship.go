package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialnet/friendship/server/audit"
	mw "github.com/socialnet/friendship/server/middleware"
	"github.com/socialnet/friendship/server/social"
)

// EmailRequest is the body of single-email operations.
type EmailRequest struct {
	Email string `json:"email"`
}

// PairRequest is the body of two-email operations.
type PairRequest struct {
	Email1 string `json:"email1"`
	Email2 string `json:"email2"`
}

// FriendshipHandler exposes the relationship engine over REST. The
// handlers do no validation beyond JSON binding; every business rule
// lives in the engine and every outcome is carried in the envelope.
type FriendshipHandler struct {
	svc   *social.Service
	audit *audit.Service // optional; nil disables audit writes
}

// NewFriendshipHandler creates a new FriendshipHandler.
func NewFriendshipHandler(svc *social.Service, auditSvc *audit.Service) *FriendshipHandler {
	return &FriendshipHandler{svc: svc, audit: auditSvc}
}

// FriendList handles POST /v1/user/friends.
func (h *FriendshipHandler) FriendList(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.svc.GetFriendList(c.Request.Context(), req.Email)
	c.JSON(res.Status, res)
}

// CommonFriends handles POST /v1/user/common.
func (h *FriendshipHandler) CommonFriends(c *gin.Context) {
	var req PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.svc.GetCommonFriends(c.Request.Context(), req.Email1, req.Email2)
	c.JSON(res.Status, res)
}

// Connect handles POST /v1/user/connect.
func (h *FriendshipHandler) Connect(c *gin.Context) {
	var req PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()
	res := h.svc.CreateConnection(c.Request.Context(), req.Email1, req.Email2)
	h.logMutation(c, "connect", req, res, start)
	c.JSON(res.Status, res)
}

// Subscribe handles POST /v1/user/subscribe.
func (h *FriendshipHandler) Subscribe(c *gin.Context) {
	var req PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()
	res := h.svc.Subscribe(c.Request.Context(), req.Email1, req.Email2)
	h.logMutation(c, "subscribe", req, res, start)
	c.JSON(res.Status, res)
}

// Block handles POST /v1/user/block.
func (h *FriendshipHandler) Block(c *gin.Context) {
	var req PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()
	res := h.svc.Block(c.Request.Context(), req.Email1, req.Email2)
	h.logMutation(c, "block", req, res, start)
	c.JSON(res.Status, res)
}

// EligibleRecipients handles POST /v1/user/updatable.
func (h *FriendshipHandler) EligibleRecipients(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.svc.GetEligibleRecipients(c.Request.Context(), req.Email)
	c.JSON(res.Status, res)
}

// RegisterRoutes mounts the handler under /v1/user.
func (h *FriendshipHandler) RegisterRoutes(r gin.IRouter) {
	user := r.Group("/v1/user")
	user.POST("/friends", h.FriendList)
	user.POST("/common", h.CommonFriends)
	user.POST("/connect", h.Connect)
	user.POST("/subscribe", h.Subscribe)
	user.POST("/block", h.Block)
	user.POST("/updatable", h.EligibleRecipients)
}

func (h *FriendshipHandler) logMutation(c *gin.Context, action string, req interface{}, res *social.Result, start time.Time) {
	if h.audit == nil {
		return
	}
	entry := audit.Entry{
		TraceID:    mw.GetTraceID(c),
		Action:     action,
		Request:    req,
		Response:   res,
		IP:         c.ClientIP(),
		DurationMs: int(time.Since(start).Milliseconds()),
	}
	if res.Status != http.StatusOK {
		entry.Error = res.Message
	}
	h.audit.Log(entry)
}
