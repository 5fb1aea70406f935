package handlers

import (
	"net/http"

	"github.com/atlas-pm/portfolio-backend/internal/members"
	"github.com/atlas-pm/portfolio-backend/internal/models"
	"github.com/atlas-pm/portfolio-backend/internal/types"
	"github.com/gin-gonic/gin"
)

// ============================================
// Member Handler (mock external members API)
// ============================================

// MemberHandler exposes the member directory over HTTP. In development
// it fronts the in-memory mock so the whole system runs in one process.
type MemberHandler struct {
	directory members.Directory
}

func NewMemberHandler(directory members.Directory) *MemberHandler {
	return &MemberHandler{directory: directory}
}

// Create - Register a member in the directory
// POST /external/members
func (h *MemberHandler) Create(c *gin.Context) {
	var req models.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !types.IsValidMemberRole(req.Role) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "INVALID_ROLE",
			"accepted": types.ValidMemberRoles,
		})
		return
	}

	member, err := h.directory.Create(c.Request.Context(), req.Name, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.MemberResponse{
		ID:   member.ID,
		Name: member.Name,
		Role: member.Role,
	})
}

// Get - Look up a member by id
// GET /external/members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.directory.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if member == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, models.MemberResponse{
		ID:   member.ID,
		Name: member.Name,
		Role: member.Role,
	})
}
