package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sahakari/bachatgat_ledger/internal/pkg/models"
	"sahakari/bachatgat_ledger/internal/pkg/services"
	"sahakari/bachatgat_ledger/internal/pkg/utils"
)

type MembershipHandler struct {
	membershipService services.MembershipServiceInterface
}

func NewMembershipHandler(membershipService services.MembershipServiceInterface) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

func (h *MembershipHandler) CreateGroup(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	creatorID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}

	var body services.CreateGroupInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		respondError(c, err)
		return
	}

	group, wallet, err := h.membershipService.CreateGroup(c.Request.Context(), creatorID, body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": group, "wallet": wallet})
}

func (h *MembershipHandler) AddMember(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	adminID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	groupID, err := utils.ParseObjectID(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}

	var body models.AddMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		respondError(c, err)
		return
	}
	userID, err := utils.ParseObjectID(body.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	role := models.MemberRole(body.Role)
	if role == "" {
		role = models.RoleMember
	}
	member, err := h.membershipService.AddMember(c.Request.Context(), groupID, adminID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}

func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	adminID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	groupID, err := utils.ParseObjectID(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}

	var body models.RemoveMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		respondError(c, err)
		return
	}
	userID, err := utils.ParseObjectID(body.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.membershipService.RemoveMember(c.Request.Context(), groupID, adminID, userID, body.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func (h *MembershipHandler) LeaveGroup(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	userID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	groupID, err := utils.ParseObjectID(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}

	var body models.LeaveGroupRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.membershipService.LeaveGroup(c.Request.Context(), groupID, userID, body.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": true})
}

func (h *MembershipHandler) TransferAdmin(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	fromUserID, err := utils.ParseObjectID(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	groupID, err := utils.ParseObjectID(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}

	var body models.TransferAdminRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		respondError(c, err)
		return
	}
	toUserID, err := utils.ParseObjectID(body.ToUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	transfer, err := h.membershipService.TransferAdmin(c.Request.Context(), groupID, fromUserID, toUserID, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfer": transfer})
}

func (h *MembershipHandler) MemberLiabilities(c *gin.Context) {
	groupID, err := utils.ParseObjectID(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}
	userID, err := utils.ParseObjectID(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	liabilities, err := h.membershipService.GetMemberLiabilities(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, liabilities)
}
