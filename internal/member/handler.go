package member

import (
	"fmt"
	"net/http"

	sharedContext "github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/context"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/handler"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService *MemberService
}

func NewMemberHandler(memberService *MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

func (h *MemberHandler) GetMembers(c *gin.Context) {
	var query ListMembersQuery
	if !handler.BindQuery(c, &query) {
		return
	}

	response, err := h.memberService.GetMembers(c.Request.Context(), query.Q)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) GetMember(c *gin.Context) {
	var uri MemberURI
	if !handler.BindURI(c, &uri) {
		return
	}

	response, err := h.memberService.GetMemberByID(c.Request.Context(), uri.ID)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) UpdatePayment(c *gin.Context) {
	admin, ok := sharedContext.RequireAdmin(c)
	if !ok {
		return
	}

	var uri UpdatePaymentURI
	if !handler.BindURI(c, &uri) {
		return
	}
	var req UpdatePaymentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	response, err := h.memberService.UpdateMemberPayment(c.Request.Context(), uri.ID, uri.Date, req)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Debug("납부 상태 변경 요청 처리", "admin", admin)
	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) Refresh(c *gin.Context) {
	response, err := h.memberService.RefreshMembers(c.Request.Context())
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) GetPayoutSchedule(c *gin.Context) {
	response, err := h.memberService.GetPayoutSchedule(c.Request.Context())
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) GetNextPayout(c *gin.Context) {
	response, err := h.memberService.GetNextPayoutMember(c.Request.Context())
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) GetStats(c *gin.Context) {
	var query StatsQuery
	if !handler.BindQuery(c, &query) {
		return
	}

	response, err := h.memberService.GetDailyStats(c.Request.Context(), query.Date)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) GetOverview(c *gin.Context) {
	var query OverviewQuery
	if !handler.BindQuery(c, &query) {
		return
	}

	response, err := h.memberService.GetOverview(c.Request.Context(), query.Months)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) ExportCSV(c *gin.Context) {
	var query ExportQuery
	if !handler.BindQuery(c, &query) {
		return
	}

	result, err := h.memberService.ExportCSV(c.Request.Context(), query)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", result.Content)
}

// GuestMembers serves the payment grid without contact details.
func (h *MemberHandler) GuestMembers(c *gin.Context) {
	var query ListMembersQuery
	if !handler.BindQuery(c, &query) {
		return
	}

	response, err := h.memberService.GetMembers(c.Request.Context(), query.Q)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.forGuest())
}
