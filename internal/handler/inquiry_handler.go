package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eamse/gaon/internal/service"
)

type inquiryPayload struct {
	UserName  string `json:"userName"`
	UserPhone string `json:"userPhone"`
	SpaceType string `json:"spaceType"`
	AreaSize  *int   `json:"areaSize"`
	Location  string `json:"location"`
	Scope     string `json:"scope"`
	Budget    *int64 `json:"budget"`
	Schedule  string `json:"schedule"`
	Requests  string `json:"requests"`
}

func (p inquiryPayload) toInput() service.InquiryInput {
	return service.InquiryInput{
		UserName:  p.UserName,
		UserPhone: p.UserPhone,
		SpaceType: p.SpaceType,
		AreaSize:  p.AreaSize,
		Location:  p.Location,
		Scope:     p.Scope,
		Budget:    p.Budget,
		Schedule:  p.Schedule,
		Requests:  p.Requests,
	}
}

type inquiryUpdatePayload struct {
	Status    *string `json:"status"`
	AdminMemo *string `json:"adminMemo"`
}

// CreateInquiry accepts the public inquiry form.
func (a *API) CreateInquiry(c *gin.Context) {
	var payload inquiryPayload
	if !bindJSON(c, &payload, "요청 형식이 올바르지 않습니다") {
		return
	}

	inquiry, err := a.inquiries.Create(payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInquiryNameMissing):
			respondError(c, http.StatusBadRequest, "이름을 입력해주세요")
		case errors.Is(err, service.ErrInquiryPhoneMissing):
			respondError(c, http.StatusBadRequest, "연락처를 입력해주세요")
		default:
			respondDBError(c, err, "문의 접수에 실패했습니다")
		}
		return
	}

	respondCreatedMessage(c, inquiry, "문의가 접수되었습니다. 빠른 시일 내에 연락드리겠습니다")
}

// ListInquiries returns paginated inquiries for the admin.
func (a *API) ListInquiries(c *gin.Context) {
	filter := service.InquiryFilter{
		Status: c.Query("status"),
		Search: c.Query("q"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", 0),
	}

	result, err := a.inquiries.List(filter)
	if err != nil {
		if errors.Is(err, service.ErrInquiryStatusInvalid) {
			respondError(c, http.StatusBadRequest, "유효하지 않은 상태값입니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "문의 목록을 불러오지 못했습니다")
		return
	}

	respondList(c, result.Items, pagination(result.Total, result.Page, result.Limit, result.TotalPages))
}

// GetInquiry returns one inquiry.
func (a *API) GetInquiry(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 문의 ID입니다")
		return
	}

	inquiry, err := a.inquiries.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrInquiryNotFound) {
			respondError(c, http.StatusNotFound, "문의를 찾을 수 없습니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "문의를 불러오지 못했습니다")
		return
	}

	respondOK(c, inquiry)
}

// UpdateInquiry patches the status and admin memo.
func (a *API) UpdateInquiry(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 문의 ID입니다")
		return
	}

	var payload inquiryUpdatePayload
	if !bindJSON(c, &payload, "요청 형식이 올바르지 않습니다") {
		return
	}

	inquiry, err := a.inquiries.Update(id, service.InquiryUpdateInput{
		Status:    payload.Status,
		AdminMemo: payload.AdminMemo,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInquiryNotFound):
			respondError(c, http.StatusNotFound, "문의를 찾을 수 없습니다")
		case errors.Is(err, service.ErrInquiryStatusInvalid):
			respondError(c, http.StatusBadRequest, "유효하지 않은 상태값입니다")
		default:
			respondDBError(c, err, "문의 수정에 실패했습니다")
		}
		return
	}

	respondOK(c, inquiry)
}

// DeleteInquiry removes an inquiry.
func (a *API) DeleteInquiry(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 문의 ID입니다")
		return
	}

	if err := a.inquiries.Delete(id); err != nil {
		if errors.Is(err, service.ErrInquiryNotFound) {
			respondError(c, http.StatusNotFound, "문의를 찾을 수 없습니다")
			return
		}
		respondDBError(c, err, "문의 삭제에 실패했습니다")
		return
	}

	respondMessage(c, "문의가 삭제되었습니다")
}
