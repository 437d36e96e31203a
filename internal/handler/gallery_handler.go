package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eamse/gaon/internal/service"
)

type galleryMetaPayload struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
}

type detailMetaPayload struct {
	Alt       *string `json:"alt"`
	SortOrder *int    `json:"order"`
}

// ListGalleryImages returns paginated gallery images with optional
// filters.
func (a *API) ListGalleryImages(c *gin.Context) {
	filter := service.GalleryFilter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Page:     parseIntQuery(c, "page", 1),
		Limit:    parseIntQuery(c, "limit", 0),
	}

	result, err := a.galleries.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "갤러리 목록을 불러오지 못했습니다")
		return
	}

	respondList(c, result.Items, pagination(result.Total, result.Page, result.Limit, result.TotalPages))
}

// GetGalleryImage returns one gallery image with its detail images.
func (a *API) GetGalleryImage(c *gin.Context) {
	item, err := a.galleries.GetByFilename(c.Param("filename"))
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			respondError(c, http.StatusNotFound, "갤러리 이미지를 찾을 수 없습니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "갤러리 이미지를 불러오지 못했습니다")
		return
	}

	respondOK(c, item)
}

// UpdateGalleryImage patches the title and category of a gallery image.
func (a *API) UpdateGalleryImage(c *gin.Context) {
	var payload galleryMetaPayload
	if !bindJSON(c, &payload, "요청 형식이 올바르지 않습니다") {
		return
	}

	item, err := a.galleries.UpdateMeta(c.Param("filename"), service.GalleryMetaInput{
		Title:    payload.Title,
		Category: payload.Category,
	})
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			respondError(c, http.StatusNotFound, "갤러리 이미지를 찾을 수 없습니다")
			return
		}
		respondDBError(c, err, "갤러리 이미지 수정에 실패했습니다")
		return
	}

	respondOK(c, item)
}

// DeleteGalleryImage removes a gallery image, its detail images and
// their stored blobs.
func (a *API) DeleteGalleryImage(c *gin.Context) {
	err := a.galleries.Delete(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			respondError(c, http.StatusNotFound, "갤러리 이미지를 찾을 수 없습니다")
			return
		}
		respondDBError(c, err, "갤러리 이미지 삭제에 실패했습니다")
		return
	}

	respondMessage(c, "갤러리 이미지가 삭제되었습니다")
}

// UpdateGalleryDetail patches the alt text and order of a detail image.
func (a *API) UpdateGalleryDetail(c *gin.Context) {
	id, err := parseUintParam(c, "detailId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 상세 이미지 ID입니다")
		return
	}

	var payload detailMetaPayload
	if !bindJSON(c, &payload, "요청 형식이 올바르지 않습니다") {
		return
	}

	detail, err := a.galleries.UpdateDetail(id, service.DetailMetaInput{
		Alt:       payload.Alt,
		SortOrder: payload.SortOrder,
	})
	if err != nil {
		if errors.Is(err, service.ErrGalleryDetailNotFound) {
			respondError(c, http.StatusNotFound, "상세 이미지를 찾을 수 없습니다")
			return
		}
		respondDBError(c, err, "상세 이미지 수정에 실패했습니다")
		return
	}

	respondOK(c, detail)
}

// DeleteGalleryDetail removes one detail image and its blobs.
func (a *API) DeleteGalleryDetail(c *gin.Context) {
	id, err := parseUintParam(c, "detailId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 상세 이미지 ID입니다")
		return
	}

	if err := a.galleries.DeleteDetail(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrGalleryDetailNotFound) {
			respondError(c, http.StatusNotFound, "상세 이미지를 찾을 수 없습니다")
			return
		}
		respondDBError(c, err, "상세 이미지 삭제에 실패했습니다")
		return
	}

	respondMessage(c, "상세 이미지가 삭제되었습니다")
}
