package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 모든 응답은 {ok: bool} 봉투를 따른다. 성공은 data, 실패는 error 메시지.

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}

func respondCreatedMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data, "message": message})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": message})
}

func respondList(c *gin.Context, items interface{}, meta gin.H) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": items, "pagination": meta})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"ok": false, "error": message})
}

func respondErrorDetails(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, gin.H{"ok": false, "error": message, "details": details})
}

// pagination 목록 응답에 붙는 페이지 메타데이터.
func pagination(total int64, page, limit, totalPages int) gin.H {
	return gin.H{
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": totalPages,
		"hasNext":    page < totalPages,
		"hasPrev":    page > 1,
	}
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parseIntPost(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// respondDBError maps the translated gorm errors onto HTTP statuses:
// duplicate key 409, missing row 404, broken reference 400.
func respondDBError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		respondError(c, http.StatusConflict, "이미 존재하는 데이터입니다")
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "데이터를 찾을 수 없습니다")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		respondError(c, http.StatusBadRequest, "연결된 데이터가 올바르지 않습니다")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
