package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eamse/gaon/internal/auth"
	"github.com/Eamse/gaon/internal/service"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the admin credentials and issues a 12 hour JWT.
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "요청 형식이 올바르지 않습니다") {
		return
	}
	if payload.Username == "" || payload.Password == "" {
		respondError(c, http.StatusBadRequest, "아이디와 비밀번호를 입력해주세요")
		return
	}

	user, err := a.users.Authenticate(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrCredentialsInvalid) {
			respondError(c, http.StatusUnauthorized, "아이디 또는 비밀번호가 올바르지 않습니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "로그인 처리에 실패했습니다")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, []byte(a.jwtSecret))
	if err != nil {
		a.logger.Error("토큰 발급 실패", slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, "로그인 처리에 실패했습니다")
		return
	}

	respondOK(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"name":     user.Name,
		},
	})
}

// Me returns the account behind the current token.
func (a *API) Me(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "인증 정보가 없습니다")
		return
	}

	user, err := a.users.Get(claims.UserID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "계정을 찾을 수 없습니다")
		return
	}

	respondOK(c, gin.H{"user": gin.H{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
	}})
}
