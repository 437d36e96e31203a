package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Eamse/gaon/internal/service"
)

func inquiryRouter(api *API) *gin.Engine {
	r := gin.New()
	r.POST("/inquiries", api.CreateInquiry)
	admin := r.Group("", api.RequireAuth())
	admin.GET("/inquiries", api.ListInquiries)
	admin.PATCH("/inquiries/:id", api.UpdateInquiry)
	admin.DELETE("/inquiries/:id", api.DeleteInquiry)
	return r
}

func TestCreateInquiry(t *testing.T) {
	api, _ := setupTestAPI(t)
	r := inquiryRouter(api)

	w := performJSON(t, r, http.MethodPost, "/inquiries", gin.H{"userPhone": "010-1234-5678"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", w.Code)
	}

	w = performJSON(t, r, http.MethodPost, "/inquiries", gin.H{
		"userName":  "김가온",
		"userPhone": "010-1234-5678",
		"spaceType": "아파트",
		"areaSize":  32,
		"requests":  "거실 확장 문의드립니다",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["ok"] != true {
		t.Fatalf("expected ok true, got %v", body)
	}
	item := dataObject(t, body)
	if item["status"] != service.InquiryStatusNew {
		t.Fatalf("expected new inquiry in response, got %v", body)
	}
}

func TestInquiryAdminFlow(t *testing.T) {
	api, gdb := setupTestAPI(t)
	seedAdmin(t, gdb)
	r := inquiryRouter(api)

	// listing requires auth
	w := performJSON(t, r, http.MethodGet, "/inquiries", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = performJSON(t, r, http.MethodPost, "/inquiries", gin.H{
		"userName":  "박고객",
		"userPhone": "010-0000-0000",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed inquiry failed: %d", w.Code)
	}

	lr := loginRouter(api)
	token := loginToken(t, api, lr)
	authHeader := map[string]string{"Authorization": "Bearer " + token}

	w = performJSON(t, r, http.MethodGet, "/inquiries?status=new", nil, authHeader)
	if w.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	items, _ := body["data"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 inquiry, got %v", body)
	}
	meta, _ := body["pagination"].(map[string]interface{})
	if meta == nil || meta["total"].(float64) != 1 || meta["hasNext"] != false {
		t.Fatalf("unexpected pagination %v", body)
	}

	w = performJSON(t, r, http.MethodPatch, "/inquiries/1", gin.H{"status": "ing", "adminMemo": "상담 예정"}, authHeader)
	if w.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", w.Code, w.Body.String())
	}

	w = performJSON(t, r, http.MethodPatch, "/inquiries/1", gin.H{"status": "bogus"}, authHeader)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", w.Code)
	}

	w = performJSON(t, r, http.MethodDelete, "/inquiries/999", nil, authHeader)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown inquiry, got %d", w.Code)
	}

	w = performJSON(t, r, http.MethodDelete, "/inquiries/1", nil, authHeader)
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", w.Code)
	}
}
