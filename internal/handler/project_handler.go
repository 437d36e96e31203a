package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Eamse/gaon/internal/service"
)

type costPayload struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type projectPayload struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Category    string        `json:"category"`
	Year        *int          `json:"year"`
	Period      string        `json:"period"`
	Area        *float64      `json:"area"`
	MainImage   string        `json:"mainImage"`
	Costs       []costPayload `json:"costs"`
}

func (p projectPayload) toInput() service.ProjectInput {
	input := service.ProjectInput{
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		Category:    p.Category,
		Year:        p.Year,
		Period:      p.Period,
		Area:        p.Area,
		MainImage:   p.MainImage,
	}
	for _, c := range p.Costs {
		input.Costs = append(input.Costs, service.CostInput{Label: c.Label, Amount: c.Amount})
	}
	return input
}

// ListProjects returns paginated projects with optional filters.
func (a *API) ListProjects(c *gin.Context) {
	filter := service.ProjectFilter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Page:     parseIntQuery(c, "page", 1),
		Limit:    parseIntQuery(c, "limit", 0),
	}
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			filter.Year = &year
		}
	}

	result, err := a.projects.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "프로젝트 목록을 불러오지 못했습니다")
		return
	}

	respondList(c, result.Items, pagination(result.Total, result.Page, result.Limit, result.TotalPages))
}

// GetProject returns one project with costs, images and rendered
// description HTML.
func (a *API) GetProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 프로젝트 ID입니다")
		return
	}

	project, err := a.projects.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "프로젝트를 찾을 수 없습니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "프로젝트를 불러오지 못했습니다")
		return
	}

	respondOK(c, gin.H{
		"project":         project,
		"descriptionHtml": service.RenderMarkdown(project.Description),
	})
}

// CreateProject stores a new project.
func (a *API) CreateProject(c *gin.Context) {
	var payload projectPayload
	if !bindJSON(c, &payload, "요청 형식이 올바르지 않습니다") {
		return
	}

	project, err := a.projects.Create(payload.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProjectTitleMissing) {
			respondError(c, http.StatusBadRequest, "프로젝트 제목을 입력해주세요")
			return
		}
		respondDBError(c, err, "프로젝트 생성에 실패했습니다")
		return
	}

	respondCreated(c, project)
}

// UpdateProject replaces a project's fields and cost rows.
func (a *API) UpdateProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 프로젝트 ID입니다")
		return
	}

	var payload projectPayload
	if !bindJSON(c, &payload, "요청 형식이 올바르지 않습니다") {
		return
	}

	project, err := a.projects.Update(id, payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			respondError(c, http.StatusNotFound, "프로젝트를 찾을 수 없습니다")
		case errors.Is(err, service.ErrProjectTitleMissing):
			respondError(c, http.StatusBadRequest, "프로젝트 제목을 입력해주세요")
		default:
			respondDBError(c, err, "프로젝트 수정에 실패했습니다")
		}
		return
	}

	respondOK(c, project)
}

// DeleteProject removes a project and its images.
func (a *API) DeleteProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 프로젝트 ID입니다")
		return
	}

	if err := a.projects.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "프로젝트를 찾을 수 없습니다")
			return
		}
		respondDBError(c, err, "프로젝트 삭제에 실패했습니다")
		return
	}

	respondMessage(c, "프로젝트가 삭제되었습니다")
}

// ListProjectImages returns a project's image records.
func (a *API) ListProjectImages(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 프로젝트 ID입니다")
		return
	}

	images, err := a.projects.ListImages(id)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "프로젝트를 찾을 수 없습니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "이미지 목록을 불러오지 못했습니다")
		return
	}

	respondOK(c, images)
}

// DeleteProjectImage removes one image record and its stored blobs.
func (a *API) DeleteProjectImage(c *gin.Context) {
	imageID, err := parseUintParam(c, "imageId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 이미지 ID입니다")
		return
	}

	if err := a.projects.DeleteImage(c.Request.Context(), imageID); err != nil {
		if errors.Is(err, service.ErrProjectImageNotFound) {
			respondError(c, http.StatusNotFound, "이미지를 찾을 수 없습니다")
			return
		}
		respondDBError(c, err, "이미지 삭제에 실패했습니다")
		return
	}

	respondMessage(c, "이미지가 삭제되었습니다")
}
