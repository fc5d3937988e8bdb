package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/approval"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/roles"
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// jobCodePrefix prefixes job sequence codes, e.g. JOB101.
const jobCodePrefix = "JOB"

// creatorRole maps a caller role onto the persisted creator role value.
func creatorRole(role roles.Role) (string, error) {
	switch role {
	case roles.BusinessAccount:
		return models.CreatorBusinessAccount, nil
	case roles.PersonalAccount:
		return models.CreatorPersonalAccount, nil
	default:
		return "", apperr.Forbidden("permission denied")
	}
}

// parseID extracts the :id path parameter.
func parseID(c *gin.Context, noun string) (uint64, error) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil || id == 0 {
		return 0, apperr.Validation("provide a valid %s id", noun)
	}
	return id, nil
}

// JobHandler manages account-submitted job postings.
type JobHandler struct {
	db *gorm.DB
}

// NewJobHandler constructs a JobHandler.
func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{db: db}
}

// createJobRequest defines the request body for job submission.
type createJobRequest struct {
	Desc       string `json:"desc"`
	CategoryID uint64 `json:"categoryId"`
}

// Create submits a job posting. Account submissions enter the moderation
// queue pending review; the next sequence code is assigned at creation.
func (h *JobHandler) Create(c *gin.Context) {
	creator, errRole := creatorRole(webhttp.CallerRole(c))
	if errRole != nil {
		webhttp.Fail(c, errRole)
		return
	}
	var body createJobRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	desc := strings.TrimSpace(body.Desc)
	if desc == "" || body.CategoryID == 0 {
		webhttp.Fail(c, apperr.Validation("provide desc and categoryId"))
		return
	}

	var category models.Category
	errCategory := h.db.WithContext(c.Request.Context()).
		Scopes(scope.NotDeleted()).
		Where("id = ? AND type = ?", body.CategoryID, models.CategoryTypeJob).
		First(&category).Error
	if errCategory != nil {
		if errors.Is(errCategory, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.Validation("provide a valid JOB category"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query category failed", errCategory))
		return
	}

	code, errCode := approval.NextCode(c.Request.Context(), h.db, &models.Job{}, jobCodePrefix)
	if errCode != nil {
		webhttp.Fail(c, errCode)
		return
	}

	job := models.Job{
		Code:          code,
		CreatedBy:     webhttp.CallerID(c),
		CreatedByRole: creator,
		Desc:          desc,
		CategoryID:    body.CategoryID,
	}
	job.Status = approval.StatusForCreator(webhttp.CallerRole(c))
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&job).Error; errCreate != nil {
		webhttp.Fail(c, apperr.Internal("create job failed", errCreate))
		return
	}
	webhttp.OK(c, http.StatusCreated, "Job submitted for review", gin.H{"job": job})
}

// ListMine returns the caller's own job submissions in every moderation state.
func (h *JobHandler) ListMine(c *gin.Context) {
	creator, errRole := creatorRole(webhttp.CallerRole(c))
	if errRole != nil {
		webhttp.Fail(c, errRole)
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Job{}).
		Scopes(scope.NotDeleted(), scope.VisibleCategory(), scope.Newest()).
		Where("created_by = ? AND created_by_role = ?", webhttp.CallerID(c), creator)
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []models.Job
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list jobs failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"jobs": rows})
}

// updateJobRequest defines the request body for job updates.
type updateJobRequest struct {
	Desc       *string `json:"desc"`
	CategoryID *uint64 `json:"categoryId"`
}

// UpdateMine modifies one of the caller's own job submissions.
func (h *JobHandler) UpdateMine(c *gin.Context) {
	creator, errRole := creatorRole(webhttp.CallerRole(c))
	if errRole != nil {
		webhttp.Fail(c, errRole)
		return
	}
	id, errParse := parseID(c, "job")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body updateJobRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}

	updates := map[string]any{}
	if body.Desc != nil {
		desc := strings.TrimSpace(*body.Desc)
		if desc == "" {
			webhttp.Fail(c, apperr.Validation("desc cannot be empty"))
			return
		}
		updates["desc"] = desc
	}
	if body.CategoryID != nil {
		var category models.Category
		errCategory := h.db.WithContext(c.Request.Context()).
			Scopes(scope.NotDeleted()).
			Where("id = ? AND type = ?", *body.CategoryID, models.CategoryTypeJob).
			First(&category).Error
		if errCategory != nil {
			if errors.Is(errCategory, gorm.ErrRecordNotFound) {
				webhttp.Fail(c, apperr.Validation("provide a valid JOB category"))
				return
			}
			webhttp.Fail(c, apperr.Internal("query category failed", errCategory))
			return
		}
		updates["category_id"] = *body.CategoryID
	}
	if len(updates) == 0 {
		webhttp.Fail(c, apperr.Validation("provide fields to update"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Job{}).
		Scopes(scope.NotDeleted()).
		Where("id = ? AND created_by = ? AND created_by_role = ?", id, webhttp.CallerID(c), creator).
		Updates(updates)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update job failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("job not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Job updated successfully", nil)
}

// DeleteMine soft-deletes one of the caller's own job submissions.
func (h *JobHandler) DeleteMine(c *gin.Context) {
	creator, errRole := creatorRole(webhttp.CallerRole(c))
	if errRole != nil {
		webhttp.Fail(c, errRole)
		return
	}
	id, errParse := parseID(c, "job")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}

	var job models.Job
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.NotDeleted()).
		Where("id = ? AND created_by = ? AND created_by_role = ?", id, webhttp.CallerID(c), creator).
		First(&job).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("job not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query job failed", errFind))
		return
	}

	now := time.Now().UTC()
	job.IsDeleted = true
	job.DeletedAt = &now
	job.Visibility = models.VisibilityHide
	if errSave := h.db.WithContext(c.Request.Context()).Save(&job).Error; errSave != nil {
		webhttp.Fail(c, apperr.Internal("delete job failed", errSave))
		return
	}
	webhttp.OK(c, http.StatusOK, "Job deleted successfully", nil)
}
