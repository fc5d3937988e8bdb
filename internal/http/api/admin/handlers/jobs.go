package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/approval"
	dbutil "github.com/communityhub-io/communityhub/internal/db"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/lifecycle"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// jobCodePrefix prefixes job sequence codes, e.g. JOB101.
const jobCodePrefix = "JOB"

// JobHandler manages job endpoints for admins.
type JobHandler struct {
	db   *gorm.DB
	gate lifecycle.Gate
}

// NewJobHandler constructs a JobHandler.
func NewJobHandler(db *gorm.DB, gate lifecycle.Gate) *JobHandler {
	return &JobHandler{db: db, gate: gate}
}

// createJobRequest defines the request body for job creation.
type createJobRequest struct {
	Desc       string `json:"desc"`
	CategoryID uint64 `json:"categoryId"`
}

// requireJobCategory verifies the category exists, is live and is of type JOB.
func requireJobCategory(c *gin.Context, db *gorm.DB, categoryID uint64) error {
	var category models.Category
	errFind := db.WithContext(c.Request.Context()).
		Scopes(scope.NotDeleted()).
		Where("id = ? AND type = ?", categoryID, models.CategoryTypeJob).
		First(&category).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return apperr.Validation("provide a valid JOB category")
		}
		return apperr.Internal("query category failed", errFind)
	}
	return nil
}

// Create adds an admin-authored job posting. Admin-created jobs start
// approved; the next sequence code is assigned at creation.
func (h *JobHandler) Create(c *gin.Context) {
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
	if errCategory := requireJobCategory(c, h.db, body.CategoryID); errCategory != nil {
		webhttp.Fail(c, errCategory)
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
		CreatedByRole: models.CreatorAdmin,
		Desc:          desc,
		CategoryID:    body.CategoryID,
	}
	job.Status = approval.StatusForCreator(webhttp.CallerRole(c))
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&job).Error; errCreate != nil {
		webhttp.Fail(c, apperr.Internal("create job failed", errCreate))
		return
	}
	webhttp.OK(c, http.StatusCreated, "Job created successfully", gin.H{"job": job})
}

// List returns jobs across all moderation states with optional filters.
func (h *JobHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Job{}).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.WithCategory(), scope.Newest())

	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("status = ?", status)
	}
	if categoryID := strings.TrimSpace(c.Query("categoryId")); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(
			h.db.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "code"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, `"desc"`), pattern),
		)
	}

	var rows []models.Job
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list jobs failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"jobs": rows})
}

// Get returns a single job.
func (h *JobHandler) Get(c *gin.Context) {
	id, errParse := parseID(c, "job")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var job models.Job
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.WithCategory()).
		First(&job, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("job not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query job failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"job": job})
}

// updateJobRequest defines the request body for job updates.
type updateJobRequest struct {
	Desc       *string `json:"desc"`
	CategoryID *uint64 `json:"categoryId"`
}

// Update modifies job fields.
func (h *JobHandler) Update(c *gin.Context) {
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
		if errCategory := requireJobCategory(c, h.db, *body.CategoryID); errCategory != nil {
			webhttp.Fail(c, errCategory)
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
		Where("id = ?", id).
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

// moderationRequest defines the request body for approval transitions.
type moderationRequest struct {
	Action string `json:"action"` // APPROVE or REJECT.
}

// ChangeStatus applies an approval or rejection to a job.
func (h *JobHandler) ChangeStatus(c *gin.Context) {
	id, errParse := parseID(c, "job")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body moderationRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}

	job, message, errChange := approval.ChangeStatus[models.Job](
		c.Request.Context(), h.db, "job", id, strings.ToUpper(strings.TrimSpace(body.Action)), webhttp.CallerID(c))
	if errChange != nil {
		webhttp.Fail(c, errChange)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"job": job})
}

// ChangeVisibility toggles a job's visibility.
func (h *JobHandler) ChangeVisibility(c *gin.Context) {
	changeVisibility(c, h.db, &models.Job{}, "job")
}

// Delete soft-deletes a job.
func (h *JobHandler) Delete(c *gin.Context) {
	id, errParse := parseID(c, "job")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.SoftDelete[models.Job](c.Request.Context(), h.db, jobDescriptor, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// Restore brings a soft-deleted job back. Moderation status and audit
// history survive the round trip untouched.
func (h *JobHandler) Restore(c *gin.Context) {
	id, errParse := parseID(c, "job")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	job, message, errRestore := lifecycle.Restore[models.Job](c.Request.Context(), h.db, jobDescriptor, id)
	if errRestore != nil {
		webhttp.Fail(c, errRestore)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"job": job})
}

// PermanentDelete erases a soft-deleted job for good.
func (h *JobHandler) PermanentDelete(c *gin.Context) {
	id, errParse := parseID(c, "job")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.PermanentDelete[models.Job](c.Request.Context(), h.db, jobDescriptor, h.gate, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// DeleteAll erases every job record. Development resets only.
func (h *JobHandler) DeleteAll(c *gin.Context) {
	message, errDelete := lifecycle.DeleteAll[models.Job](c.Request.Context(), h.db, jobDescriptor, h.gate)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}
