// Package handlers implements the admin API endpoints.
package handlers

import (
	"strconv"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/lifecycle"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/gin-gonic/gin"
)

// Lifecycle policies per entity type. Credentialed entities go inactive
// and hidden on delete; moderated and content entities only flip
// visibility, their moderation history survives the delete.
var (
	adminDescriptor = lifecycle.Descriptor{
		Noun:               "admin",
		DeletedStatus:      models.StatusInactive,
		RestoredStatus:     models.StatusActive,
		DeletedVisibility:  models.VisibilityHide,
		RestoredVisibility: models.VisibilityShow,
	}
	businessAccountDescriptor = lifecycle.Descriptor{
		Noun:               "business account",
		DeletedStatus:      models.StatusInactive,
		RestoredStatus:     models.StatusActive,
		DeletedVisibility:  models.VisibilityHide,
		RestoredVisibility: models.VisibilityShow,
	}
	personalAccountDescriptor = lifecycle.Descriptor{
		Noun:               "personal account",
		DeletedStatus:      models.StatusInactive,
		RestoredStatus:     models.StatusActive,
		DeletedVisibility:  models.VisibilityHide,
		RestoredVisibility: models.VisibilityShow,
	}
	categoryDescriptor = lifecycle.Descriptor{
		Noun:               "category",
		DeletedStatus:      models.StatusInactive,
		RestoredStatus:     models.StatusActive,
		DeletedVisibility:  models.VisibilityHide,
		RestoredVisibility: models.VisibilityShow,
	}
	jobDescriptor = lifecycle.Descriptor{
		Noun:               "job",
		DeletedVisibility:  models.VisibilityHide,
		RestoredVisibility: models.VisibilityShow,
	}
	advertisementDescriptor = lifecycle.Descriptor{
		Noun:               "advertisement",
		DeletedVisibility:  models.VisibilityHide,
		RestoredVisibility: models.VisibilityShow,
	}
	galleryDescriptor = lifecycle.Descriptor{
		Noun:               "gallery",
		DeletedVisibility:  models.VisibilityHide,
		RestoredVisibility: models.VisibilityShow,
	}
	newsDescriptor = lifecycle.Descriptor{
		Noun:               "news",
		DeletedVisibility:  models.VisibilityHide,
		RestoredVisibility: models.VisibilityShow,
	}
	eventDescriptor = lifecycle.Descriptor{
		Noun:               "event",
		DeletedVisibility:  models.VisibilityHide,
		RestoredVisibility: models.VisibilityShow,
	}
)

// parseID extracts a positive numeric id from the route parameter.
func parseID(c *gin.Context, noun string) (uint64, error) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil || id == 0 {
		return 0, apperr.Validation("provide a valid %s id", noun)
	}
	return id, nil
}

// wantsDeletedPartition reports whether the request asks for soft-deleted
// records.
func wantsDeletedPartition(c *gin.Context) bool {
	return strings.EqualFold(strings.TrimSpace(c.Query("deleted")), "true")
}

// accountStatusValid reports whether a status is a legal account status.
func accountStatusValid(status string) bool {
	switch status {
	case models.StatusActive, models.StatusInactive, models.StatusBlocked:
		return true
	}
	return false
}
