package approval

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"gorm.io/gorm"
)

// codeSeed is the suffix assigned to the first record of an entity type.
const codeSeed = 100

// NextCode assigns the next human-readable sequence code for an entity
// type, e.g. JOB101 after JOB100. It scans the latest code and increments:
// concurrent creates can race and collide on the unique code index; the
// system assumes a single writer per entity type at a time.
func NextCode(ctx context.Context, db *gorm.DB, model any, prefix string) (string, error) {
	var last struct {
		Code string
	}
	errFind := db.WithContext(ctx).
		Model(model).
		Select("code").
		Order("created_at DESC").
		Limit(1).
		Scan(&last).Error
	if errFind != nil {
		return "", apperr.Internal("query last code failed", errFind)
	}

	if last.Code == "" || !strings.HasPrefix(last.Code, prefix) {
		return fmt.Sprintf("%s%d", prefix, codeSeed), nil
	}
	n, errParse := strconv.Atoi(strings.TrimPrefix(last.Code, prefix))
	if errParse != nil {
		return fmt.Sprintf("%s%d", prefix, codeSeed), nil
	}
	return fmt.Sprintf("%s%d", prefix, n+1), nil
}
