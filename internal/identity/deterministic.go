package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// CourseUUID keys a course by its code. Codes compare case-insensitively.
func CourseUUID(code string) uuid.UUID {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return uuid.Nil
	}
	return UUID("courseware:course:" + code)
}

// LessonUUID keys a lesson by its course and its position in the stored
// lesson list. Re-importing a course therefore reuses lesson identifiers.
func LessonUUID(courseID uuid.UUID, position int) uuid.UUID {
	if courseID == uuid.Nil {
		return uuid.Nil
	}
	return UUID("courseware:lesson:" + courseID.String() + ":" + strconv.Itoa(position))
}
