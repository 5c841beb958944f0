package config

import "fmt"

type cacheKey struct{}

// CacheKey centralizes every Redis key format used by the application so
// key collisions are impossible to introduce silently.
var CacheKey = cacheKey{}

// TeacherSessionKey tracks the active login session for a teacher.
func (cacheKey) TeacherSessionKey(userID string) string {
	return fmt.Sprintf("session:teacher:%s", userID)
}
