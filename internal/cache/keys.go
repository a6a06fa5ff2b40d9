package cache

import "strings"

const (
	GlobalKeyPrefix = "speakscore"

	ServiceQuiz   = "quiz"
	ObjectActive  = "active"
	ServiceReport = "report"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// ActiveQuizKey is the key holding a session's active quiz.
func ActiveQuizKey(sessionID string) string {
	return GenerateCacheKey(ServiceQuiz, ObjectActive, sessionID)
}
