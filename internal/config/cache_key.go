package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LoginSessionKey returns the cache key holding a user's active session jti.
func (r *CacheKeyStruct) LoginSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// UserSnapshotKey returns the cache key for a user's authorization snapshot.
func (r *CacheKeyStruct) UserSnapshotKey(userID int) string {
	return fmt.Sprintf("user:%d:snapshot", userID)
}

// CourseChatChannel returns the Redis PubSub channel for a course group chat.
func (r *CacheKeyStruct) CourseChatChannel(courseID int) string {
	return fmt.Sprintf("course:%d:chat", courseID)
}

var CacheKey = NewCacheKeyStruct()
