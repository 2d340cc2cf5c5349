package config

import (
	"fmt"
	"strings"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key marking a token ID of an account as live.
func (r *CacheKeyStruct) SessionKey(accountID int, jti string) string {
	return fmt.Sprintf("session:%d:%s", accountID, jti)
}

// AdminListKey returns the cache key for the projected admin listing.
func (r *CacheKeyStruct) AdminListKey() string {
	return "accounts:admins"
}

// SubmissionChannel returns the pub/sub channel carrying submission events for a participant.
func (r *CacheKeyStruct) SubmissionChannel(email string) string {
	return "submissions:" + strings.ToLower(strings.TrimSpace(email))
}

// OrphanedUploadQueue is the list of stored files no submission references anymore.
func (r *CacheKeyStruct) OrphanedUploadQueue() string {
	return "uploads:orphaned"
}

var CacheKey = NewCacheKeyStruct()
