package models

import (
	"time"

	"gorm.io/gorm"
)

// BlacklistedToken is an admin token revoked at logout. Rows are only useful until the token
// would have expired on its own.
type BlacklistedToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;not null"`
	AdminID   uint      `gorm:"index"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// PurgeExpiredTokens removes blacklist rows for tokens that expired before now
func PurgeExpiredTokens(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&BlacklistedToken{})
	return result.RowsAffected, result.Error
}
