package model

// BootstrapLockID is the fixed identity of the single lock row. Every process
// races to insert this exact row; at most one ever wins.
const BootstrapLockID = 1

// BootstrapLock is a persisted marker row acting as a cross-process mutex for
// the one-time seeding action. It is created exactly once per database and
// never deleted; a row with Failed set blocks all future seeding attempts
// until it is cleared manually.
type BootstrapLock struct {
	ID                 uint   `gorm:"primaryKey"`
	Executed           bool   `gorm:"not null;default:false"`
	Timestamp          int64  `gorm:"not null"`
	Instance           string `gorm:"size:255;not null"`
	Completed          bool   `gorm:"not null;default:false"`
	CompletedTimestamp int64
	Failed             bool `gorm:"not null;default:false"`
	FailedTimestamp    int64
	Error              string `gorm:"type:text"`
}

func (BootstrapLock) TableName() string { return "bootstrap_locks" }
