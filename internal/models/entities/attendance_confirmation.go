package entities

import "time"

// AttendanceConfirmation records that ConfirmerUserID attests
// ConfirmedUserID attended the activity. Rows are insert-only; the unique
// index keeps each directed pair to one row per activity.
type AttendanceConfirmation struct {
	ID              string    `gorm:"column:id;primaryKey;type:uuid"`
	ActivityID      string    `gorm:"column:activity_id;type:uuid;index;uniqueIndex:uniq_confirmation_triple"`
	ConfirmedUserID string    `gorm:"column:confirmed_user_id;type:uuid;index;uniqueIndex:uniq_confirmation_triple"`
	ConfirmerUserID string    `gorm:"column:confirmer_user_id;type:uuid;uniqueIndex:uniq_confirmation_triple"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (AttendanceConfirmation) TableName() string {
	return "attendance_confirmations"
}
