package models

// User is a registered account. Email is the login identity and the only
// unique field; usernames are display names and may repeat.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"not null"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`

	Posts []Post `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
