package models

// User represents a registered account. Users are never updated or deleted through the API.
type User struct {
	ID           int      `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email        string   `json:"email" gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"column:password;size:255;not null"` // bcrypt, never plaintext
	Recipes      []Recipe `json:"-" gorm:"foreignKey:UserID"`
	Meals        []Meal   `json:"-" gorm:"foreignKey:UserID"`
}
