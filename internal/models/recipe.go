package models

// Recipe is a dish created by a user
type Recipe struct {
	ID           int    `json:"id" gorm:"primaryKey"`
	Title        string `json:"title" gorm:"size:100;not null"`
	Ingredients  string `json:"ingredients" gorm:"type:text;not null"`
	Instructions string `json:"instructions" gorm:"type:text"`
	UserID       int    `json:"user_id" gorm:"not null"`
}
