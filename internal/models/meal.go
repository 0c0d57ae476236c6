package models

// Meal schedules a recipe for a user on a given day
type Meal struct {
	ID       int    `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:80;not null"`
	Date     Date   `json:"date" gorm:"type:date;not null"`
	UserID   int    `json:"user_id" gorm:"not null"`
	RecipeID int    `json:"recipe_id" gorm:"not null"`
	Notes    string `json:"notes" gorm:"type:text"`
}
