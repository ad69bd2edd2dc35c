package models

import (
	"fmt"
)

// Category json keys follow the catalog feed document.
type Category struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false" json:"Id"`
	Name string `gorm:"not null" json:"Name"`
}

func (c *Category) TableName() string {
	return "categories"
}

func (c *Category) Stringify() string {
	return fmt.Sprintf("Category: %s", c.Name)
}

type Location struct {
	ID      int    `gorm:"primaryKey;autoIncrement:false" json:"Id"`
	Name    string `json:"Name"`
	Address string `json:"Address"`
	Phone   string `json:"Phone"`
	Hours   string `json:"Hours"`
}

func (l *Location) TableName() string {
	return "locations"
}

type Food struct {
	ID          int     `gorm:"primaryKey;autoIncrement:false" json:"Id"`
	Name        string  `gorm:"not null" json:"Name"`
	Description string  `json:"Description"`
	Price       float64 `json:"Price"`
	CategoryID  int     `gorm:"index" json:"CategoryId"`
	TimeID      int     `json:"TimeId"`
	TimeValue   int     `json:"TimeValue"` // preparation time in minutes
	LocationID  int     `gorm:"index" json:"LocationId"`
	Star        float64 `json:"Star"`
	ImagePath   string  `json:"ImagePath"`
	BestFood    bool    `json:"BestFood"`
	IsAvailable bool    `json:"IsAvailable"`
	Ingredients string  `json:"Ingredients"`
}

func (f *Food) TableName() string {
	return "foods"
}

func (f *Food) Stringify() string {
	return fmt.Sprintf("Food: %s, Price: %.2f, Time: %d min, Star: %.1f, Available: %t", f.Name, f.Price, f.TimeValue, f.Star, f.IsAvailable)
}

const (
	RoleHuman = "human"
	RoleAI    = "ai"
)

// ChatMessage is one side of a persisted conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
