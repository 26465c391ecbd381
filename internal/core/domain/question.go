package domain

import "time"

// Question is a customer question about a product, optionally answered by
// an admin.
type Question struct {
	ID         string     `json:"id"`
	ProductID  string     `json:"product"`
	UserID     string     `json:"user"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer,omitempty"`
	AnsweredBy string     `json:"answeredBy,omitempty"`
	IsAnswered bool       `json:"isAnswered"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
