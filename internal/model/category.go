package model

type Category struct {
	BaseModel
	Business    Business `db:"business" json:"business"`
	Name        string   `db:"name" json:"name"`
	Description *string  `db:"description" json:"description"`
}
