package dto

import "github.com/fekuna/omnipos-sales-service/internal/model"

type CreateCategoryInput struct {
	Business    model.Business `validate:"required,oneof=bendeck_tools lusqtoff"`
	Name        string         `validate:"required,max=120"`
	Description string
}

type UpdateCategoryInput struct {
	ID          string         `validate:"required"`
	Business    model.Business `validate:"required,oneof=bendeck_tools lusqtoff"`
	Name        string         `validate:"required,max=120"`
	Description string
}
