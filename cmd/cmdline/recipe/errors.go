package recipe

import "errors"

var (
	ErrRecipeExists  = errors.New("recipe already exists")
	ErrUnknownRecipe = errors.New("unknown recipe")
	ErrInvalidRecipe = errors.New("invalid recipe")
	ErrUnknownFormat = errors.New("unknown recipe file format")
)
