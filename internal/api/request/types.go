package request

import "encoding/json"

type Login struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Signup struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type CreateDatabase struct {
	Name string `json:"name" validate:"required"`
}

type CollectionRef struct {
	DB         string `json:"db" validate:"required,dbname"`
	Collection string `json:"collection" validate:"required,collname"`
}

type AddDocument struct {
	CollectionRef
	Doc json.RawMessage `json:"doc"`
}

type UpdateDocument struct {
	CollectionRef
	Query     json.RawMessage `json:"query"`
	NewValues json.RawMessage `json:"new_values"`
}

type DeleteDocument struct {
	CollectionRef
	Query json.RawMessage `json:"query"`
}

type Import struct {
	DB         string `validate:"required,dbname"`
	Collection string `validate:"required,collname"`
}
