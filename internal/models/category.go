package models

// Category is owned outside the content lifecycle; articles copy its name
type Category struct {
	ID       string `json:"id" db:"id" yaml:"id"`
	CateName string `json:"cateName" db:"cate_name" yaml:"name"`
}
