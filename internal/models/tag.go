package models

// Tag is a tag name owned by exactly one article
type Tag struct {
	ID        string `json:"id" db:"id"`
	TagName   string `json:"tagName" db:"tag_name"`
	ArticleID string `json:"articleId" db:"article_id"`
}
