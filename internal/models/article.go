package models

import (
	"strconv"
	"time"
)

// ArticleState is the lifecycle state of an article
type ArticleState int

const (
	StateDraft     ArticleState = 0
	StatePublished ArticleState = 1
	StateDeleted   ArticleState = 2
)

// Valid reports whether s is one of the known states
func (s ArticleState) Valid() bool {
	return s == StateDraft || s == StatePublished || s == StateDeleted
}

// String returns the numeric code, which is also the stored state mirror
func (s ArticleState) String() string {
	return strconv.Itoa(int(s))
}

// Article represents an article in the system
type Article struct {
	ID           string       `json:"id" db:"id"`
	Title        string       `json:"title" db:"title"`
	HTMLContent  string       `json:"htmlContent" db:"html_content"`
	MDContent    string       `json:"mdContent" db:"md_content"`
	Summary      string       `json:"summary" db:"summary"`
	CategoryID   string       `json:"categoryId" db:"category_id"`
	CategoryName string       `json:"cateName" db:"cate_name"`
	UserID       string       `json:"userId" db:"user_id"`
	Nickname     string       `json:"nickname" db:"nickname"`
	State        ArticleState `json:"state" db:"state"`
	StateStr     string       `json:"stateStr" db:"state_str"`
	PublishDate  time.Time    `json:"publishDate" db:"publish_date"`
	EditTime     time.Time    `json:"editTime" db:"edit_time"`
	PageView     int64        `json:"pageView" db:"page_view"`
	Tags         []Tag        `json:"tags,omitempty" db:"-"`
	DynamicTags  []string     `json:"dynamicTags,omitempty" db:"-"` // Submitted by the caller, never stored on the row
}

// SetState updates the state and its string mirror together
func (a *Article) SetState(s ArticleState) {
	a.State = s
	a.StateStr = s.String()
}

// SaveArticleRequest is the input of a create-or-edit
type SaveArticleRequest struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title"`
	HTMLContent string       `json:"htmlContent"`
	MDContent   string       `json:"mdContent"`
	CategoryID  string       `json:"categoryId"`
	State       ArticleState `json:"state"`
	DynamicTags []string     `json:"dynamicTags"`
	Summary     string       `json:"summary,omitempty"`
}

// ListQuery selects a page of articles in one state
type ListQuery struct {
	State        ArticleState
	CategoryName string // Optional exact match on the denormalized name
	Offset       int
	Limit        int
}
