package models

// Message is a chat line posted to an organization.
type Message struct {
	ID         string
	OrgID      string
	AuthorID   string
	AuthorName string
	Body       string
	CreatedAt  int64
}
