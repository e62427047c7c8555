package domain

import "time"

// DiaryEntry is the persisted unit: the user's text plus everything the
// creation pipeline derived from it.
type DiaryEntry struct {
	ID        string      `json:"id" firestore:"-"`
	Title     string      `json:"title" firestore:"title"`
	Content   string      `json:"content" firestore:"content"`
	CreatedAt time.Time   `json:"created_at" firestore:"created_at"`
	Translate Translation `json:"translation" firestore:"translation"`
	Image     ImageRef    `json:"image" firestore:"image"`
	AuthorID  string      `json:"author_id" firestore:"author_id"`
}

// Translation holds the target-language renderings of title and content.
// Both fields must be populated before an entry may be persisted.
type Translation struct {
	Title   string `json:"title" firestore:"title"`
	Content string `json:"content" firestore:"content"`
}

// ImageRef describes the hosted illustration.
// ID is a locally generated token handed to clients; AssetKey is the
// hosting provider's own identifier and is the one used for deletion.
type ImageRef struct {
	ID        string `json:"id" firestore:"id"`
	HostedURL string `json:"hosted_url" firestore:"hosted_url"`
	AssetKey  string `json:"-" firestore:"asset_key"`
}

// CreateEntryRequest carries the raw user input into the pipeline.
type CreateEntryRequest struct {
	AuthorID string
	Title    string
	Content  string
}
