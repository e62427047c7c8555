package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yeah-diary/diary-backend/internal/diary/domain"
)

// DiaryRepository persists diary entries in a Firestore collection.
type DiaryRepository struct {
	client     *firestore.Client
	collection string
}

// NewDiaryRepository creates a new diary repository.
func NewDiaryRepository(client *firestore.Client, collection string) *DiaryRepository {
	if collection == "" {
		collection = "diaries"
	}
	return &DiaryRepository{client: client, collection: collection}
}

// Save stores the entry as a new document and returns the assigned id.
func (r *DiaryRepository) Save(ctx context.Context, entry *domain.DiaryEntry) (string, error) {
	ref := r.client.Collection(r.collection).NewDoc()
	if _, err := ref.Create(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to save diary entry: %w", err)
	}
	return ref.ID, nil
}

// GetByID retrieves one entry by document id.
func (r *DiaryRepository) GetByID(ctx context.Context, id string) (*domain.DiaryEntry, error) {
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diary entry: %w", err)
	}

	var entry domain.DiaryEntry
	if err := snap.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode diary entry: %w", err)
	}
	entry.ID = snap.Ref.ID

	return &entry, nil
}

// ListByAuthor returns the author's entries, newest first.
func (r *DiaryRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.DiaryEntry, error) {
	iter := r.client.Collection(r.collection).
		Where("author_id", "==", authorID).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	out := make([]domain.DiaryEntry, 0, 16)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list diary entries: %w", err)
		}

		var entry domain.DiaryEntry
		if err := snap.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode diary entry: %w", err)
		}
		entry.ID = snap.Ref.ID
		out = append(out, entry)
	}
	return out, nil
}

// Delete removes the entry document.
func (r *DiaryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(r.collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete diary entry: %w", err)
	}
	return nil
}
