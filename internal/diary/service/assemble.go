package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/yeah-diary/diary-backend/internal/diary/domain"
	"github.com/yeah-diary/diary-backend/internal/media"
)

// Entries are timestamped in the diary's home timezone regardless of
// where the server runs.
var entryLocation = mustLoadLocation("Asia/Tokyo")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// assembleEntry combines the raw input, the translation results and the
// hosted asset into a DiaryEntry. The image gets a fresh locally
// generated token as its client-facing id; the provider's own key is
// kept alongside it for deletion. No I/O happens here.
func assembleEntry(req domain.CreateEntryRequest, translatedTitle, translatedContent string, asset media.Asset, now time.Time) *domain.DiaryEntry {
	return &domain.DiaryEntry{
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now.In(entryLocation),
		Translate: domain.Translation{
			Title:   translatedTitle,
			Content: translatedContent,
		},
		Image: domain.ImageRef{
			ID:        uuid.New().String(),
			HostedURL: asset.SecureURL,
			AssetKey:  asset.PublicID,
		},
		AuthorID: req.AuthorID,
	}
}
