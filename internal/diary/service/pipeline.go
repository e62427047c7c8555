package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yeah-diary/diary-backend/internal/diary/domain"
	"github.com/yeah-diary/diary-backend/internal/media"
)

// Translator renders text from the source language into the target one.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// ImageGenerator turns a prompt into a transient image URL.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// MediaUploader re-hosts a transient image into durable storage.
type MediaUploader interface {
	Upload(ctx context.Context, sourceURL, uploadPreset string) (media.Asset, error)
}

// DiaryStore persists assembled entries.
type DiaryStore interface {
	Save(ctx context.Context, entry *domain.DiaryEntry) (string, error)
}

// OrphanRecorder remembers hosted assets whose entry was never persisted
// so an out-of-band sweep can release them later.
type OrphanRecorder interface {
	Add(ctx context.Context, assetKey string) error
}

// Pipeline sequences one diary creation: translate the title and content,
// build an image prompt, generate an illustration, re-host it, assemble
// the entry and persist it. Every upstream failure is terminal for the
// request; nothing is retried and nothing partial is stored.
type Pipeline struct {
	translator Translator
	generator  ImageGenerator
	uploader   MediaUploader
	store      DiaryStore
	orphans    OrphanRecorder

	sourceLang   string
	targetLang   string
	uploadPreset string
}

// PipelineConfig carries the language pair and the upload preset.
type PipelineConfig struct {
	SourceLang   string
	TargetLang   string
	UploadPreset string
}

// NewPipeline creates a pipeline with all collaborators injected.
func NewPipeline(translator Translator, generator ImageGenerator, uploader MediaUploader, store DiaryStore, orphans OrphanRecorder, cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		translator:   translator,
		generator:    generator,
		uploader:     uploader,
		store:        store,
		orphans:      orphans,
		sourceLang:   cfg.SourceLang,
		targetLang:   cfg.TargetLang,
		uploadPreset: cfg.UploadPreset,
	}
}

// Create runs the full pipeline for one request and returns the persisted
// entry. The caller must already have authenticated the author; AuthorID
// is taken as-is from the session.
func (p *Pipeline) Create(ctx context.Context, req domain.CreateEntryRequest) (*domain.DiaryEntry, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return nil, domain.ErrInvalidInput
	}
	if req.AuthorID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	// The two translation calls are independent; run them together and
	// join before the prompt is built.
	var translatedTitle, translatedContent string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		translatedTitle, err = p.translator.Translate(gctx, req.Title, p.sourceLang, p.targetLang)
		return err
	})
	g.Go(func() error {
		var err error
		translatedContent, err = p.translator.Translate(gctx, req.Content, p.sourceLang, p.targetLang)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewStageError(domain.StageTranslation, err)
	}

	prompt := BuildPrompt(translatedTitle, translatedContent)

	transientURL, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, domain.NewStageError(domain.StageImageGeneration, err)
	}

	asset, err := p.uploader.Upload(ctx, transientURL, p.uploadPreset)
	if err != nil {
		return nil, domain.NewStageError(domain.StageUpload, err)
	}

	entry := assembleEntry(req, translatedTitle, translatedContent, asset, time.Now())

	// Guard against upstreams that answered 200 with empty payloads.
	if field := missingField(entry); field != "" {
		return nil, domain.NewStageError(domain.StageValidation, fmt.Errorf("missing %s", field))
	}

	id, err := p.store.Save(ctx, entry)
	if err != nil {
		// The asset is already hosted and cannot be rolled back here.
		// Record it so the reconciler can release it.
		p.recordOrphan(ctx, asset.PublicID)
		return nil, domain.NewStageError(domain.StagePersistence, err)
	}
	entry.ID = id

	return entry, nil
}

func missingField(entry *domain.DiaryEntry) string {
	switch {
	case entry.Translate.Title == "":
		return "translation.title"
	case entry.Translate.Content == "":
		return "translation.content"
	case entry.Image.HostedURL == "":
		return "image.hosted_url"
	}
	return ""
}

func (p *Pipeline) recordOrphan(ctx context.Context, assetKey string) {
	log.Printf("[warn] operation=create_entry message=entry not persisted, hosted asset orphaned asset_key=%s", assetKey)
	if p.orphans == nil {
		return
	}
	if err := p.orphans.Add(ctx, assetKey); err != nil {
		log.Printf("[error] operation=record_orphan asset_key=%s error=%v", assetKey, err)
	}
}
