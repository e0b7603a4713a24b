package media

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"autix_backend/models"
)

type Pipeline struct {
	store ObjectStore
	newID func() string
}

func NewPipeline(store ObjectStore) *Pipeline {
	return &Pipeline{store: store, newID: uuid.NewString}
}

// Process renders one upload and stores both variants. The returned image
// is not yet persisted; CarID, IsMain and DisplayOrder are set by the
// repository.
func (p *Pipeline) Process(ctx context.Context, carID uint, r io.Reader) (*models.CarImage, error) {
	src, err := Decode(r)
	if err != nil {
		return nil, err
	}

	full, err := Render(src, Full)
	if err != nil {
		return nil, err
	}
	thumb, err := Render(src, Thumbnail)
	if err != nil {
		return nil, err
	}

	id := p.newID()
	fullKey := fmt.Sprintf("cars/%d/%s-%s.jpg", carID, id, Full.Name)
	thumbKey := fmt.Sprintf("cars/%d/%s-%s.jpg", carID, id, Thumbnail.Name)

	if err := p.store.Put(ctx, fullKey, full, "image/jpeg"); err != nil {
		return nil, err
	}
	if err := p.store.Put(ctx, thumbKey, thumb, "image/jpeg"); err != nil {
		p.deleteQuietly(ctx, fullKey)
		return nil, err
	}

	return &models.CarImage{
		CarID:        carID,
		ImageURL:     p.store.URL(fullKey),
		ThumbnailURL: p.store.URL(thumbKey),
		ImageKey:     fullKey,
		ThumbnailKey: thumbKey,
		Width:        Full.Width,
		Height:       Full.Height,
		SizeBytes:    int64(len(full)),
	}, nil
}

// Remove deletes the stored objects of images whose rows are already gone.
// Failures are logged, never returned.
func (p *Pipeline) Remove(ctx context.Context, images ...models.CarImage) {
	for _, img := range images {
		p.deleteQuietly(ctx, img.ImageKey)
		p.deleteQuietly(ctx, img.ThumbnailKey)
	}
}

func (p *Pipeline) deleteQuietly(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := p.store.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete stored image")
	}
}
