package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/playback-gateway/internal/domain"
)

// VideoRepository resolves content descriptors for stored video files.
type VideoRepository interface {
	GetByFileID(ctx context.Context, fileID string) (*domain.Video, error)
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository returns a Postgres-backed implementation.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

// GetByFileID joins optional probe metadata onto the file record. Rows
// whose mime type is not video/* are treated as absent: this gateway
// only describes content it can stream.
func (r *videoRepository) GetByFileID(ctx context.Context, fileID string) (*domain.Video, error) {
	const query = `
        SELECT
            f.id,
            f.name,
            f.size,
            f.type,
            f.storage_path,
            v.duration,
            v.thumbnail,
            f.created_at
        FROM files f
        LEFT JOIN video_metadata v ON v.file_id = f.id
        WHERE f.id = $1 AND f.type LIKE 'video/%'`

	var video domain.Video
	if err := r.pool.QueryRow(ctx, query, fileID).Scan(
		&video.FileID,
		&video.FileName,
		&video.Size,
		&video.MimeType,
		&video.StoragePath,
		&video.DurationSecs,
		&video.Thumbnail,
		&video.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &video, nil
}
