package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/playback-gateway/internal/domain"
	"github.com/spec-kit/playback-gateway/internal/drive"
	"github.com/spec-kit/playback-gateway/internal/repository"
	apperrors "github.com/spec-kit/playback-gateway/pkg/util"
)

const streamableMimeType = "video/mp4"

// LibraryService resolves video metadata and proxies the drive's file
// listing, decorating both with gateway stream URLs.
type LibraryService struct {
	videos        repository.VideoRepository
	drive         *drive.Client
	publicBaseURL string
}

// NewLibraryService builds the service. publicBaseURL is this
// gateway's externally reachable address, used to compute streamUrl.
func NewLibraryService(videos repository.VideoRepository, driveClient *drive.Client, publicBaseURL string) *LibraryService {
	return &LibraryService{videos: videos, drive: driveClient, publicBaseURL: publicBaseURL}
}

// StreamURL computes the playback endpoint for a file.
func (s *LibraryService) StreamURL(fileID string) string {
	return fmt.Sprintf("%s/api/stream/%s", s.publicBaseURL, fileID)
}

// ResolveVideo fetches the content descriptor for a video file and
// enriches it with computed URLs. Unknown ids and non-video files both
// resolve to not-found.
func (s *LibraryService) ResolveVideo(ctx context.Context, fileID string) (*domain.Video, error) {
	video, err := s.videos.GetByFileID(ctx, fileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("video file", map[string]any{"file_id": fileID})
		}
		return nil, err
	}

	video.StreamURL = s.StreamURL(fileID)
	if video.Thumbnail != nil && *video.Thumbnail != "" {
		url := s.drive.ThumbnailURL(fileID)
		video.ThumbnailURL = &url
	}
	return video, nil
}

// ListVideos proxies the drive listing on behalf of the caller, keeps
// only streamable entries, and attaches a streamUrl to each. The
// caller's own Authorization header travels upstream so the drive
// scopes the listing to that user.
func (s *LibraryService) ListVideos(ctx context.Context, authorization, rawQuery string) ([]map[string]any, error) {
	listing, err := s.drive.ListFiles(ctx, authorization, rawQuery)
	if err != nil {
		return nil, err
	}

	videos := make([]map[string]any, 0, len(listing.Files))
	for _, file := range listing.Files {
		if mimeType, _ := file["type"].(string); mimeType != streamableMimeType {
			continue
		}
		file["streamUrl"] = s.StreamURL(fmt.Sprint(file["id"]))
		videos = append(videos, file)
	}
	return videos, nil
}
