package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/provider"
)

// SubmitVideo starts a video job animating req.Image and returns the
// operation name as the job handle.
func (c *Client) SubmitVideo(ctx context.Context, req provider.VideoRequest) (provider.JobHandle, error) {
	var image *genai.Image
	if !req.Image.Empty() {
		image = &genai.Image{ImageBytes: req.Image.Data, MIMEType: req.Image.MIMEType}
	}

	config := &genai.GenerateVideosConfig{}
	if req.AspectRatio == brand.AspectWidescreen {
		config.AspectRatio = string(req.AspectRatio)
	}

	log.Debug().
		Str("model", c.cfg.VideoModel).
		Int("image_bytes", len(req.Image.Data)).
		Int("prompt_length", len(req.Prompt)).
		Msg("Submitting Gemini video job")

	start := time.Now()
	op, err := c.genai.Models.GenerateVideos(ctx, c.cfg.VideoModel, req.Prompt, image, config)
	if err != nil {
		log.Warn().Err(err).Str("model", c.cfg.VideoModel).Msg("Gemini video job submission failed")
		return "", classify("submit_video", err)
	}
	if op == nil || op.Name == "" {
		return "", &provider.Error{Reason: provider.ReasonMalformed, Op: "submit_video", Err: errors.New("operation has no name")}
	}

	log.Info().
		Str("model", c.cfg.VideoModel).
		Str("operation", op.Name).
		Dur("duration", time.Since(start)).
		Msg("Gemini video job submitted")
	return provider.JobHandle(op.Name), nil
}

// PollVideo fetches the job state once. When the job is done the video bytes
// are downloaded if the operation did not carry them inline.
func (c *Client) PollVideo(ctx context.Context, handle provider.JobHandle) (provider.VideoStatus, error) {
	op, err := c.genai.Operations.GetVideosOperation(ctx, &genai.GenerateVideosOperation{Name: string(handle)}, nil)
	if err != nil {
		return provider.VideoStatus{}, classify("poll_video", err)
	}
	if !op.Done {
		log.Debug().Str("operation", string(handle)).Msg("Gemini video job still running")
		return provider.VideoStatus{}, nil
	}
	if len(op.Error) > 0 {
		return provider.VideoStatus{}, provider.Wrap("poll_video", fmt.Errorf("video job failed: %v", op.Error))
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		if op.Response != nil && op.Response.RAIMediaFilteredCount > 0 {
			return provider.VideoStatus{}, &provider.Error{
				Reason: provider.ReasonContentPolicy,
				Op:     "poll_video",
				Err:    fmt.Errorf("video filtered: %v", op.Response.RAIMediaFilteredReasons),
			}
		}
		return provider.VideoStatus{}, &provider.Error{Reason: provider.ReasonMalformed, Op: "poll_video", Err: provider.ErrNoVideo}
	}

	generated := op.Response.GeneratedVideos[0]
	video := generated.Video
	if len(video.VideoBytes) == 0 && video.URI != "" {
		data, err := c.genai.Files.Download(ctx, genai.NewDownloadURIFromGeneratedVideo(generated), nil)
		if err != nil {
			return provider.VideoStatus{}, classify("download_video", err)
		}
		video.VideoBytes = data
	}

	mimeType := video.MIMEType
	if mimeType == "" {
		mimeType = "video/mp4"
	}

	log.Info().
		Str("operation", string(handle)).
		Int("video_bytes", len(video.VideoBytes)).
		Msg("Gemini video job complete")
	return provider.VideoStatus{
		Done:  true,
		Video: brand.Media{Data: video.VideoBytes, MIMEType: mimeType},
		URI:   video.URI,
	}, nil
}
