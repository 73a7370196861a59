// Package provider defines the contract between the generation pipeline and
// an external generative-AI backend: image generation, structured text
// generation and job-based video generation.
package provider

import (
	"context"

	"github.com/fpang/logonova/internal/brand"
)

// Tier selects the image model family for a request.
type Tier string

const (
	// TierBaseline is the fast, widely available image model.
	TierBaseline Tier = "baseline"
	// TierHigh is the high-fidelity image model that honors an explicit output size.
	TierHigh Tier = "high"
)

// ImageRequest describes one image generation call.
type ImageRequest struct {
	Prompt      string
	AspectRatio brand.AspectRatio
	Tier        Tier
	// Size is the requested resolution. Empty means the model default, which is
	// what the reduced-option fallback request sends.
	Size brand.Quality
}

// TextRequest describes one structured text generation call.
type TextRequest struct {
	Prompt            string
	SystemInstruction string
	// JSON asks the backend to constrain output to a JSON document.
	JSON bool
	// Schema is an optional response schema hint. Backends may ignore it.
	Schema *Schema
}

// Schema is a backend-neutral subset of a JSON response schema.
type Schema struct {
	Type       SchemaType         `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// SchemaType names a JSON value type.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
)

// VideoRequest describes a video job animating a source image.
type VideoRequest struct {
	Prompt      string
	Image       brand.Media
	AspectRatio brand.AspectRatio
}

// JobHandle identifies a submitted video job.
type JobHandle string

// VideoStatus is the result of polling a video job.
type VideoStatus struct {
	Done bool
	// Video is set when Done and the backend returned the bytes inline or they
	// were downloaded.
	Video brand.Media
	URI   string
}

// ImageGenerator produces image bytes from a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (brand.Media, error)
}

// TextGenerator produces raw text, expected to be a JSON document possibly
// wrapped in formatting noise.
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
}

// VideoGenerator runs asynchronous video jobs. There is no push notification;
// callers poll.
type VideoGenerator interface {
	SubmitVideo(ctx context.Context, req VideoRequest) (JobHandle, error)
	PollVideo(ctx context.Context, handle JobHandle) (VideoStatus, error)
}

// Provider is a complete generative backend.
type Provider interface {
	ImageGenerator
	TextGenerator
	VideoGenerator
	Name() string
}
