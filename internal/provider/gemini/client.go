// Package gemini implements the provider contract on the Gemini API through
// the google.golang.org/genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/provider"
)

// Default model names.
const (
	DefaultTextModel      = "gemini-3-flash-preview"
	DefaultImageModel     = "gemini-2.5-flash-image"
	DefaultHighImageModel = "gemini-3-pro-image-preview"
	DefaultVideoModel     = "veo-3.1-fast-generate-preview"
)

// Config selects the models used for each capability.
type Config struct {
	APIKey         string
	TextModel      string
	ImageModel     string
	HighImageModel string
	VideoModel     string
}

func (c Config) withDefaults() Config {
	if c.TextModel == "" {
		c.TextModel = DefaultTextModel
	}
	if c.ImageModel == "" {
		c.ImageModel = DefaultImageModel
	}
	if c.HighImageModel == "" {
		c.HighImageModel = DefaultHighImageModel
	}
	if c.VideoModel == "" {
		c.VideoModel = DefaultVideoModel
	}
	return c
}

// Client is a provider.Provider backed by the Gemini API.
type Client struct {
	genai *genai.Client
	cfg   Config
}

var _ provider.Provider = (*Client)(nil)

// New creates a Gemini client for the given API key.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &provider.Error{Reason: provider.ReasonCredential, Op: "new_client", Err: errors.New("API key is empty")}
	}
	cfg = cfg.withDefaults()

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{genai: gc, cfg: cfg}, nil
}

// Name identifies the backend in logs and metrics.
func (c *Client) Name() string { return "gemini" }

// GenerateImage requests one image. The high tier uses the high-fidelity model
// and honors req.Size; the baseline tier sends the aspect ratio only.
func (c *Client) GenerateImage(ctx context.Context, req provider.ImageRequest) (brand.Media, error) {
	model := c.cfg.ImageModel
	imgCfg := &genai.ImageConfig{AspectRatio: string(req.AspectRatio)}
	if req.Tier == provider.TierHigh {
		model = c.cfg.HighImageModel
		if req.Size != "" {
			imgCfg.ImageSize = string(req.Size)
		}
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig:        imgCfg,
	}

	log.Debug().
		Str("model", model).
		Str("tier", string(req.Tier)).
		Str("aspect_ratio", string(req.AspectRatio)).
		Str("size", string(req.Size)).
		Int("prompt_length", len(req.Prompt)).
		Msg("Starting Gemini image generation")

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), config)
	duration := time.Since(start)
	if err != nil {
		log.Warn().Err(err).Str("model", model).Dur("duration", duration).Msg("Gemini image generation failed")
		return brand.Media{}, classify("generate_image", err)
	}

	media, err := imageFromResponse(resp)
	if err != nil {
		log.Warn().Err(err).Str("model", model).Dur("duration", duration).Msg("Gemini image response unusable")
		return brand.Media{}, err
	}

	log.Info().
		Str("model", model).
		Int("image_bytes", len(media.Data)).
		Str("mime_type", media.MIMEType).
		Dur("duration", duration).
		Msg("Gemini image generated")
	return media, nil
}

// GenerateText requests a text completion, constrained to JSON when asked.
func (c *Client) GenerateText(ctx context.Context, req provider.TextRequest) (string, error) {
	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toSchema(req.Schema)
	}

	log.Debug().
		Str("model", c.cfg.TextModel).
		Bool("json", req.JSON).
		Int("prompt_length", len(req.Prompt)).
		Msg("Starting Gemini text generation")

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.TextModel, genai.Text(req.Prompt), config)
	duration := time.Since(start)
	if err != nil {
		log.Warn().Err(err).Str("model", c.cfg.TextModel).Dur("duration", duration).Msg("Gemini text generation failed")
		return "", classify("generate_text", err)
	}
	if err := blocked(resp); err != nil {
		return "", err
	}

	text := resp.Text()
	log.Debug().
		Str("model", c.cfg.TextModel).
		Int("response_length", len(text)).
		Dur("duration", duration).
		Msg("Gemini text response received")
	return text, nil
}

// Validate makes a minimal request to verify the API key.
func (c *Client) Validate(ctx context.Context) error {
	log.Debug().Msg("Validating API key with Gemini API")
	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.TextModel, genai.Text("hi"), nil)
	if err != nil {
		return classify("validate", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return &provider.Error{Reason: provider.ReasonMalformed, Op: "validate", Err: errors.New("API returned empty response")}
	}
	log.Info().Msg("API key validated successfully")
	return nil
}

// imageFromResponse returns the first inline image in resp, or a classified
// error when the response was blocked or carries no image data.
func imageFromResponse(resp *genai.GenerateContentResponse) (brand.Media, error) {
	if err := blocked(resp); err != nil {
		return brand.Media{}, err
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			if mt := part.InlineData.MIMEType; mt == "" || strings.HasPrefix(mt, "image/") {
				if mt == "" {
					mt = "image/png"
				}
				return brand.Media{Data: part.InlineData.Data, MIMEType: mt}, nil
			}
		}
	}
	return brand.Media{}, &provider.Error{Reason: provider.ReasonMalformed, Op: "generate_image", Err: provider.ErrNoImage}
}

// safetyFinishReasons are the finish reasons that mean the content was refused.
var safetyFinishReasons = map[string]bool{
	"SAFETY":                   true,
	"PROHIBITED_CONTENT":       true,
	"IMAGE_SAFETY":             true,
	"IMAGE_PROHIBITED_CONTENT": true,
	"BLOCKLIST":                true,
	"SPII":                     true,
}

// blocked reports a content-policy error when the prompt or every candidate
// was refused.
func blocked(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return &provider.Error{Reason: provider.ReasonMalformed, Op: "generate", Err: errors.New("received empty response from Gemini API")}
	}
	if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" {
		return &provider.Error{
			Reason: provider.ReasonContentPolicy,
			Op:     "generate",
			Err:    fmt.Errorf("prompt blocked: %s %s", pf.BlockReason, pf.BlockReasonMessage),
		}
	}
	if len(resp.Candidates) == 0 {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || !safetyFinishReasons[string(cand.FinishReason)] {
			return nil
		}
	}
	return &provider.Error{
		Reason: provider.ReasonContentPolicy,
		Op:     "generate",
		Err:    fmt.Errorf("candidate blocked: %s", resp.Candidates[0].FinishReason),
	}
}

// toSchema converts the backend-neutral schema hint.
func toSchema(s *provider.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:     schemaType(s.Type),
		Enum:     s.Enum,
		Required: s.Required,
		Items:    toSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = toSchema(v)
		}
	}
	return out
}

func schemaType(t provider.SchemaType) genai.Type {
	switch t {
	case provider.TypeObject:
		return genai.TypeObject
	case provider.TypeArray:
		return genai.TypeArray
	case provider.TypeInteger:
		return genai.TypeInteger
	default:
		return genai.TypeString
	}
}
