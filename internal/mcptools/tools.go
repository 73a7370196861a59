// Package mcptools exposes the studio to agents as Model Context Protocol tools.
package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/export"
	"github.com/fpang/logonova/internal/studio"
)

// GenerateInput is the generate_brand_batch argument object.
type GenerateInput struct {
	BusinessName string `json:"businessName" jsonschema:"the brand or business name"`
	Niche        string `json:"niche" jsonschema:"what the business does"`
	Style        string `json:"style,omitempty" jsonschema:"one of minimalist, modern, playful, luxury, tech"`
	PrimaryColor string `json:"primaryColor,omitempty" jsonschema:"hex color such as #6366f1"`
	FontFamily   string `json:"fontFamily,omitempty" jsonschema:"one of font-sans, font-serif, font-display, font-mono"`
	Material     string `json:"material,omitempty" jsonschema:"visual finish such as matte_ink or gold_foil"`
	AspectRatio  string `json:"aspectRatio,omitempty" jsonschema:"one of 1:1, 4:3, 16:9"`
	Quality      string `json:"quality,omitempty" jsonschema:"one of 1K, 2K, 4K"`
	Count        int    `json:"count,omitempty" jsonschema:"number of bundles to generate"`
}

// BundleInfo is the agent-facing view of a bundle.
type BundleInfo struct {
	ID            string   `json:"id"`
	BusinessName  string   `json:"businessName"`
	Variation     int      `json:"variation"`
	Slogan        string   `json:"slogan"`
	Archetype     string   `json:"archetype"`
	Palette       []string `json:"palette"`
	Moodboard     int      `json:"moodboardImages"`
	HasMotion     bool     `json:"hasMotion"`
	ImageFilename string   `json:"imageFilename"`
}

// BundleList wraps a list of bundles.
type BundleList struct {
	Bundles []BundleInfo `json:"bundles"`
}

// BundleRef names one bundle.
type BundleRef struct {
	BundleID string `json:"bundleId" jsonschema:"id of a generated bundle"`
}

// BlueprintInput selects a bundle and output format.
type BlueprintInput struct {
	BundleID string `json:"bundleId" jsonschema:"id of a generated bundle"`
	Format   string `json:"format,omitempty" jsonschema:"json or yaml"`
}

// MotionInfo describes a synthesized motion asset.
type MotionInfo struct {
	BundleID string `json:"bundleId"`
	MIMEType string `json:"mimeType"`
	Bytes    int    `json:"bytes"`
	URI      string `json:"uri,omitempty"`
}

// NewServer registers the tools on an MCP server backed by svc.
func NewServer(svc *studio.Service, version string, defaultCount int) *mcp.Server {
	if defaultCount <= 0 {
		defaultCount = 1
	}
	h := &handlers{studio: svc, defaultCount: defaultCount}

	server := mcp.NewServer(&mcp.Implementation{Name: "logonova", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_brand_batch",
		Description: "Generate a batch of complete brand identities (mark, strategy, palette, moodboard) for one business.",
	}, h.generate)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "synthesize_motion",
		Description: "Animate a generated bundle's mark into a short video. Blocks until the video job finishes.",
	}, h.motion)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_bundles",
		Description: "List generated bundles, most recent first.",
	}, h.list)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_blueprint",
		Description: "Return the brand blueprint document of a bundle as JSON or YAML.",
	}, h.blueprint)
	return server
}

// Run serves the tools over stdio until ctx is canceled or the client disconnects.
func Run(ctx context.Context, server *mcp.Server) error {
	log.Info().Msg("Serving MCP tools on stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}

type handlers struct {
	studio       *studio.Service
	defaultCount int
}

func (h *handlers) generate(ctx context.Context, req *mcp.CallToolRequest, in GenerateInput) (*mcp.CallToolResult, BundleList, error) {
	cfg, err := brand.NewGenerationConfig(brand.ConfigInput{
		BusinessName: in.BusinessName,
		Niche:        in.Niche,
		Style:        in.Style,
		PrimaryColor: in.PrimaryColor,
		FontFamily:   in.FontFamily,
		Material:     in.Material,
		AspectRatio:  in.AspectRatio,
		Quality:      in.Quality,
	})
	if err != nil {
		return nil, BundleList{}, err
	}
	count := in.Count
	if count == 0 {
		count = h.defaultCount
	}

	bundles, err := h.studio.RunBatch(ctx, cfg, count)
	if err != nil {
		return nil, BundleList{}, toolError(err)
	}

	out := BundleList{Bundles: infos(bundles)}
	content := make([]mcp.Content, 0, len(bundles)+1)
	content = append(content, &mcp.TextContent{Text: fmt.Sprintf("Generated %d bundle(s) for %s.", len(bundles), cfg.BusinessName)})
	for _, b := range bundles {
		content = append(content, &mcp.ImageContent{Data: b.PrimaryImage.Data, MIMEType: b.PrimaryImage.MIMEType})
	}
	return &mcp.CallToolResult{Content: content}, out, nil
}

func (h *handlers) motion(ctx context.Context, req *mcp.CallToolRequest, in BundleRef) (*mcp.CallToolResult, MotionInfo, error) {
	asset, err := h.studio.SynthesizeMotion(ctx, in.BundleID)
	if err != nil {
		return nil, MotionInfo{}, toolError(err)
	}
	return nil, MotionInfo{
		BundleID: in.BundleID,
		MIMEType: asset.MIMEType,
		Bytes:    len(asset.Data),
		URI:      asset.URI,
	}, nil
}

func (h *handlers) list(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, BundleList, error) {
	return nil, BundleList{Bundles: infos(h.studio.Bundles())}, nil
}

func (h *handlers) blueprint(ctx context.Context, req *mcp.CallToolRequest, in BlueprintInput) (*mcp.CallToolResult, any, error) {
	b, err := h.studio.Bundle(in.BundleID)
	if err != nil {
		return nil, nil, err
	}
	format, err := export.ParseFormat(in.Format)
	if err != nil {
		return nil, nil, err
	}
	data, err := export.NewBlueprint(b).Encode(format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(data)}}}, nil, nil
}

func infos(bundles []brand.AssetBundle) []BundleInfo {
	out := make([]BundleInfo, len(bundles))
	for i, b := range bundles {
		out[i] = BundleInfo{
			ID:            b.ID,
			BusinessName:  b.BusinessName,
			Variation:     b.Variation,
			Slogan:        b.Strategy.Slogan,
			Archetype:     b.Strategy.Archetype,
			Palette:       b.Strategy.Palette,
			Moodboard:     len(b.Moodboard),
			HasMotion:     b.HasMotion(),
			ImageFilename: export.MarkFilename(b),
		}
	}
	return out
}
