package server

import (
	"time"

	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/export"
)

// bundleSummary is the JSON view of a bundle. Binary media is referenced by URL.
type bundleSummary struct {
	ID             string            `json:"id"`
	BusinessName   string            `json:"businessName"`
	Niche          string            `json:"niche"`
	Style          brand.Style       `json:"style"`
	PrimaryColor   string            `json:"primaryColor"`
	FontFamily     string            `json:"fontFamily"`
	Material       string            `json:"material"`
	AspectRatio    brand.AspectRatio `json:"aspectRatio"`
	Quality        brand.Quality     `json:"quality"`
	Variation      int               `json:"variation"`
	CreatedAt      time.Time         `json:"createdAt"`
	Strategy       brand.Strategy    `json:"brandStrategy"`
	ImageURL       string            `json:"imageUrl"`
	ThumbnailURL   string            `json:"thumbnailUrl"`
	MoodboardURLs  []string          `json:"moodboardUrls"`
	HasMotion      bool              `json:"hasMotion"`
	MotionURL      string            `json:"motionUrl,omitempty"`
	BlueprintURL   string            `json:"blueprintUrl"`
	ExportURL      string            `json:"exportUrl"`
	ImageFilename  string            `json:"imageFilename"`
	ExportFilename string            `json:"exportFilename"`
}

func summarize(b brand.AssetBundle) bundleSummary {
	base := "/api/bundles/" + b.ID
	s := bundleSummary{
		ID:             b.ID,
		BusinessName:   b.BusinessName,
		Niche:          b.Niche,
		Style:          b.Style,
		PrimaryColor:   b.PrimaryColor,
		FontFamily:     b.FontFamily,
		Material:       b.Material,
		AspectRatio:    b.AspectRatio,
		Quality:        b.Quality,
		Variation:      b.Variation,
		CreatedAt:      b.CreatedAt,
		Strategy:       b.Strategy,
		ImageURL:       base + "/image",
		ThumbnailURL:   base + "/thumbnail",
		MoodboardURLs:  []string{},
		HasMotion:      b.HasMotion(),
		BlueprintURL:   base + "/blueprint",
		ExportURL:      base + "/export",
		ImageFilename:  export.MarkFilename(b),
		ExportFilename: export.KitFilename(b),
	}
	for i := range b.Moodboard {
		s.MoodboardURLs = append(s.MoodboardURLs, base+"/moodboard/"+itoa(i+1))
	}
	if s.HasMotion {
		s.MotionURL = base + "/motion/video"
	}
	return s
}

func summarizeAll(bundles []brand.AssetBundle) []bundleSummary {
	out := make([]bundleSummary, len(bundles))
	for i, b := range bundles {
		out[i] = summarize(b)
	}
	return out
}
