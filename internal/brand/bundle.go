package brand

import (
	"strings"
	"time"
)

// Media is an opaque binary asset passed through unmodified from the provider.
type Media struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mimeType"`
}

// Empty reports whether the media carries no bytes.
func (m Media) Empty() bool {
	return len(m.Data) == 0
}

// Extension returns a file extension (with dot) for the media MIME type.
func (m Media) Extension() string {
	switch strings.ToLower(m.MIMEType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "image/png", "":
		return ".png"
	default:
		if i := strings.Index(m.MIMEType, "/"); i >= 0 {
			return "." + m.MIMEType[i+1:]
		}
		return ".bin"
	}
}

// MotionAsset is the lazily synthesized video animating a bundle's mark.
type MotionAsset struct {
	Media
	// URI is the provider-side location of the video, when one was reported.
	URI       string    `json:"uri,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AssetBundle is one complete generated brand identity, the atomic unit of the gallery.
type AssetBundle struct {
	ID           string       `json:"id"`
	BusinessName string       `json:"businessName"`
	Niche        string       `json:"niche"`
	Style        Style        `json:"style"`
	PrimaryColor string       `json:"primaryColor"`
	PrimaryImage Media        `json:"primaryImage"`
	MotionAsset  *MotionAsset `json:"motionAsset,omitempty"`
	Strategy     Strategy     `json:"brandStrategy"`
	Moodboard    []Media      `json:"moodboard"`
	// Variation is the sequence index the bundle was generated with.
	Variation int       `json:"variation"`
	CreatedAt time.Time `json:"createdAt"`

	FontFamily  string      `json:"fontFamily"`
	Material    string      `json:"material"`
	AspectRatio AspectRatio `json:"aspectRatio"`
	Quality     Quality     `json:"quality"`
}

// HasMotion reports whether the motion asset has been attached.
func (b AssetBundle) HasMotion() bool {
	return b.MotionAsset != nil && !b.MotionAsset.Empty()
}
