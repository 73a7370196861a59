// Package assets provides embedded static assets for the application: prompt
// templates and the stylistic treatment table used to vary marks in a batch.
package assets

// Background is the solid backdrop a mark is rendered on. Only pure black and
// pure white are used so that marks composite without background removal.
type Background string

const (
	BackgroundWhite Background = "white"
	BackgroundBlack Background = "black"
)

// Treatment is one stylistic rendering of a brand mark.
type Treatment struct {
	Name        string
	Description string
	Background  Background
}

// Treatments is indexed by a bundle's sequence index modulo its length, so each
// bundle of a batch of up to four is visually distinct.
var Treatments = []Treatment{
	{
		Name:        "matte-extrusion",
		Description: "High-end 3D matte extrusion with soft ambient occlusion shadows",
		Background:  BackgroundWhite,
	},
	{
		Name:        "screen-print",
		Description: "Traditional hand-pulled screen print (serigraphie) with organic ink textures and slight bleeding edge, tactile feel",
		Background:  BackgroundWhite,
	},
	{
		Name:        "holographic",
		Description: "Cybernetic holographic symbol with iridescent color shifts and digital noise",
		Background:  BackgroundBlack,
	},
	{
		Name:        "gold-foil",
		Description: "Luxury minimalist gold foil stamp aesthetic, pressed cleanly into the surface",
		Background:  BackgroundBlack,
	},
}

// TreatmentFor returns the treatment for a sequence index. Negative indexes wrap.
func TreatmentFor(index int) Treatment {
	n := len(Treatments)
	return Treatments[((index%n)+n)%n]
}
