// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

// Phase is a named band of the recognition progress range. A fraction
// belongs to the last phase whose threshold it has reached.
type Phase struct {
	// Threshold is the inclusive lower bound of the band, in [0, 1].
	Threshold float64

	// Label is the display name shown while the band is active.
	Label string
}

// DefaultPhases is the ordered threshold table used for display. The exact
// boundaries are a presentation choice, not an engine contract.
var DefaultPhases = []Phase{
	{0.0, "Loading Image"},
	{0.2, "Initializing OCR Engine"},
	{0.4, "Analyzing Handwriting"},
	{0.6, "Extracting Text"},
	{0.85, "Finalizing Results"},
}

// PhaseFor maps fraction onto phases, returning the label of the last
// phase whose threshold is <= fraction. Out-of-range fractions are
// clamped. An empty table returns "".
func PhaseFor(phases []Phase, fraction float64) string {
	if len(phases) == 0 {
		return ""
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	label := phases[0].Label
	for _, p := range phases {
		if fraction >= p.Threshold {
			label = p.Label
		}
	}
	return label
}
