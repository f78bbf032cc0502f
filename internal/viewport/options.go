package viewport

import (
	"fmt"
	"strings"
)

// defaultStepFraction is the discrete zoom step as a fraction of the surface
// width.
const defaultStepFraction = 0.05

// FitMode selects how the image is initially fitted to the surface.
type FitMode int

const (
	// FitCover scales an image wider than the surface so that its height
	// covers the surface; taller images start at their natural width.
	FitCover FitMode = iota
	// FitWidth always starts with the image's natural width spanning the
	// surface width.
	FitWidth
)

func (m FitMode) String() string {
	switch m {
	case FitCover:
		return "cover"
	case FitWidth:
		return "width"
	default:
		return "unknown"
	}
}

// ParseFitMode parses the textual form of a fit mode ("cover" or "width").
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cover":
		return FitCover, nil
	case "width":
		return FitWidth, nil
	default:
		return FitCover, fmt.Errorf("unknown fit mode %q (want cover or width)", s)
	}
}

type options struct {
	fit          FitMode
	stepFraction float64
}

// Option configures an Engine.
type Option func(*options)

// WithFit sets the initial fit mode.
func WithFit(mode FitMode) Option {
	return func(o *options) { o.fit = mode }
}

// WithStepFraction sets the discrete zoom step as a fraction of the surface
// width. Non-positive fractions are ignored.
func WithStepFraction(f float64) Option {
	return func(o *options) {
		if f > 0 {
			o.stepFraction = f
		}
	}
}
