// Package theme holds the colours of the window chrome drawn around and on
// top of the annotation surface.
package theme

import (
	"image/color"
)

// Theme defines the color palette for the window host.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window area outside the image
	Foreground color.RGBA // Status line text

	StatusBackground color.RGBA
	StatusError      color.RGBA

	// Crop overlay
	CropMask   color.RGBA // Dims the image outside the crop rectangle
	CropBorder color.RGBA
	CropHandle color.RGBA

	// Text and comment entry
	TextBoxBorder      color.RGBA
	TextBoxHandle      color.RGBA
	CommentBackground  color.RGBA
	CommentBorder      color.RGBA
	CommentText        color.RGBA
	CommentPlaceholder color.RGBA

	// Transparent image areas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:               "Default",
		Background:         color.RGBA{220, 220, 220, 255},
		Foreground:         color.RGBA{0, 0, 0, 255},
		StatusBackground:   color.RGBA{240, 240, 240, 230},
		StatusError:        color.RGBA{200, 30, 30, 255},
		CropMask:           color.RGBA{0, 0, 0, 128},
		CropBorder:         color.RGBA{255, 255, 255, 255},
		CropHandle:         color.RGBA{59, 130, 246, 255},
		TextBoxBorder:      color.RGBA{59, 130, 246, 255},
		TextBoxHandle:      color.RGBA{255, 255, 255, 255},
		CommentBackground:  color.RGBA{255, 255, 255, 245},
		CommentBorder:      color.RGBA{180, 180, 180, 255},
		CommentText:        color.RGBA{20, 20, 20, 255},
		CommentPlaceholder: color.RGBA{150, 150, 150, 255},
		CheckerLight:       color.RGBA{220, 220, 220, 255},
		CheckerDark:        color.RGBA{192, 192, 192, 255},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	t := Default()
	t.Name = "Dark"
	t.Background = color.RGBA{32, 33, 36, 255}
	t.Foreground = color.RGBA{232, 234, 237, 255}
	t.StatusBackground = color.RGBA{48, 49, 52, 230}
	t.StatusError = color.RGBA{242, 139, 130, 255}
	t.CropMask = color.RGBA{0, 0, 0, 160}
	t.CommentBackground = color.RGBA{41, 42, 45, 245}
	t.CommentBorder = color.RGBA{95, 99, 104, 255}
	t.CommentText = color.RGBA{232, 234, 237, 255}
	t.CommentPlaceholder = color.RGBA{154, 160, 166, 255}
	t.CheckerLight = color.RGBA{60, 60, 60, 255}
	t.CheckerDark = color.RGBA{45, 45, 45, 255}
	return t
}

// Builtin returns the themes compiled into the binary, keyed by lower case
// name.
func Builtin() map[string]*Theme {
	return map[string]*Theme{
		"default": Default(),
		"dark":    Dark(),
	}
}
