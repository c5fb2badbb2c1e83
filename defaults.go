package corona

import (
	"github.com/pkg/errors"
)

// TextureFilter selects texture sampling.
type TextureFilter string

const (
	FilterLinear  TextureFilter = "linear"
	FilterNearest TextureFilter = "nearest"
)

// TextureWrap selects how texture coordinates outside [0, 1] are sampled.
type TextureWrap string

const (
	WrapClampToEdge    TextureWrap = "clampToEdge"
	WrapRepeat         TextureWrap = "repeat"
	WrapMirroredRepeat TextureWrap = "mirroredRepeat"
)

// Defaults are the visual defaults applied to newly created display objects.
// A display owns one Defaults value; there is no package-level instance.
type Defaults struct {
	AnchorX, AnchorY float64

	FillColor   Color
	StrokeColor Color
	LineColor   Color
	Background  Color

	MagTextureFilter TextureFilter
	MinTextureFilter TextureFilter
	TextureWrapX     TextureWrap
	TextureWrapY     TextureWrap

	PreloadTextures                 bool
	IsNativeTextFieldFontSizeScaled bool
	IsNativeTextBoxFontSizeScaled   bool
	IsShaderCompilerVerbose         bool
	IsAnchorClamped                 bool
	IsImageSheetSampledInsideFrame  bool
}

// NewDefaults returns the engine defaults.
func NewDefaults() Defaults {
	return Defaults{
		AnchorX:                         0.5,
		AnchorY:                         0.5,
		FillColor:                       ColorWhite,
		StrokeColor:                     ColorWhite,
		LineColor:                       ColorWhite,
		Background:                      Color{0, 0, 0, 1},
		MagTextureFilter:                FilterLinear,
		MinTextureFilter:                FilterLinear,
		TextureWrapX:                    WrapClampToEdge,
		TextureWrapY:                    WrapClampToEdge,
		PreloadTextures:                 true,
		IsNativeTextFieldFontSizeScaled: true,
		IsNativeTextBoxFontSizeScaled:   true,
		IsAnchorClamped:                 true,
	}
}

// Get returns the value stored under key. Colors are returned as Color,
// filters and wraps as strings, flags as bool, anchors as float64.
func (d *Defaults) Get(key string) (any, error) {
	switch key {
	case "anchorX":
		return d.AnchorX, nil
	case "anchorY":
		return d.AnchorY, nil
	case "fillColor":
		return d.FillColor, nil
	case "strokeColor":
		return d.StrokeColor, nil
	case "lineColor":
		return d.LineColor, nil
	case "background":
		return d.Background, nil
	case "magTextureFilter":
		return string(d.MagTextureFilter), nil
	case "minTextureFilter":
		return string(d.MinTextureFilter), nil
	case "textureWrapX":
		return string(d.TextureWrapX), nil
	case "textureWrapY":
		return string(d.TextureWrapY), nil
	case "preloadTextures":
		return d.PreloadTextures, nil
	case "isNativeTextFieldFontSizeScaled":
		return d.IsNativeTextFieldFontSizeScaled, nil
	case "isNativeTextBoxFontSizeScaled":
		return d.IsNativeTextBoxFontSizeScaled, nil
	case "isShaderCompilerVerbose":
		return d.IsShaderCompilerVerbose, nil
	case "isAnchorClamped":
		return d.IsAnchorClamped, nil
	case "isImageSheetSampledInsideFrame":
		return d.IsImageSheetSampledInsideFrame, nil
	}
	return nil, errors.Wrapf(ErrUnknownDefault, "%q", key)
}

// Set stores value under key. Anchors accept any number and are clamped to
// [0, 1] while IsAnchorClamped is set. Colors accept a Color or a slice of
// 1 to 4 numbers (gray, gray+alpha, rgb, rgba).
func (d *Defaults) Set(key string, value any) error {
	n := *d
	var err error
	switch key {
	case "anchorX":
		n.AnchorX, err = d.anchorValue(key, value)
	case "anchorY":
		n.AnchorY, err = d.anchorValue(key, value)
	case "fillColor":
		n.FillColor, err = colorValue(key, value)
	case "strokeColor":
		n.StrokeColor, err = colorValue(key, value)
	case "lineColor":
		n.LineColor, err = colorValue(key, value)
	case "background":
		n.Background, err = colorValue(key, value)
	case "magTextureFilter":
		n.MagTextureFilter, err = filterValue(key, value)
	case "minTextureFilter":
		n.MinTextureFilter, err = filterValue(key, value)
	case "textureWrapX":
		n.TextureWrapX, err = wrapValue(key, value)
	case "textureWrapY":
		n.TextureWrapY, err = wrapValue(key, value)
	case "preloadTextures":
		n.PreloadTextures, err = boolValue(key, value)
	case "isNativeTextFieldFontSizeScaled":
		n.IsNativeTextFieldFontSizeScaled, err = boolValue(key, value)
	case "isNativeTextBoxFontSizeScaled":
		n.IsNativeTextBoxFontSizeScaled, err = boolValue(key, value)
	case "isShaderCompilerVerbose":
		n.IsShaderCompilerVerbose, err = boolValue(key, value)
	case "isAnchorClamped":
		n.IsAnchorClamped, err = boolValue(key, value)
	case "isImageSheetSampledInsideFrame":
		n.IsImageSheetSampledInsideFrame, err = boolValue(key, value)
	default:
		return errors.Wrapf(ErrUnknownDefault, "%q", key)
	}
	if err != nil {
		return err
	}
	*d = n
	return nil
}

func (d *Defaults) anchorValue(key string, value any) (float64, error) {
	v, ok := toFloat(value)
	if !ok {
		return 0, errors.Errorf("corona: default %q expects a number, got %T", key, value)
	}
	if d.IsAnchorClamped {
		v = clamp01(v)
	}
	return v, nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func colorValue(key string, value any) (Color, error) {
	var comps []float64
	switch v := value.(type) {
	case Color:
		return v, nil
	case []float64:
		comps = v
	case []any:
		for _, c := range v {
			f, ok := toFloat(c)
			if !ok {
				return Color{}, errors.Errorf("corona: default %q has non-numeric component %v", key, c)
			}
			comps = append(comps, f)
		}
	default:
		return Color{}, errors.Errorf("corona: default %q expects a color, got %T", key, value)
	}
	return colorFromComponents(key, comps)
}

// colorFromComponents interprets 1 (gray), 2 (gray, alpha), 3 (rgb), or
// 4 (rgba) components.
func colorFromComponents(key string, c []float64) (Color, error) {
	switch len(c) {
	case 1:
		return Color{c[0], c[0], c[0], 1}, nil
	case 2:
		return Color{c[0], c[0], c[0], c[1]}, nil
	case 3:
		return Color{c[0], c[1], c[2], 1}, nil
	case 4:
		return Color{c[0], c[1], c[2], c[3]}, nil
	}
	return Color{}, errors.Errorf("corona: default %q expects 1 to 4 color components, got %d", key, len(c))
}

func filterValue(key string, value any) (TextureFilter, error) {
	s, _ := value.(string)
	switch f := TextureFilter(s); f {
	case FilterLinear, FilterNearest:
		return f, nil
	}
	return "", errors.Errorf("corona: default %q expects \"linear\" or \"nearest\", got %v", key, value)
}

func wrapValue(key string, value any) (TextureWrap, error) {
	s, _ := value.(string)
	switch w := TextureWrap(s); w {
	case WrapClampToEdge, WrapRepeat, WrapMirroredRepeat:
		return w, nil
	}
	return "", errors.Errorf("corona: default %q expects a texture wrap mode, got %v", key, value)
}

func boolValue(key string, value any) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, errors.Errorf("corona: default %q expects a bool, got %T", key, value)
	}
	return b, nil
}
