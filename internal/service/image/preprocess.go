package image

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Preprocessor transforms an image before OCR.
type Preprocessor interface {
	Process(img image.Image) (image.Image, error)
}

type GrayscaleProcessor struct{}

func NewGrayscaleProcessor() *GrayscaleProcessor {
	return &GrayscaleProcessor{}
}

func (p *GrayscaleProcessor) Process(img image.Image) (image.Image, error) {
	return imaging.Grayscale(img), nil
}

// DenoiseProcessor smooths sensor noise with a light gaussian blur.
type DenoiseProcessor struct {
	strength float64
}

func NewDenoiseProcessor(strength float64) *DenoiseProcessor {
	return &DenoiseProcessor{strength: strength}
}

func (p *DenoiseProcessor) Process(img image.Image) (image.Image, error) {
	if p.strength <= 0 {
		return img, nil
	}
	return imaging.Blur(img, p.strength), nil
}

// ContrastProcessor stretches the dynamic range so faint print survives
// thresholding inside tesseract.
type ContrastProcessor struct {
	percentage float64
}

func NewContrastProcessor(percentage float64) *ContrastProcessor {
	return &ContrastProcessor{percentage: percentage}
}

func (p *ContrastProcessor) Process(img image.Image) (image.Image, error) {
	return imaging.AdjustContrast(img, p.percentage), nil
}

type SharpenProcessor struct {
	strength float64
}

func NewSharpenProcessor(strength float64) *SharpenProcessor {
	return &SharpenProcessor{strength: strength}
}

func (p *SharpenProcessor) Process(img image.Image) (image.Image, error) {
	if p.strength <= 0 {
		return img, nil
	}
	return imaging.Sharpen(img, p.strength), nil
}

// UpscaleProcessor resizes small captures so glyphs reach a size
// tesseract recognizes reliably.
type UpscaleProcessor struct {
	minWidth int
}

func NewUpscaleProcessor(minWidth int) *UpscaleProcessor {
	return &UpscaleProcessor{minWidth: minWidth}
}

func (p *UpscaleProcessor) Process(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	if bounds.Dx() >= p.minWidth {
		return img, nil
	}
	return imaging.Resize(img, p.minWidth, 0, imaging.Lanczos), nil
}

// BinarizeProcessor converts the grayscale image to black and white
// around a fixed luminance threshold.
type BinarizeProcessor struct {
	threshold uint8
}

func NewBinarizeProcessor(threshold uint8) *BinarizeProcessor {
	return &BinarizeProcessor{threshold: threshold}
}

func (p *BinarizeProcessor) Process(img image.Image) (image.Image, error) {
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := color.GrayModel.Convert(gray.At(x, y)).(color.Gray).Y
			if v < p.threshold {
				out.Set(x, y, color.Black)
			} else {
				out.Set(x, y, color.White)
			}
		}
	}
	return out, nil
}

func defaultPipeline() []Preprocessor {
	return []Preprocessor{
		NewUpscaleProcessor(1024),
		NewGrayscaleProcessor(),
		NewDenoiseProcessor(0.5),
		NewContrastProcessor(15),
		NewSharpenProcessor(0.5),
	}
}
