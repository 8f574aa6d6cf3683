// Package summary renders the shareable overview card as a PNG image.
package summary

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"runtime"
	"time"

	"github.com/fogleman/gg"

	"resolvex/internal/view"
)

// Card styling constants — rendered at 2x scale for crisp sharing
const (
	cardWidth     = 1200
	cardHeight    = 900
	marginX       = 60
	titlePadding  = 130
	tileHeight    = 170
	tileGap       = 24
	tileRadius    = 18
	chartTop      = 420
	barHeight     = 52
	barGap        = 20
	barMaxWidth   = 760.0
	labelWidth    = 90
	titleFontSz   = 44
	tileValueSz   = 52
	tileLabelSz   = 24
	barFontSz     = 26
	footerPadding = 70
)

// Light theme colors
var (
	bgColor        = color.RGBA{R: 245, G: 247, B: 250, A: 255} // Light gray bg
	titleColor     = color.RGBA{R: 30, G: 41, B: 59, A: 255}    // Dark slate
	tileBgColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255} // White
	tileBorder     = color.RGBA{R: 203, G: 213, B: 225, A: 255} // Slate border
	accentColor    = color.RGBA{R: 37, G: 99, B: 235, A: 255}   // Blue
	resolvedColor  = color.RGBA{R: 22, G: 163, B: 74, A: 255}   // Green
	rejectedColor  = color.RGBA{R: 220, G: 38, B: 38, A: 255}   // Red
	barTrackColor  = color.RGBA{R: 226, G: 232, B: 240, A: 255} // Track gray
	barFillColor   = color.RGBA{R: 245, G: 158, B: 11, A: 255}  // Amber
	mutedTextColor = color.RGBA{R: 100, G: 116, B: 139, A: 255} // Muted slate
)

// tile is one headline counter on the card.
type tile struct {
	label string
	value string
	color color.RGBA
}

// findFont locates a font file across Linux and Windows paths.
func findFont(bold bool) string {
	var candidates []string
	if runtime.GOOS == "windows" {
		winRoot := os.Getenv("WINDIR")
		if winRoot == "" {
			winRoot = `C:\Windows`
		}
		if bold {
			candidates = []string{
				winRoot + `\Fonts\arialbd.ttf`,
				winRoot + `\Fonts\Arial Bold.ttf`,
			}
		} else {
			candidates = []string{
				winRoot + `\Fonts\arial.ttf`,
				winRoot + `\Fonts\Arial.ttf`,
			}
		}
	} else {
		if bold {
			candidates = []string{
				"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
				"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
			}
		} else {
			candidates = []string{
				"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
				"/usr/share/fonts/TTF/DejaVuSans.ttf",
			}
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return candidates[0]
}

// loadFont switches the context to the requested face. Missing system
// fonts are tolerated; gg keeps its built-in face and the card still
// renders.
func loadFont(dc *gg.Context, bold bool, points float64) {
	_ = dc.LoadFontFace(findFont(bold), points)
}

// RenderCard draws the overview card: headline counters on top, the
// five-bucket rating histogram below, and returns PNG bytes.
func RenderCard(stats view.Stats, dist view.Distribution) ([]byte, error) {
	dc := gg.NewContext(cardWidth, cardHeight)

	// Background
	dc.SetColor(bgColor)
	dc.Clear()

	// Title
	loadFont(dc, true, titleFontSz)
	dc.SetColor(titleColor)
	title := fmt.Sprintf("ResolveX Overview  —  %s", time.Now().Format("02 Jan 2006, 03:04 PM"))
	dc.DrawStringAnchored(title, cardWidth/2, titlePadding/2, 0.5, 0.5)

	// Counter tiles
	tiles := []tile{
		{"Total", fmt.Sprintf("%d", stats.Total), accentColor},
		{"Pending", fmt.Sprintf("%d", stats.Pending), barFillColor},
		{"Resolved", fmt.Sprintf("%d", stats.Resolved), resolvedColor},
		{"Rejected", fmt.Sprintf("%d", stats.Rejected), rejectedColor},
		{"Avg Rating", fmt.Sprintf("%.1f", stats.AverageRating), accentColor},
	}

	tileWidth := (float64(cardWidth) - 2*marginX - float64(len(tiles)-1)*tileGap) / float64(len(tiles))
	tileY := float64(titlePadding) + 30

	for i, t := range tiles {
		x := marginX + float64(i)*(tileWidth+tileGap)

		dc.SetColor(tileBgColor)
		dc.DrawRoundedRectangle(x, tileY, tileWidth, tileHeight, tileRadius)
		dc.Fill()
		dc.SetColor(tileBorder)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(x, tileY, tileWidth, tileHeight, tileRadius)
		dc.Stroke()

		loadFont(dc, true, tileValueSz)
		dc.SetColor(t.color)
		dc.DrawStringAnchored(t.value, x+tileWidth/2, tileY+tileHeight/2-16, 0.5, 0.5)

		loadFont(dc, false, tileLabelSz)
		dc.SetColor(mutedTextColor)
		dc.DrawStringAnchored(t.label, x+tileWidth/2, tileY+tileHeight-34, 0.5, 0.5)
	}

	// Histogram heading
	loadFont(dc, true, 30)
	dc.SetColor(titleColor)
	dc.DrawString("Ratings on resolved complaints", marginX, chartTop-24)

	// Rating bars, 5 stars at the top
	loadFont(dc, false, barFontSz)
	for i := 4; i >= 0; i-- {
		row := 4 - i
		y := float64(chartTop) + float64(row)*(barHeight+barGap)
		count := dist.Buckets[i]

		dc.SetColor(titleColor)
		dc.DrawStringAnchored(fmt.Sprintf("%d ★", i+1), marginX+labelWidth-20, y+barHeight/2, 1, 0.5)

		barX := float64(marginX + labelWidth)
		dc.SetColor(barTrackColor)
		dc.DrawRoundedRectangle(barX, y, barMaxWidth, barHeight, 10)
		dc.Fill()

		if count > 0 {
			w := barMaxWidth * float64(count) / float64(dist.Max)
			dc.SetColor(barFillColor)
			dc.DrawRoundedRectangle(barX, y, w, barHeight, 10)
			dc.Fill()
		}

		dc.SetColor(mutedTextColor)
		dc.DrawStringAnchored(fmt.Sprintf("%d", count), barX+barMaxWidth+50, y+barHeight/2, 0.5, 0.5)
	}

	// Footer
	loadFont(dc, false, 22)
	dc.SetColor(mutedTextColor)
	dc.DrawStringAnchored("Generated by ResolveX", cardWidth/2, cardHeight-footerPadding/2, 0.5, 0.5)

	return encodeImage(dc.Image())
}

func encodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
