package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"cdr.dev/slog"
	tea "github.com/charmbracelet/bubbletea"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	detectMaxSide   = 256
	edgeThreshold   = 48.0
	orientationBins = 180
)

// PerspectiveToken ties an asynchronous detection result to the request
// that produced it.
type PerspectiveToken uint64

// perspectiveSlot follows one outstanding detection. The first shape
// created after the request is bound to it; a result for any other token
// is stale.
type perspectiveSlot struct {
	seq     PerspectiveToken
	token   PerspectiveToken
	shapeID string
	bound   bool
	angle   *float64
}

func (p *perspectiveSlot) clear() {
	p.token = 0
	p.shapeID = ""
	p.bound = false
	p.angle = nil
}

func (p *perspectiveSlot) bind(s *EditingSession, sh *Shape) {
	if p.token == 0 || p.bound {
		return
	}
	p.bound = true
	p.shapeID = sh.id
	if p.angle != nil {
		s.applySkew(sh, *p.angle)
		p.clear()
	}
}

func (p *perspectiveSlot) forget(sh *Shape) {
	if p.bound && p.shapeID == sh.id {
		p.clear()
	}
}

// RequestPerspective starts a new detection window. Any earlier request
// is superseded.
func (s *EditingSession) RequestPerspective() PerspectiveToken {
	s.persp.seq++
	s.persp.clear()
	s.persp.token = s.persp.seq
	return s.persp.token
}

// ApplyPerspective delivers a detected angle in degrees. The skew lands on
// the shape created after the request, or waits for it. Late or
// superseded results are dropped.
func (s *EditingSession) ApplyPerspective(tok PerspectiveToken, deg float64) bool {
	if tok == 0 || tok != s.persp.token {
		logWarn(s.ctx, "dropping stale perspective result", slog.F("token", uint64(tok)), slog.F("current", uint64(s.persp.token)))
		return false
	}
	if !isFinite(deg) || !isFinite(skewForAngle(deg)) {
		logWarn(s.ctx, "dropping unusable perspective angle", slog.F("degrees", deg))
		s.persp.clear()
		return false
	}
	if !s.persp.bound {
		s.persp.angle = &deg
		return true
	}
	id := s.persp.shapeID
	sh := s.registry.Shape(id)
	s.persp.clear()
	if sh == nil {
		logWarn(s.ctx, "perspective target no longer exists", slog.F("id", id))
		return false
	}
	s.applySkew(sh, deg)
	if s.current != sh {
		s.pushState()
	}
	return true
}

// PendingPerspective reports whether a detection window is open.
func (s *EditingSession) PendingPerspective() bool {
	return s.persp.token != 0
}

func (s *EditingSession) applySkew(sh *Shape, deg float64) {
	sh.xf.SkewX = skewForAngle(deg)
	sh.touch()
	logDebug(s.ctx, "applied perspective skew", slog.F("id", sh.id), slog.F("degrees", deg), slog.F("skew_x", sh.xf.SkewX))
}

// ReferenceImage is an imported raster used for perspective detection.
type ReferenceImage struct {
	Path  string
	Image image.Image
}

func loadReferenceImage(path string) (*ReferenceImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode reference image %s: %w", path, err)
	}
	return &ReferenceImage{Path: path, Image: img}, nil
}

// downscale fits img into a limit x limit square, keeping the aspect ratio.
func downscale(img image.Image, limit int) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > limit || h > limit {
		if w >= h {
			h = int(math.Max(1, math.Round(float64(h)*float64(limit)/float64(w))))
			w = limit
		} else {
			w = int(math.Max(1, math.Round(float64(w)*float64(limit)/float64(h))))
			h = limit
		}
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// DetectDominantAngle finds the prevailing edge direction in img and
// returns its tilt from vertical in degrees, in (-90, 90]. It uses Sobel
// gradients binned by orientation and weighted by magnitude.
func DetectDominantAngle(ctx context.Context, img image.Image) (float64, error) {
	g := downscale(img, detectMaxSide)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	if w < 3 || h < 3 {
		return 0, fmt.Errorf("reference image too small: %dx%d", w, h)
	}
	px := func(x, y int) float64 { return float64(g.Pix[y*g.Stride+x]) }

	var hist [orientationBins]float64
	var total float64
	for y := 1; y < h-1; y++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for x := 1; x < w-1; x++ {
			gx := px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1) - px(x-1, y-1) - 2*px(x-1, y) - px(x-1, y+1)
			gy := px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1) - px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1)
			mag := math.Hypot(gx, gy)
			if mag < edgeThreshold {
				continue
			}
			// The edge runs perpendicular to the gradient.
			theta := math.Atan2(gy, gx)*180/math.Pi + 90
			bin := int(math.Mod(math.Round(theta)+360, orientationBins))
			hist[bin] += mag
			total += mag
		}
	}
	if total == 0 {
		return 0, nil
	}

	best, bestScore := 0, -1.0
	for i := range hist {
		// Smooth over neighbouring bins so noise does not split a peak.
		score := hist[(i+orientationBins-1)%orientationBins] + 2*hist[i] + hist[(i+1)%orientationBins]
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	// Bin 90 is a vertical edge; report the tilt away from it.
	tilt := float64(best - 90)
	if tilt <= -90 {
		tilt += 180
	}
	return tilt, nil
}

type perspectiveMsg struct {
	token PerspectiveToken
	angle float64
	err   error
}

type referenceMsg struct {
	ref *ReferenceImage
	err error
}

// importReferenceCmd loads the image off the event loop.
func importReferenceCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ref, err := loadReferenceImage(path)
		return referenceMsg{ref: ref, err: err}
	}
}

// detectPerspectiveCmd runs detection off the event loop; the result comes
// back as a perspectiveMsg carrying the token it was started with.
func detectPerspectiveCmd(ctx context.Context, tok PerspectiveToken, img image.Image) tea.Cmd {
	return func() tea.Msg {
		angle, err := DetectDominantAngle(ctx, img)
		return perspectiveMsg{token: tok, angle: angle, err: err}
	}
}
