package interpret

import (
	"fmt"
	"image"
	"image/color"

	"pdfvision/types"
	"pdfvision/vars"

	"golang.org/x/image/draw"
)

// 发给视觉模型之前的裁剪与增强：
// 包围盒加 10px 边距裁出，锐化、提对比度，短边不足 200px 时放大。
// 原始页图从不改动，所有处理都在副本上做。

// cropRegion 按区域包围盒（加边距）从页图裁出副本
// 裁出的框太小（< 50x50）认为不值得处理
func cropRegion(pageImg image.Image, box types.BBox) (*image.RGBA, error) {
	bounds := pageImg.Bounds()
	x0 := max(bounds.Min.X, box.X0-vars.CropPadding)
	y0 := max(bounds.Min.Y, box.Y0-vars.CropPadding)
	x1 := min(bounds.Max.X, box.X1+vars.CropPadding)
	y1 := min(bounds.Max.Y, box.Y1+vars.CropPadding)

	if x1-x0 < vars.MinCropSize || y1-y0 < vars.MinCropSize {
		return nil, fmt.Errorf("crop too small: %dx%d", x1-x0, y1-y0)
	}

	dst := image.NewRGBA(image.Rect(0, 0, x1-x0, y1-y0))
	draw.Draw(dst, dst.Bounds(), pageImg, image.Pt(x0, y0), draw.Src)
	return dst, nil
}

// enhance 锐化 + 对比度增强 + 必要时放大
func enhance(img *image.RGBA) *image.RGBA {
	out := sharpen(img)
	out = adjustContrast(out, 1.5)

	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	if w < vars.MinVisionSide || h < vars.MinVisionSide {
		scale := float64(vars.MinVisionSide) / float64(min(w, h))
		nw, nh := int(float64(w)*scale), int(float64(h)*scale)
		scaled := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), out, out.Bounds(), draw.Src, nil)
		out = scaled
	}
	return out
}

// sharpen 3x3 反锐化掩模卷积
func sharpen(img *image.RGBA) *image.RGBA {
	kernel := [9]int{0, -1, 0, -1, 8, -1, 0, -1, 0} // 中心权重 8，除以 4
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				out.SetRGBA(x, y, img.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y))
				continue
			}
			var sr, sg, sb int
			k := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					p := img.RGBAAt(bounds.Min.X+x+dx, bounds.Min.Y+y+dy)
					sr += int(p.R) * kernel[k]
					sg += int(p.G) * kernel[k]
					sb += int(p.B) * kernel[k]
					k++
				}
			}
			orig := img.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			out.SetRGBA(x, y, color.RGBA{
				R: clamp8(int(orig.R) + sr/8),
				G: clamp8(int(orig.G) + sg/8),
				B: clamp8(int(orig.B) + sb/8),
				A: orig.A,
			})
		}
	}
	return out
}

// adjustContrast 线性对比度调整，factor > 1 增强
func adjustContrast(img *image.RGBA, factor float64) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := img.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			out.SetRGBA(x, y, color.RGBA{
				R: clamp8(int(float64(int(p.R)-128)*factor) + 128),
				G: clamp8(int(float64(int(p.G)-128)*factor) + 128),
				B: clamp8(int(float64(int(p.B)-128)*factor) + 128),
				A: p.A,
			})
		}
	}
	return out
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
