package render

import (
	"bytes"
	"fmt"
	"image"

	"pdfvision/types"
	"pdfvision/vars"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validate 用 pdfcpu 校验上传内容确实是可解析的 PDF，返回页数
// 任何临时文件落盘之前调用，坏文件直接拒掉
func Validate(pdfBytes []byte) (int, error) {
	if len(pdfBytes) == 0 {
		return 0, &types.InputError{Msg: "empty upload"}
	}
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		return 0, &types.InputError{Msg: "not a valid PDF", Err: err}
	}
	if ctx.PageCount == 0 {
		return 0, &types.InputError{Msg: "PDF has no pages"}
	}
	return ctx.PageCount, nil
}

// Renderer 把 PDF 逐页光栅化为图像
type Renderer struct {
	DPI int
}

func NewRenderer(dpi int) *Renderer {
	if dpi < vars.MinDPI || dpi > vars.MaxDPI {
		dpi = vars.DefaultDPI
	}
	return &Renderer{DPI: dpi}
}

// RenderAll 按页序返回每页的光栅图像
func (r *Renderer) RenderAll(pdfBytes []byte) ([]image.Image, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, &types.RenderError{Err: fmt.Errorf("open pdf: %w", err)}
	}
	defer doc.Close()

	numPages := doc.NumPage()
	images := make([]image.Image, 0, numPages)
	for i := 0; i < numPages; i++ {
		img, err := doc.ImageDPI(i, float64(r.DPI))
		if err != nil {
			return nil, &types.RenderError{Page: i + 1, Err: err}
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return nil, &types.RenderError{Err: fmt.Errorf("no pages rendered")}
	}
	return images, nil
}
