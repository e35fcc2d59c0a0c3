package service

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"pdfvision/logic/aggregate"
	"pdfvision/logic/interpret"
	"pdfvision/logic/render"
	"pdfvision/logic/segment"
	"pdfvision/storage/session"
	"pdfvision/types"
	"pdfvision/vars"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"
)

// 流水线各阶段的接口，方便测试替换
type Renderer interface {
	RenderAll(pdfBytes []byte) ([]image.Image, error)
}

type Segmenter interface {
	Segment(pageNum int, img image.Image) ([]*types.Region, error)
	WholePage(pageNum int, img image.Image) *types.Region
}

type RegionInterpreter interface {
	Interpret(ctx context.Context, region *types.Region, pageImg image.Image) error
}

// PipelineService 驱动整条处理链：渲染 → 分割 → 解释 → 聚合
// 同步逐页执行，页与页之间刷新会话进度
type PipelineService struct {
	sessions *session.Store

	newRenderer    func(dpi int) Renderer
	newSegmenter   func() Segmenter
	newInterpreter func(m model.ToolCallingChatModel, opts types.Options, tmpDir string) RegionInterpreter
}

// 构造函数：依赖注入
func NewPipelineService(sessions *session.Store) *PipelineService {
	return &PipelineService{
		sessions: sessions,
		newRenderer: func(dpi int) Renderer {
			return render.NewRenderer(dpi)
		},
		newSegmenter: func() Segmenter {
			return segment.NewSegmenter(vars.OCR_LANG)
		},
		newInterpreter: func(m model.ToolCallingChatModel, opts types.Options, tmpDir string) RegionInterpreter {
			return interpret.NewInterpreter(m, opts, tmpDir)
		},
	}
}

// ProcessPDF 处理一份已通过校验的 PDF，产出不可变的 Document
// 单区域/单页失败不会中断整体，只有渲染整体失败才返回错误
func (s *PipelineService) ProcessPDF(ctx context.Context, sess *session.Session, pdfBytes []byte, fileName string, opts types.Options, chatModel model.ToolCallingChatModel) (*types.Document, error) {
	startTime := time.Now()

	sess.SetProgress("Converting PDF to images...", 10)
	renderer := s.newRenderer(opts.DPI)
	pageImages, err := renderer.RenderAll(pdfBytes)
	if err != nil {
		return nil, err
	}
	fmt.Printf(">>> [性能] PDF 渲染耗时: %v, 共 %d 页\n", time.Since(startTime), len(pageImages))

	// 渲染图落入会话临时目录，会话结束统一清理
	for i, img := range pageImages {
		s.savePageImage(sess.TempDir, i+1, img)
	}

	sess.SetProgress("Segmenting pages...", 20)
	segmenter := s.newSegmenter()
	interpreter := s.newInterpreter(chatModel, opts, sess.TempDir)

	numPages := len(pageImages)
	pages := make([]*types.Page, 0, numPages)

	for i, img := range pageImages {
		pageNum := i + 1
		pageStart := time.Now()

		regions, segErr := segmenter.Segment(pageNum, img)
		if segErr != nil {
			// 版面分析失败：整页降级为单个 Text 区域，继续往下走
			fmt.Printf(">>> [WARN] 第 %d 页版面分析失败，降级整页处理: %v\n", pageNum, segErr)
			regions = []*types.Region{segmenter.WholePage(pageNum, img)}
		}

		for j, region := range regions {
			frac := (float64(i) + float64(j)/float64(max(len(regions), 1))) / float64(numPages)
			sess.SetProgress("Processing regions...", 30+frac*60)

			if err := interpreter.Interpret(ctx, region, img); err != nil {
				// 区域级失败已经记录在 region 上，这里只留痕
				fmt.Printf(">>> [WARN] %v\n", err)
			}
		}

		bounds := img.Bounds()
		pages = append(pages, &types.Page{
			Number:  pageNum,
			Width:   bounds.Dx(),
			Height:  bounds.Dy(),
			Regions: regions,
		})
		fmt.Printf(">>> [性能] 第 %d 页处理耗时: %v, %d 个区域\n", pageNum, time.Since(pageStart), len(regions))
	}

	sess.SetProgress("Finalizing results...", 95)
	doc := &types.Document{
		ID:          uuid.New().String(),
		FileName:    fileName,
		PageCount:   numPages,
		Options:     opts,
		Pages:       pages,
		Content:     aggregate.Merge(pages),
		CreatedAt:   time.Now(),
		ProcessTime: time.Since(startTime),
	}

	sess.SetDocument(doc)
	sess.SetProgress("Done", 100)
	fmt.Printf(">>> [性能总览] 处理完成，共 %d 页 %d 个内容项，总耗时: %v\n", numPages, len(doc.Content), doc.ProcessTime)
	return doc, nil
}

func (s *PipelineService) savePageImage(dir string, pageNum int, img image.Image) {
	if dir == "" {
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("page_%03d.png", pageNum))
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_ = png.Encode(f, img)
}
