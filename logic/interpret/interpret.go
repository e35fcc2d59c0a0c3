// Package interpret 按区域类型派发解释器：
// Text/Title 直接用 OCR 文本，Image/Formula 走视觉模型（有界重试），
// Table 由单元格几何重建 HTML。单区域失败只标记该区域，不中断整个处理。
package interpret

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"pdfvision/types"
	"pdfvision/vars"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"
)

type Interpreter struct {
	Model  model.ToolCallingChatModel // 开关全关时可以为 nil
	Policy Policy
	Opts   types.Options
	TmpDir string // 裁剪图写到这里，会话结束统一清理
}

func NewInterpreter(m model.ToolCallingChatModel, opts types.Options, tmpDir string) *Interpreter {
	return &Interpreter{
		Model: m,
		Policy: Policy{
			MaxAttempts: vars.VLM_MAX_ATTEMPTS,
			Backoff:     vars.BackoffBase(),
		},
		Opts:   opts,
		TmpDir: tmpDir,
	}
}

// Interpret 给一个区域附加派生内容并打状态
// 返回的错误只用于日志，调用方不应据此中断后续区域
func (it *Interpreter) Interpret(ctx context.Context, region *types.Region, pageImg image.Image) error {
	switch region.Type {
	case types.RegionText, types.RegionTitle:
		// 分割阶段已经直接取了 OCR 文本
		if region.Status == "" {
			region.Status = types.StatusProcessed
		}
		return nil

	case types.RegionTable:
		if !it.Opts.ProcessTables {
			region.Status = types.StatusSkipped
			return nil
		}
		html := HTMLFromGrid(region.Grid)
		if html == "" {
			region.Status = types.StatusFailed
			region.Error = "no cell geometry detected"
			return &types.InterpretationError{Region: region.Type, Page: region.Page, Err: fmt.Errorf("no cell geometry")}
		}
		region.Content = html
		region.Status = types.StatusProcessed
		return nil

	case types.RegionImage:
		if !it.Opts.ProcessImages {
			region.Status = types.StatusSkipped
			return nil
		}
		return it.interpretVisual(ctx, region, pageImg, vars.SYSTEM_IMAGE, vars.PROMPT_IMAGE)

	case types.RegionFormula:
		if !it.Opts.ProcessFormulas {
			region.Status = types.StatusSkipped
			return nil
		}
		return it.interpretVisual(ctx, region, pageImg, vars.SYSTEM_FORMULA, vars.PROMPT_FORMULA)

	default:
		region.Status = types.StatusFailed
		region.Error = "unknown region type"
		return fmt.Errorf("unknown region type: %s", region.Type)
	}
}

func (it *Interpreter) interpretVisual(ctx context.Context, region *types.Region, pageImg image.Image, systemPrompt, taskPrompt string) error {
	crop, err := cropRegion(pageImg, region.BBox)
	if err != nil {
		region.Status = types.StatusFailed
		region.Error = err.Error()
		return &types.InterpretationError{Region: region.Type, Page: region.Page, Err: err}
	}

	data, err := encodeCrop(enhance(crop))
	if err != nil {
		region.Status = types.StatusFailed
		region.Error = err.Error()
		return &types.InterpretationError{Region: region.Type, Page: region.Page, Err: err}
	}

	// 裁剪图落盘方便排查，会话目录删除时一起清掉
	if it.TmpDir != "" {
		cropPath := filepath.Join(it.TmpDir, fmt.Sprintf("crop_%s.png", uuid.New().String()))
		if werr := os.WriteFile(cropPath, data, 0o644); werr == nil {
			region.CropPath = cropPath
		}
	}

	if it.Model == nil {
		region.Status = types.StatusFailed
		region.Error = "vision model not configured"
		return &types.InterpretationError{Region: region.Type, Page: region.Page, Err: fmt.Errorf("no model")}
	}

	var content string
	err = it.Policy.Do(ctx, func() error {
		var derr error
		content, derr = describe(ctx, it.Model, data, systemPrompt, taskPrompt)
		return derr
	})
	if err != nil {
		// 重试耗尽：记录错误，区域标记 failed，整体继续
		region.Status = types.StatusFailed
		region.Error = err.Error()
		return &types.InterpretationError{Region: region.Type, Page: region.Page, Err: err}
	}

	region.Content = content
	region.Status = types.StatusProcessed
	return nil
}

func encodeCrop(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	return buf.Bytes(), nil
}
