package types

import "fmt"

// 错误分类：
//   InputError         上传无效（非 PDF、缺少凭证），对整个会话致命
//   RenderError        光栅化后端失败，对整个会话致命
//   SegmentationError  版面分析失败，可恢复（整页降级为单个 Text 区域）
//   InterpretationError 单个区域的 API 失败，可恢复（区域标记 failed，继续后面的区域）
//   ExportError        请求了未知的导出格式

type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("input error: %s: %v", e.Msg, e.Err)
	}
	return "input error: " + e.Msg
}

func (e *InputError) Unwrap() error { return e.Err }

type RenderError struct {
	Page int // 0 表示整个文档
	Err  error
}

func (e *RenderError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("render error on page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("render error: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

type SegmentationError struct {
	Page int
	Err  error
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("segmentation error on page %d: %v", e.Page, e.Err)
}

func (e *SegmentationError) Unwrap() error { return e.Err }

type InterpretationError struct {
	Region RegionType
	Page   int
	Err    error
}

func (e *InterpretationError) Error() string {
	return fmt.Sprintf("interpretation error (%s, page %d): %v", e.Region, e.Page, e.Err)
}

func (e *InterpretationError) Unwrap() error { return e.Err }

type ExportError struct {
	Format string
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error: unsupported format %q", e.Format)
}
