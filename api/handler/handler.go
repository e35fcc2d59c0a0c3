package handler

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"pdfvision/api/response"
	"pdfvision/logic/chat"
	"pdfvision/logic/export"
	"pdfvision/logic/render"
	"pdfvision/service"
	"pdfvision/storage/session"
	"pdfvision/types"
	"pdfvision/vars"

	"github.com/cloudwego/eino/components/model"
	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	pipeline *service.PipelineService
	sessions *session.Store

	// 视觉模型工厂，测试时替换
	newModel func(ctx context.Context, apiKey string) (model.ToolCallingChatModel, error)
}

func NewDocumentHandler(pipeline *service.PipelineService, sessions *session.Store) *DocumentHandler {
	return &DocumentHandler{
		pipeline: pipeline,
		sessions: sessions,
		newModel: chat.CreateVisionModel,
	}
}

// Upload 上传并同步处理一份 PDF
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, "文件上传失败，请检查参数名是否为 'file'")
		return
	}
	if fileHeader.Size > int64(vars.MAX_UPLOAD_MB)*1024*1024 {
		response.Fail(c, fmt.Sprintf("文件超过大小限制 (%dMB)", vars.MAX_UPLOAD_MB))
		return
	}

	opts := parseOptions(c)
	apiKey := c.PostForm("api_key")
	needModel := opts.ProcessImages || opts.ProcessFormulas

	fmt.Printf(">>> [DEBUG] 收到文件: %s, 大小: %d, 开关: %+v\n", fileHeader.Filename, fileHeader.Size, opts)

	src, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, "读取上传文件失败")
		return
	}
	pdfBytes, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		response.Fail(c, "读取上传文件失败")
		return
	}

	// 先校验再建会话：坏文件不留任何临时痕迹
	pageCount, err := render.Validate(pdfBytes)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}

	// 需要视觉模型时先把模型建好，凭证错误同样不留痕迹
	var chatModel model.ToolCallingChatModel
	if needModel {
		chatModel, err = h.newModel(c.Request.Context(), apiKey)
		if err != nil {
			response.Fail(c, "视觉模型初始化失败: "+err.Error())
			return
		}
	}

	sess, err := h.sessions.Create()
	if err != nil {
		response.Fail(c, "创建会话失败: "+err.Error())
		return
	}

	doc, err := h.pipeline.ProcessPDF(c.Request.Context(), sess, pdfBytes, fileHeader.Filename, opts, chatModel)
	if err != nil {
		// 致命错误：清掉会话和临时文件再报错
		h.sessions.Delete(sess.ID)
		response.Fail(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"session_id":   sess.ID,
		"document_id":  doc.ID,
		"page_count":   pageCount,
		"total_items":  len(doc.Content),
		"process_time": doc.ProcessTime.Seconds(),
		"status_count": statusCount(doc.Content),
	})
}

// Progress 轮询处理进度
func (h *DocumentHandler) Progress(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "会话不存在或已过期")
		return
	}
	response.Success(c, sess.Progress())
}

// Content 查看聚合后的内容列表
func (h *DocumentHandler) Content(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "会话不存在或已过期")
		return
	}
	doc := sess.Document()
	if doc == nil {
		response.Fail(c, "文档尚未处理完成")
		return
	}
	response.Success(c, gin.H{
		"document_id": doc.ID,
		"file_name":   doc.FileName,
		"page_count":  doc.PageCount,
		"content":     doc.Content,
	})
}

// Export 按格式下载导出产物
func (h *DocumentHandler) Export(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "会话不存在或已过期")
		return
	}
	doc := sess.Document()
	if doc == nil {
		response.Fail(c, "文档尚未处理完成")
		return
	}

	format := types.ExportFormat(c.DefaultQuery("format", string(types.FormatText)))
	data, contentType, ext, err := export.Export(doc, format)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="extracted_%s.%s"`, doc.FileName, ext))
	c.Data(200, contentType, data)
}

// Reset 显式丢弃会话，临时文件立刻清理
func (h *DocumentHandler) Reset(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.sessions.Get(id); !ok {
		response.NotFound(c, "会话不存在或已过期")
		return
	}
	h.sessions.Delete(id)
	response.Success(c, gin.H{"deleted": id})
}

// parseOptions 表单里的功能开关，默认全开
func parseOptions(c *gin.Context) types.Options {
	opts := types.Options{
		ProcessImages:   parseBool(c.DefaultPostForm("process_images", "true")),
		ProcessFormulas: parseBool(c.DefaultPostForm("process_formulas", "true")),
		ProcessTables:   parseBool(c.DefaultPostForm("process_tables", "true")),
		DPI:             vars.DefaultDPI,
	}
	if v := c.PostForm("dpi"); v != "" {
		if dpi, err := strconv.Atoi(v); err == nil && dpi >= vars.MinDPI && dpi <= vars.MaxDPI {
			opts.DPI = dpi
		}
	}
	return opts
}

func parseBool(v string) bool {
	switch v {
	case "false", "0", "off", "no":
		return false
	}
	return true
}

func statusCount(content []*types.Region) map[string]int {
	counts := make(map[string]int)
	for _, r := range content {
		counts[r.Status]++
	}
	return counts
}
