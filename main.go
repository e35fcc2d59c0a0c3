package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"pdfvision/api/handler"
	"pdfvision/api/router"
	"pdfvision/job"
	"pdfvision/service"
	"pdfvision/storage/session"
	"pdfvision/vars"
)

func main() {
	// 1. 初始化会话存储（临时目录的唯一管理者）
	sessions := session.NewStore(vars.TEMP_ROOT)

	// 启动定时清理任务
	job.StartCronJob(sessions)

	// 2. 初始化 Service (业务层)
	pipelineSvc := service.NewPipelineService(sessions)

	// 3. 初始化 Handler (API 层)
	docHandler := handler.NewDocumentHandler(pipelineSvc, sessions)

	// 4. 启动 Web Server
	r := gin.Default()
	r.MaxMultipartMemory = int64(vars.MAX_UPLOAD_MB) << 20
	router.RegisterRoutes(r, docHandler)

	log.Println("Server running on", vars.LISTEN_ADDR)
	if err := r.Run(vars.LISTEN_ADDR); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
