package job

import (
	"fmt"
	"time"

	"pdfvision/storage/session"
	"pdfvision/vars"

	"github.com/robfig/cron/v3"
)

// StartCronJob 定时清理过期会话的临时目录（正常路径之外的兜底）
func StartCronJob(sessions *session.Store) {
	c := cron.New()

	_, err := c.AddFunc("@every 10m", func() {
		ttl := time.Duration(vars.SESSION_TTL_MIN) * time.Minute
		if n := sessions.Sweep(ttl); n > 0 {
			fmt.Printf("[Cron] 清理了 %d 个过期会话\n", n)
		}
	})
	if err != nil {
		fmt.Println("[Cron] Error:", err)
		return
	}

	c.Start()
}
