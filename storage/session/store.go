// Package session 管理上传会话：每个会话一个临时目录（页渲染图和裁剪图都放里面），
// 会话删除时目录必须跟着删，这是临时文件生命周期的唯一出口。
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pdfvision/types"

	"github.com/google/uuid"
)

// Progress 处理进度，供前端轮询
type Progress struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Done    bool    `json:"done"`
}

type Session struct {
	ID        string
	TempDir   string
	CreatedAt time.Time

	mu       sync.RWMutex
	doc      *types.Document
	progress Progress
}

// SetProgress 更新当前进度
func (s *Session) SetProgress(stage string, percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = Progress{Stage: stage, Percent: percent, Done: percent >= 100}
}

func (s *Session) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// SetDocument 挂上处理完的文档，此后文档视为不可变
func (s *Session) SetDocument(doc *types.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
}

func (s *Session) Document() *types.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Store 内存会话表
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	root     string
}

func NewStore(root string) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		root:     root,
	}
}

// Create 新建会话并分配临时目录
func (st *Store) Create() (*Session, error) {
	id := uuid.New().String()
	dir := filepath.Join(st.root, "pdfvision_"+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session temp dir: %w", err)
	}
	sess := &Session{
		ID:        id,
		TempDir:   dir,
		CreatedAt: time.Now(),
	}
	st.mu.Lock()
	st.sessions[id] = sess
	st.mu.Unlock()
	return sess, nil
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// Delete 删除会话和它的临时目录，无论哪条路径退出都要走到这里
func (st *Store) Delete(id string) {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok && sess.TempDir != "" {
		if err := os.RemoveAll(sess.TempDir); err != nil {
			fmt.Printf("[Session] 清理临时目录失败 %s: %v\n", sess.TempDir, err)
		}
	}
}

// Sweep 删除超过 ttl 的会话，返回删掉的数量（兜底，防止泄漏临时文件）
func (st *Store) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	st.mu.RLock()
	var expired []string
	for id, sess := range st.sessions {
		if sess.CreatedAt.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	st.mu.RUnlock()
	for _, id := range expired {
		st.Delete(id)
	}
	return len(expired)
}
