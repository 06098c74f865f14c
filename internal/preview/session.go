package preview

import (
	"fmt"
	"sync"
	"time"

	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultSessionTTL 预览会话闲置多久后过期
const DefaultSessionTTL = 30 * time.Minute

// Session 一次打开的预览
type Session struct {
	ID       string
	Document models.Document

	mu  sync.Mutex
	nav *Navigator
}

// Do 在会话锁内操作翻页状态
func (s *Session) Do(fn func(nav *Navigator)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.nav)
}

// Render 按展示方式渲染当前状态
func (s *Session) Render(layout Layout, extractionLimit int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Render(layout, s.Document, s.nav, extractionLimit)
}

// SessionManager 管理打开的预览会话
// 关闭预览即丢弃状态，再次打开从第一页开始
type SessionManager struct {
	sessions *gocache.Cache
	ttl      time.Duration
}

// NewSessionManager 创建会话管理器，ttl<=0时使用默认值
func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		sessions: gocache.New(ttl, ttl/2),
		ttl:      ttl,
	}
}

// Open 为文档打开新的预览会话
func (m *SessionManager) Open(doc models.Document) *Session {
	s := &Session{
		ID:       uuid.New().String(),
		Document: doc,
		nav:      NewNavigator(doc.PageCount()),
	}
	m.sessions.Set(s.ID, s, m.ttl)
	return s
}

// Get 获取会话并刷新过期时间
func (m *SessionManager) Get(id string) (*Session, error) {
	value, found := m.sessions.Get(id)
	if !found {
		return nil, fmt.Errorf("%w: %s", models.ErrPreviewNotFound, id)
	}
	s := value.(*Session)
	m.sessions.Set(id, s, m.ttl)
	return s, nil
}

// Close 关闭会话
func (m *SessionManager) Close(id string) error {
	if _, found := m.sessions.Get(id); !found {
		return fmt.Errorf("%w: %s", models.ErrPreviewNotFound, id)
	}
	m.sessions.Delete(id)
	return nil
}

// Count 当前打开的会话数量
func (m *SessionManager) Count() int {
	return m.sessions.ItemCount()
}
