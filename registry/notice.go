package registry

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// NoticeKind styles a banner.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient banner.
type Notice struct {
	Kind NoticeKind `json:"type"`
	Text string     `json:"text"`
	seq  uint64
}

// Notices holds a client's banners until they expire.
type Notices struct {
	mu    sync.Mutex
	seq   uint64
	items *cache.Cache
}

// NewNotices returns banners that dismiss themselves after ttl.
func NewNotices(ttl time.Duration) *Notices {
	// No janitor; expired banners are dropped on the next Post.
	return &Notices{items: cache.New(ttl, 0)}
}

// Post adds a banner. Posting to a nil Notices is a no-op.
func (n *Notices) Post(kind NoticeKind, text string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items.DeleteExpired()
	n.seq++
	n.items.SetDefault(strconv.FormatUint(n.seq, 10), Notice{Kind: kind, Text: text, seq: n.seq})
}

// Active returns the banners that have not expired, oldest first.
func (n *Notices) Active() []Notice {
	if n == nil {
		return nil
	}
	items := n.items.Items()
	out := make([]Notice, 0, len(items))
	for _, item := range items {
		if notice, ok := item.Object.(Notice); ok {
			out = append(out, notice)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
