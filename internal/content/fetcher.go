package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxDocumentSize 单个描述文档的大小上限
const maxDocumentSize = 1 << 20

var (
	// ErrDocumentNotFound 网关返回 404
	ErrDocumentNotFound = errors.New("content document not found")
	// ErrInvalidDocument 文档不是合法的描述 JSON，重试也不会成功
	ErrInvalidDocument = errors.New("invalid content document")
)

// Document 链下描述文档
type Document struct {
	Title           string   `json:"title"`
	About           string   `json:"about"`
	StartDate       Text     `json:"startDate"`
	ExpectedEndDate Text     `json:"expectedEndDate"`
	ExpectedHours   Text     `json:"expectedHours"`
	Keywords        Keywords `json:"keywords"`
	VideoURL        string   `json:"video_url"`
}

// Text 字符串字段，文档里写成数字时按原文保留
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*t = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", raw)
	}
	*t = Text(n.String())
	return nil
}

// Keywords 兼容逗号分隔字符串和字符串数组两种写法
type Keywords []string

func (k *Keywords) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*k = splitKeywords(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("keywords: %w", err)
	}
	*k = splitKeywords(strings.Join(list, ","))
	return nil
}

// Raw 逗号拼接后的关键字
func (k Keywords) Raw() string {
	return strings.Join(k, ",")
}

func splitKeywords(raw string) Keywords {
	var out Keywords
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Fetcher 按 cid 获取描述文档
type Fetcher interface {
	Fetch(ctx context.Context, cid string) (*Document, error)
}

// GatewayFetcher 通过 IPFS HTTP 网关获取文档
type GatewayFetcher struct {
	gateway string
	client  *http.Client
	limiter *rate.Limiter
}

// NewGatewayFetcher 创建网关抓取器，rps<=0 时不限速
func NewGatewayFetcher(gateway string, timeout time.Duration, rps float64) *GatewayFetcher {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &GatewayFetcher{
		gateway: strings.TrimRight(gateway, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch 获取并解析文档
func (f *GatewayFetcher) Fetch(ctx context.Context, cid string) (*Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.gateway+"/"+cid, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", cid, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", cid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", cid, ErrDocumentNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", cid, resp.StatusCode)
	}

	var doc Document
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", cid, ErrInvalidDocument, err)
	}
	return &doc, nil
}
