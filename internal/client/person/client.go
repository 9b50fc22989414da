package person

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/XBC-D2O/acpoke-plugin/internal/model"
)

// Config 人员 API 客户端配置
type Config struct {
	// BaseURL 宿主人员信息服务地址
	BaseURL string
	// Token API 鉴权 token（可选）
	Token string
}

// Client 人员 API 客户端：显示名 → person_id → 平台属性（如 user_id）
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient 创建人员 API 客户端
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// 人员 API 通用响应
type personResp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		PersonID string `json:"person_id"`
		Value    string `json:"value"`
	} `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, apiName string) (*personResp, error) {
	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", apiName, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: http status %d, body: %s", apiName, resp.StatusCode, string(b))
	}
	var result personResp
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("%s: parse response: %w, body: %s", apiName, err, string(b))
	}
	if result.Code != 0 {
		return nil, fmt.Errorf("%s: code=%d msg=%s", apiName, result.Code, result.Msg)
	}
	return &result, nil
}

// GetPersonIDByName 按显示名查询 person_id；查无此人返回 ErrPersonNotFound
func (c *Client) GetPersonIDByName(ctx context.Context, name string) (string, error) {
	query := url.Values{}
	query.Set("name", name)
	result, err := c.get(ctx, "/api/v1/persons/resolve", query, "person resolve")
	if err != nil {
		return "", err
	}
	if result.Data.PersonID == "" {
		return "", fmt.Errorf("%w: %s", model.ErrPersonNotFound, name)
	}
	return result.Data.PersonID, nil
}

// GetPersonValue 查询指定 person 的平台属性值（如 key="user_id" 取 QQ 号）
func (c *Client) GetPersonValue(ctx context.Context, personID, key string) (string, error) {
	query := url.Values{}
	query.Set("key", key)
	result, err := c.get(ctx, "/api/v1/persons/"+url.PathEscape(personID)+"/value", query, "person value")
	if err != nil {
		return "", err
	}
	return result.Data.Value, nil
}
