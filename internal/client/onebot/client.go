package onebot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/XBC-D2O/acpoke-plugin/internal/model"
)

// Config OneBot 客户端配置
type Config struct {
	// BaseURL OneBot 实现（NapCat / go-cqhttp 等）的 HTTP API 地址
	BaseURL string
	// AccessToken HTTP API 鉴权 token（可选）
	AccessToken string
	Enabled     bool
}

// Client OneBot HTTP API 客户端，承载戳一戳与会话消息发送
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient 创建 OneBot 客户端
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// OneBot HTTP API 通用响应：status=ok 且 retcode=0 表示成功
type apiResp struct {
	Status  string `json:"status"`
	Retcode int    `json:"retcode"`
	Message string `json:"message"`
	Wording string `json:"wording"`
}

// checkHTTPStatus 读取 body 并检查 HTTP 状态码；非 2xx 时直接返回错误（不解析 JSON），
// 避免网关/404 返回纯文本时 json.Unmarshal 报协议无关的错误。
// 约定：本包内所有 OneBot API 调用必须先通过 checkHTTPStatus，再对 body 做解析。
func (c *Client) checkHTTPStatus(resp *http.Response, apiName string) ([]byte, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", apiName, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: http status %d, body: %s", apiName, resp.StatusCode, string(b))
	}
	return b, nil
}

// call 调用一个 OneBot action，检查通用响应码
func (c *Client) call(ctx context.Context, action string, payload any) error {
	if !c.cfg.Enabled {
		return model.ErrTransportDisabled
	}
	url := c.cfg.BaseURL + "/" + action
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal payload: %w", action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	b, err := c.checkHTTPStatus(resp, action)
	if err != nil {
		return err
	}
	var result apiResp
	if err := json.Unmarshal(b, &result); err != nil {
		return fmt.Errorf("%s: parse response: %w, body: %s", action, err, string(b))
	}
	if result.Status != "ok" || result.Retcode != 0 {
		msg := result.Message
		if msg == "" {
			msg = result.Wording
		}
		return fmt.Errorf("%s: retcode=%d msg=%s", action, result.Retcode, msg)
	}
	return nil
}

// GroupPoke 向群内指定用户发送戳一戳（SEND_POKE 的群维度）
// display 为展示用注解（如 "[戳了戳 张三]"），随命令透传给宿主侧展示
func (c *Client) GroupPoke(ctx context.Context, groupID, userID, display string) (string, error) {
	payload := map[string]string{
		"group_id":        groupID,
		"user_id":         userID,
		"display_message": display,
	}
	if err := c.call(ctx, "group_poke", payload); err != nil {
		return "", err
	}
	return "SEND_POKE 已发送", nil
}

// FriendPoke 向好友发送戳一戳（SEND_POKE 的私聊维度）
func (c *Client) FriendPoke(ctx context.Context, userID, display string) (string, error) {
	payload := map[string]string{
		"user_id":         userID,
		"display_message": display,
	}
	if err := c.call(ctx, "friend_poke", payload); err != nil {
		return "", err
	}
	return "SEND_POKE 已发送", nil
}

// SendGroupMessage 发送群文本消息，仅用于调试诊断输出
func (c *Client) SendGroupMessage(ctx context.Context, groupID, text string) error {
	return c.call(ctx, "send_group_msg", map[string]string{
		"group_id": groupID,
		"message":  text,
	})
}

// SendPrivateMessage 发送私聊文本消息，仅用于调试诊断输出
func (c *Client) SendPrivateMessage(ctx context.Context, userID, text string) error {
	return c.call(ctx, "send_private_msg", map[string]string{
		"user_id": userID,
		"message": text,
	})
}
