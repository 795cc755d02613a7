package push

import (
	"encoding/json"
	"fmt"

	"course_platform/internal/pkg/config"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
	"go.uber.org/zap"
)

// Pusher 消息推送
type Pusher interface {
	PushToAccount(accountID string, title, body string, extParameters map[string]string) error
}

type AliyunPushService struct {
	client *push.Client
	appKey int64
}

func NewAliyunPushService(cfg config.PushConfig) (*AliyunPushService, error) {
	if cfg.AccessKeyID == "" || cfg.AppKey == 0 {
		return nil, fmt.Errorf("push config is missing")
	}

	client, err := push.NewClientWithAccessKey(
		cfg.RegionID,
		cfg.AccessKeyID,
		cfg.AccessKeySecret,
	)
	if err != nil {
		return nil, err
	}

	return &AliyunPushService{
		client: client,
		appKey: cfg.AppKey,
	}, nil
}

// PushToAccount 按账号推送，账号即用户ID
func (s *AliyunPushService) PushToAccount(accountID string, title, body string, extParameters map[string]string) error {
	request := push.CreatePushRequest()
	request.AppKey = requests.NewInteger(int(s.appKey))
	request.Target = "ACCOUNT"
	request.TargetValue = accountID
	request.Title = title
	request.Body = body
	request.DeviceType = "ALL"  // iOS & Android
	request.PushType = "NOTICE" // 通知

	if len(extParameters) > 0 {
		extJSON, err := json.Marshal(extParameters)
		if err != nil {
			return fmt.Errorf("marshal ext parameters: %w", err)
		}
		request.AndroidExtParameters = string(extJSON)
		request.IOSExtParameters = string(extJSON)
	}

	resp, err := s.client.Push(request)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("push rejected: status %d", resp.GetHttpStatus())
	}
	return nil
}

// LogPusher 未配置推送时使用，只记录日志
type LogPusher struct {
	log *zap.Logger
}

func NewLogPusher(log *zap.Logger) *LogPusher {
	return &LogPusher{log: log}
}

func (p *LogPusher) PushToAccount(accountID string, title, body string, extParameters map[string]string) error {
	p.log.Info("push skipped, no provider configured",
		zap.String("account", accountID),
		zap.String("title", title),
		zap.Any("ext", extParameters))
	return nil
}

// New 按配置选择推送实现
func New(cfg config.PushConfig, log *zap.Logger) Pusher {
	svc, err := NewAliyunPushService(cfg)
	if err != nil {
		log.Warn("aliyun push disabled", zap.Error(err))
		return NewLogPusher(log)
	}
	return svc
}
