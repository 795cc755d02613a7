package push

import (
	"testing"

	"course_platform/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewFallsBackToLogPusher(t *testing.T) {
	p := New(config.PushConfig{}, zap.NewNop())

	_, ok := p.(*LogPusher)
	assert.True(t, ok)
	assert.NoError(t, p.PushToAccount("u1", "title", "body", map[string]string{"orderNo": "VIP1"}))
}

func TestNewAliyunPushServiceRequiresConfig(t *testing.T) {
	_, err := NewAliyunPushService(config.PushConfig{AccessKeyID: "ak"})
	assert.Error(t, err)
}
