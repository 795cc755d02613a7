package model

import (
	"time"

	baseModel "course_platform/pkg/model"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = 0
	RoleAdmin = 1
)

const (
	StatusNormal  = 0
	StatusBanned  = 1
	StatusDeleted = 2
)

// User 用户模型
// 账号字段由认证服务维护；会员权益字段（Level / MembershipExpireAt / Reference*）
// 只允许在订单支付成功与退款两个流转中写入
type User struct {
	baseModel.BaseModel
	Mobile   string `gorm:"type:varchar(20);uniqueIndex" json:"mobile"`
	Nickname string `gorm:"type:varchar(64)" json:"nickname"`
	Role     int    `gorm:"default:0" json:"role"`
	Status   int    `gorm:"default:0" json:"status"`

	Level                     int             `gorm:"not null;default:0" json:"level"`
	MembershipExpireAt        *time.Time      `json:"membership_expire_at"`
	MembershipReferenceAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"membership_reference_amount"`
	MembershipReferenceDays   int             `gorm:"not null;default:0" json:"membership_reference_days"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsMemberActive 会员是否在有效期内
func (u *User) IsMemberActive(now time.Time) bool {
	return u.MembershipExpireAt != nil && u.MembershipExpireAt.After(now)
}
