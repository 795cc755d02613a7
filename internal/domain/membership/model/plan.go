package model

import (
	baseModel "course_platform/pkg/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 有效期单位
const (
	UnitDay   = "DAY"
	UnitWeek  = "WEEK"
	UnitMonth = "MONTH"
	UnitYear  = "YEAR"
)

var unitDays = map[string]int{
	UnitDay:   1,
	UnitWeek:  7,
	UnitMonth: 30,
	UnitYear:  365,
}

// Plan 会员套餐
type Plan struct {
	baseModel.BaseModel
	Name          string           `gorm:"type:varchar(50);not null" json:"name"`
	Level         int              `gorm:"not null;default:1" json:"level"`
	Price         decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"price"`
	OriginalPrice *decimal.Decimal `gorm:"type:numeric(10,2)" json:"original_price,omitempty"`
	DurationUnit  string           `gorm:"type:varchar(10);not null;default:MONTH" json:"duration_unit"`
	DurationValue int              `gorm:"not null;default:1" json:"duration_value"`
	DurationDays  int              `gorm:"not null;default:30" json:"duration_days"`
	Description   string           `gorm:"type:text" json:"description"`
	IsActive      bool             `gorm:"not null;default:true" json:"is_active"`
}

func (Plan) TableName() string {
	return "membership_plans"
}

// NormalizeDuration 按单位与数值换算天数
func (p *Plan) NormalizeDuration() {
	if p.DurationUnit == "" || p.DurationValue <= 0 {
		return
	}
	mul, ok := unitDays[p.DurationUnit]
	if !ok {
		mul = 1
	}
	p.DurationDays = p.DurationValue * mul
}

// BeforeSave 保存前换算天数
func (p *Plan) BeforeSave(tx *gorm.DB) error {
	p.NormalizeDuration()
	return nil
}

// ValidUnit 校验有效期单位
func ValidUnit(unit string) bool {
	_, ok := unitDays[unit]
	return ok
}
