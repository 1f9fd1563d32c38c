package domain

import (
	"time"
)

type Staff struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	// MaxHours 为空时表示该员工没有每周工时上限
	MaxHours *float64 `json:"maxHours"`
	// 0 表示周日，6 表示周六，与 time.Weekday 一致
	UnavailableWeekdays []int32   `json:"unavailableWeekdays"`
	CreatedAt           time.Time `json:"createdAt"`
	Version             int32     `json:"-"`
}

// UnavailableOn 判断该员工在某个星期几是否不可排班
func (s *Staff) UnavailableOn(weekday time.Weekday) bool {
	for _, d := range s.UnavailableWeekdays {
		if d == int32(weekday) {
			return true
		}
	}
	return false
}
