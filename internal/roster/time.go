package roster

import (
	"time"

	"github.com/paiban-dev/roster-manager/backend/internal/domain"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// 值班时间必须落在 15 分钟的网格上
	gridMinutes = 15
)

var weekdayLabels = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

func WeekdayLabel(day time.Weekday) string {
	return weekdayLabels[day]
}

// minutesOfDay 把 HH:MM 格式的时间解析为当天的分钟数。
// 只接受两位小时的规范写法，"8:00" 这类形式会破坏按字符串
// 比较的归档去重和表格单元格，必须在这里拒绝
func minutesOfDay(s string) (int, bool) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil || t.Format(TimeLayout) != s {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func dutyMinutes(d domain.Duty) int {
	start, _ := minutesOfDay(d.StartTime)
	end, _ := minutesOfDay(d.EndTime)
	return end - start
}

// DutyHours 返回一段值班的时长（小时）
func DutyHours(d domain.Duty) float64 {
	return float64(dutyMinutes(d)) / 60.0
}
