package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/paiban-dev/roster-manager/backend/internal/domain"
)

const (
	breakdownCorner  = "日期 / 员工"
	breakdownNote    = "备注"
	weeklyTotalLabel = "每周合计"
)

// StaffHourTotals 统计视图中每个员工的总工时（小时）。
// 同一星期几在视图中出现几次就计几次，7 天视图中恰好各一次
func StaffHourTotals(view map[string][]domain.Duty) map[int64]float64 {
	totals := make(map[int64]float64)
	for _, duties := range view {
		for _, d := range duties {
			totals[d.StaffID] += DutyHours(d)
		}
	}
	return totals
}

// DailyBreakdown 生成交给 PDF 渲染器的表格：
// 第一行为表头（日期、每个员工一列、备注），之后每个日期一行，
// 单元格是该员工当天的各段值班加当天小计，最后一行为每周合计
func DailyBreakdown(dates []string, view map[string][]domain.Duty, notes map[string]string, staff []*domain.Staff) [][]string {
	header := make([]string, 0, len(staff)+2)
	header = append(header, breakdownCorner)
	for _, s := range staff {
		header = append(header, s.Name)
	}
	header = append(header, breakdownNote)

	grid := [][]string{header}
	totals := make(map[int64]float64, len(staff))

	for _, ds := range dates {
		d, err := time.Parse(DateLayout, ds)
		if err != nil {
			continue
		}
		row := make([]string, 0, len(staff)+2)
		row = append(row, fmt.Sprintf("%s, %s", WeekdayLabel(d.Weekday()), ds))

		for _, s := range staff {
			var cell strings.Builder
			daySum := 0.0
			for _, duty := range view[ds] {
				if duty.StaffID != s.ID {
					continue
				}
				cell.WriteString(duty.StartTime + "-" + duty.EndTime + "\n")
				daySum += DutyHours(duty)
			}
			if daySum > 0 {
				cell.WriteString(fmt.Sprintf("(%.1f h)", daySum))
			}
			totals[s.ID] += daySum
			row = append(row, cell.String())
		}

		row = append(row, notes[ds])
		grid = append(grid, row)
	}

	last := make([]string, 0, len(staff)+2)
	last = append(last, weeklyTotalLabel)
	for _, s := range staff {
		last = append(last, fmt.Sprintf("%.1f h", totals[s.ID]))
	}
	last = append(last, "")
	grid = append(grid, last)

	return grid
}

func dutyKey(d *domain.RosterDuty) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s", d.DutyDate, d.StaffID, d.StartTime, d.EndTime, d.Note)
}

// SameDutySet 判断两组归档行在 (日期, 员工, 开始, 结束, 备注)
// 意义下是否为同一个多重集合。归档前用它拒绝与最近一张
// 完全相同的重复排班表
func SameDutySet(a, b []*domain.RosterDuty) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, d := range a {
		counts[dutyKey(d)]++
	}
	for _, d := range b {
		counts[dutyKey(d)]--
		if counts[dutyKey(d)] < 0 {
			return false
		}
	}
	return true
}
