package roster

import (
	"time"

	"github.com/paiban-dev/roster-manager/backend/internal/domain"
)

// Template 按星期几保存循环值班安排，是排班的唯一事实来源。
// 列表保持插入顺序，增删改都以稳定的下标引用记录，
// 外部只应通过 Planner 的操作来修改它
type Template struct {
	days [7][]domain.Duty
}

func NewTemplate() *Template {
	return &Template{}
}

func (t *Template) Add(day time.Weekday, d domain.Duty) {
	t.days[day] = append(t.days[day], d)
}

func (t *Template) Duty(day time.Weekday, index int) (domain.Duty, error) {
	if index < 0 || index >= len(t.days[day]) {
		return domain.Duty{}, ErrIndexOutOfRange
	}
	return t.days[day][index], nil
}

func (t *Template) Update(day time.Weekday, index int, d domain.Duty) error {
	if index < 0 || index >= len(t.days[day]) {
		return ErrIndexOutOfRange
	}
	t.days[day][index] = d
	return nil
}

func (t *Template) Remove(day time.Weekday, index int) error {
	if index < 0 || index >= len(t.days[day]) {
		return ErrIndexOutOfRange
	}
	t.days[day] = append(t.days[day][:index], t.days[day][index+1:]...)
	return nil
}

// PurgeStaff 删除所有星期几中引用该员工的值班记录，
// 在员工档案被删除时级联调用
func (t *Template) PurgeStaff(staffID int64) {
	for day := range t.days {
		kept := t.days[day][:0]
		for _, d := range t.days[day] {
			if d.StaffID != staffID {
				kept = append(kept, d)
			}
		}
		t.days[day] = kept
	}
}

func (t *Template) Reset() {
	for day := range t.days {
		t.days[day] = nil
	}
}

// Duties 返回某个星期几的值班列表副本
func (t *Template) Duties(day time.Weekday) []domain.Duty {
	out := make([]domain.Duty, len(t.days[day]))
	copy(out, t.days[day])
	return out
}

// Snapshot 返回整个模板的深拷贝，用于展开周视图和测试比对
func (t *Template) Snapshot() [7][]domain.Duty {
	var out [7][]domain.Duty
	for day := range t.days {
		out[day] = make([]domain.Duty, len(t.days[day]))
		copy(out[day], t.days[day])
	}
	return out
}

// HourTotals 统计整个模板中每个员工的每周工时（小时）。
// 工时上限检查针对整个模板而不是当前视图
func (t *Template) HourTotals() map[int64]float64 {
	totals := make(map[int64]float64)
	for day := range t.days {
		for _, d := range t.days[day] {
			totals[d.StaffID] += DutyHours(d)
		}
	}
	return totals
}
