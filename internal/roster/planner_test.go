package roster

import (
	"testing"
	"time"

	"github.com/paiban-dev/roster-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staffDirectoryStub struct {
	staff []*domain.Staff
}

func (s *staffDirectoryStub) GetAllStaff() ([]*domain.Staff, error) {
	return s.staff, nil
}

func maxHours(h float64) *float64 {
	return &h
}

// 2025-03-03 是周一
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func newTestPlanner(t *testing.T, staff ...*domain.Staff) (*Planner, *staffDirectoryStub) {
	t.Helper()
	dir := &staffDirectoryStub{staff: staff}
	p, err := NewPlanner(dir, DefaultWindow)
	require.NoError(t, err)
	return p, dir
}

func TestNewPlannerWindowValidation(t *testing.T) {
	dir := &staffDirectoryStub{}

	tests := []struct {
		name   string
		window Window
		ok     bool
	}{
		{"默认窗口", DefaultWindow, true},
		{"起点格式错误", Window{Start: "5:15", End: "20:15"}, false},
		{"终点不在网格上", Window{Start: "05:15", End: "20:10"}, false},
		{"起点晚于终点", Window{Start: "20:15", End: "05:15"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlanner(dir, tt.window)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPlannerMaterializeDeterminism(t *testing.T) {
	p, _ := newTestPlanner(t, &domain.Staff{ID: 1, Name: "陈晓芳"})
	p.Materialize(monday)

	_, err := p.AddDuty("2025-03-03", 1, "08:00", "12:00")
	require.NoError(t, err)
	_, err = p.AddDuty("2025-03-05", 1, "14:00", "18:00")
	require.NoError(t, err)

	first := p.View()
	p.Materialize(monday)
	second := p.View()

	assert.Equal(t, first, second)
	assert.Equal(t, "2025-03-09", p.EndDate().Format(DateLayout))
	assert.Equal(t, []string{
		"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06",
		"2025-03-07", "2025-03-08", "2025-03-09",
	}, p.Dates())
}

func TestPlannerWeekdayPropagation(t *testing.T) {
	p, _ := newTestPlanner(t, &domain.Staff{ID: 1, Name: "陈晓芳"})
	p.Materialize(monday)

	warnings, err := p.AddDuty("2025-03-03", 1, "08:00", "12:00")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	t.Run("只有本周的周一出现这条值班", func(t *testing.T) {
		view := p.View()
		require.Len(t, view["2025-03-03"], 1)
		for _, ds := range p.Dates()[1:] {
			assert.Empty(t, view[ds], ds)
		}
	})

	t.Run("换一周展开后出现在新的周一上", func(t *testing.T) {
		p.Materialize(monday.AddDate(0, 0, 7))
		view := p.View()
		require.Len(t, view["2025-03-10"], 1)
		assert.Equal(t, domain.Duty{StaffID: 1, StartTime: "08:00", EndTime: "12:00"}, view["2025-03-10"][0])
		for _, ds := range p.Dates()[1:] {
			assert.Empty(t, view[ds], ds)
		}
	})
}

func TestPlannerAddDutyValidation(t *testing.T) {
	p, _ := newTestPlanner(t, &domain.Staff{ID: 1, Name: "陈晓芳"})
	p.Materialize(monday)

	_, err := p.AddDuty("2025-03-03", 1, "08:00", "12:00")
	require.NoError(t, err)

	before := p.TemplateSnapshot()

	tests := []struct {
		name    string
		date    string
		start   string
		end     string
		wantErr error
	}{
		{"结束时间早于开始时间", "2025-03-03", "12:00", "08:00", ErrInvalidTimeRange},
		{"结束时间等于开始时间", "2025-03-03", "08:00", "08:00", ErrInvalidTimeRange},
		{"不在 15 分钟网格上", "2025-03-03", "08:05", "12:00", ErrInvalidTimeRange},
		{"早于窗口起点", "2025-03-03", "05:00", "08:00", ErrInvalidTimeRange},
		{"晚于窗口终点", "2025-03-03", "18:00", "20:30", ErrInvalidTimeRange},
		{"开始时间格式错误", "2025-03-03", "八点", "12:00", ErrInvalidTimeRange},
		{"小时必须写成两位", "2025-03-03", "8:00", "12:00", ErrInvalidTimeRange},
		{"结束时间小时必须写成两位", "2025-03-03", "08:00", "9:00", ErrInvalidTimeRange},
		{"日期不在本周内", "2025-04-01", "08:00", "12:00", ErrDateOutsideWeek},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.AddDuty(tt.date, 1, tt.start, tt.end)
			assert.ErrorIs(t, err, tt.wantErr)
			// 被拒绝的写入不能在模板上留下任何痕迹
			assert.Equal(t, before, p.TemplateSnapshot())
		})
	}
}

func TestPlannerMaxHoursAdvisory(t *testing.T) {
	p, _ := newTestPlanner(t, &domain.Staff{ID: 1, Name: "刘志强", MaxHours: maxHours(10)})
	p.Materialize(monday)

	// 先排 8 小时，不触发提示
	warnings, err := p.AddDuty("2025-03-03", 1, "08:00", "16:00")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// 再排 4 小时，超过 10 小时上限：写入成功但附带提示
	warnings, err = p.AddDuty("2025-03-05", 1, "08:00", "12:00")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnMaxHoursExceeded, warnings[0].Code)

	totals := p.TemplateHourTotals()
	assert.InDelta(t, 12.0, totals[1], 1e-9)
}

func TestPlannerUnavailableAdvisory(t *testing.T) {
	p, _ := newTestPlanner(t,
		&domain.Staff{ID: 1, Name: "王丽娟", UnavailableWeekdays: []int32{0}},
	)
	p.Materialize(monday)

	t.Run("周日没有任何可排班的员工", func(t *testing.T) {
		available, err := p.AvailableStaff(time.Sunday)
		require.NoError(t, err)
		assert.Empty(t, available)
	})

	t.Run("其他日子正常返回", func(t *testing.T) {
		available, err := p.AvailableStaff(time.Monday)
		require.NoError(t, err)
		assert.Len(t, available, 1)
	})

	t.Run("强行在周日排班会得到提示但仍然成功", func(t *testing.T) {
		warnings, err := p.AddDuty("2025-03-09", 1, "09:00", "13:00")
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Equal(t, WarnStaffUnavailable, warnings[0].Code)
		assert.Len(t, p.View()["2025-03-09"], 1)
	})
}

func TestPlannerEditDutyNetDelta(t *testing.T) {
	p, _ := newTestPlanner(t, &domain.Staff{ID: 1, Name: "刘志强", MaxHours: maxHours(10)})
	p.Materialize(monday)

	_, err := p.AddDuty("2025-03-03", 1, "08:00", "16:00")
	require.NoError(t, err)

	// 8 小时改成 10 小时，正好到上限，不提示
	warnings, err := p.EditDuty("2025-03-03", 0, 1, "06:00", "16:00")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// 再改成 10.75 小时，超过上限
	warnings, err = p.EditDuty("2025-03-03", 0, 1, "06:00", "16:45")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnMaxHoursExceeded, warnings[0].Code)
}

func TestPlannerRemoveDuty(t *testing.T) {
	p, _ := newTestPlanner(t, &domain.Staff{ID: 1, Name: "陈晓芳"})
	p.Materialize(monday)

	_, err := p.AddDuty("2025-03-03", 1, "08:00", "12:00")
	require.NoError(t, err)
	_, err = p.AddDuty("2025-03-03", 1, "14:00", "18:00")
	require.NoError(t, err)

	require.NoError(t, p.RemoveDuty("2025-03-03", 0))

	view := p.View()
	require.Len(t, view["2025-03-03"], 1)
	assert.Equal(t, "14:00", view["2025-03-03"][0].StartTime)

	assert.ErrorIs(t, p.RemoveDuty("2025-03-03", 5), ErrIndexOutOfRange)
	assert.ErrorIs(t, p.RemoveDuty("2024-01-01", 0), ErrDateOutsideWeek)
}

func TestPlannerNotesSurviveRematerialization(t *testing.T) {
	p, _ := newTestPlanner(t, &domain.Staff{ID: 1, Name: "陈晓芳"})
	p.Materialize(monday)

	p.SetNote("2025-03-04", "盘点日，晚班提前交接")

	p.Materialize(monday.AddDate(0, 0, 14))
	assert.Equal(t, "盘点日，晚班提前交接", p.Notes()["2025-03-04"])

	p.StartNew()
	assert.Empty(t, p.Notes())
}

func TestPlannerStaffRename(t *testing.T) {
	member := &domain.Staff{ID: 7, Name: "张三"}
	p, dir := newTestPlanner(t, member)
	p.Materialize(monday)

	_, err := p.AddDuty("2025-03-03", 7, "08:00", "12:00")
	require.NoError(t, err)

	// 改名后值班仍然挂在同一个员工 ID 上
	dir.staff[0] = &domain.Staff{ID: 7, Name: "张小三"}

	totals := p.TemplateHourTotals()
	assert.InDelta(t, 4.0, totals[7], 1e-9)

	entries := p.Entries(map[int64]string{7: "张小三"})
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].StaffID)
	assert.Equal(t, "张小三", entries[0].StaffName)
}

func TestPlannerPurgeStaffCascade(t *testing.T) {
	p, _ := newTestPlanner(t,
		&domain.Staff{ID: 1, Name: "陈晓芳"},
		&domain.Staff{ID: 2, Name: "李建国"},
	)
	p.Materialize(monday)

	_, err := p.AddDuty("2025-03-03", 1, "08:00", "12:00")
	require.NoError(t, err)
	_, err = p.AddDuty("2025-03-05", 1, "08:00", "12:00")
	require.NoError(t, err)
	_, err = p.AddDuty("2025-03-05", 2, "12:00", "16:00")
	require.NoError(t, err)

	p.PurgeStaff(1)

	for ds, duties := range p.View() {
		for _, d := range duties {
			assert.NotEqual(t, int64(1), d.StaffID, ds)
		}
	}
	assert.Len(t, p.View()["2025-03-05"], 1)
}

func TestPlannerLoadRoundTrip(t *testing.T) {
	names := map[int64]string{1: "陈晓芳", 2: "李建国"}
	p, _ := newTestPlanner(t, &domain.Staff{ID: 1, Name: "陈晓芳"}, &domain.Staff{ID: 2, Name: "李建国"})
	p.Materialize(monday)

	_, err := p.AddDuty("2025-03-03", 1, "08:00", "12:00")
	require.NoError(t, err)
	_, err = p.AddDuty("2025-03-04", 2, "14:00", "18:00")
	require.NoError(t, err)
	_, err = p.AddDuty("2025-03-09", 1, "09:00", "13:00")
	require.NoError(t, err)
	p.SetNote("2025-03-04", "供应商到店")

	saved := p.Entries(names)

	restored, _ := newTestPlanner(t, &domain.Staff{ID: 1, Name: "陈晓芳"}, &domain.Staff{ID: 2, Name: "李建国"})
	require.NoError(t, restored.Load("2025-03-03", saved))

	// 归档行集合在 (日期, 员工, 开始, 结束, 备注) 意义下完全一致
	assert.True(t, SameDutySet(saved, restored.Entries(names)))
	assert.Equal(t, "2025-03-03", restored.StartDate().Format(DateLayout))
	assert.Equal(t, "供应商到店", restored.Notes()["2025-03-04"])
	assert.Equal(t, p.View(), restored.View())
}
