package roster

import (
	"testing"

	"github.com/paiban-dev/roster-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffHourTotals(t *testing.T) {
	view := map[string][]domain.Duty{
		"2025-03-03": {
			{StaffID: 1, StartTime: "09:00", EndTime: "12:00"},
			{StaffID: 1, StartTime: "13:00", EndTime: "17:00"},
		},
		"2025-03-04": {
			{StaffID: 2, StartTime: "10:15", EndTime: "12:45"},
		},
		"2025-03-05": {},
	}

	totals := StaffHourTotals(view)
	assert.InDelta(t, 7.0, totals[1], 1e-9)
	assert.InDelta(t, 2.5, totals[2], 1e-9)
}

func TestDailyBreakdown(t *testing.T) {
	dates := []string{"2025-03-03", "2025-03-04"}
	view := map[string][]domain.Duty{
		"2025-03-03": {
			{StaffID: 1, StartTime: "09:00", EndTime: "12:00"},
			{StaffID: 1, StartTime: "13:00", EndTime: "17:00"},
			{StaffID: 2, StartTime: "12:00", EndTime: "16:00"},
		},
		"2025-03-04": {
			{StaffID: 2, StartTime: "08:00", EndTime: "12:30"},
		},
	}
	notes := map[string]string{"2025-03-04": "送货日"}
	staff := []*domain.Staff{
		{ID: 1, Name: "陈晓芳"},
		{ID: 2, Name: "李建国"},
	}

	grid := DailyBreakdown(dates, view, notes, staff)
	require.Len(t, grid, 4) // 表头 + 两个日期 + 每周合计

	t.Run("表头", func(t *testing.T) {
		assert.Equal(t, []string{"日期 / 员工", "陈晓芳", "李建国", "备注"}, grid[0])
	})

	t.Run("日期行", func(t *testing.T) {
		require.Len(t, grid[1], 4)
		assert.Equal(t, "周一, 2025-03-03", grid[1][0])
		assert.Equal(t, "09:00-12:00\n13:00-17:00\n(7.0 h)", grid[1][1])
		assert.Equal(t, "12:00-16:00\n(4.0 h)", grid[1][2])
		assert.Equal(t, "", grid[1][3])

		assert.Equal(t, "周二, 2025-03-04", grid[2][0])
		assert.Equal(t, "", grid[2][1]) // 当天没有值班的员工格子留空
		assert.Equal(t, "08:00-12:30\n(4.5 h)", grid[2][2])
		assert.Equal(t, "送货日", grid[2][3])
	})

	t.Run("每周合计", func(t *testing.T) {
		assert.Equal(t, []string{"每周合计", "7.0 h", "8.5 h", ""}, grid[3])
	})
}

func TestSameDutySet(t *testing.T) {
	base := []*domain.RosterDuty{
		{DutyDate: "2025-03-03", StaffID: 1, StartTime: "08:00", EndTime: "12:00", Note: ""},
		{DutyDate: "2025-03-04", StaffID: 2, StartTime: "14:00", EndTime: "18:00", Note: "送货日"},
	}

	t.Run("顺序无关", func(t *testing.T) {
		shuffled := []*domain.RosterDuty{base[1], base[0]}
		assert.True(t, SameDutySet(base, shuffled))
	})

	t.Run("姓名快照不参与比较", func(t *testing.T) {
		renamed := []*domain.RosterDuty{
			{DutyDate: "2025-03-03", StaffID: 1, StaffName: "改名后", StartTime: "08:00", EndTime: "12:00"},
			{DutyDate: "2025-03-04", StaffID: 2, StartTime: "14:00", EndTime: "18:00", Note: "送货日"},
		}
		assert.True(t, SameDutySet(base, renamed))
	})

	t.Run("数量不同", func(t *testing.T) {
		assert.False(t, SameDutySet(base, base[:1]))
	})

	t.Run("备注不同", func(t *testing.T) {
		changed := []*domain.RosterDuty{
			base[0],
			{DutyDate: "2025-03-04", StaffID: 2, StartTime: "14:00", EndTime: "18:00", Note: ""},
		}
		assert.False(t, SameDutySet(base, changed))
	})

	t.Run("重复记录按出现次数比较", func(t *testing.T) {
		doubled := []*domain.RosterDuty{base[0], base[0]}
		mixed := []*domain.RosterDuty{base[0], base[1]}
		assert.False(t, SameDutySet(doubled, mixed))
	})
}
