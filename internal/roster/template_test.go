package roster

import (
	"testing"
	"time"

	"github.com/paiban-dev/roster-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateIndexStability(t *testing.T) {
	tpl := NewTemplate()
	first := domain.Duty{StaffID: 1, StartTime: "08:00", EndTime: "12:00"}
	second := domain.Duty{StaffID: 2, StartTime: "12:00", EndTime: "16:00"}
	third := domain.Duty{StaffID: 3, StartTime: "16:00", EndTime: "20:00"}

	tpl.Add(time.Monday, first)
	tpl.Add(time.Monday, second)
	tpl.Add(time.Monday, third)

	t.Run("更新不改变其余记录的下标", func(t *testing.T) {
		replaced := domain.Duty{StaffID: 4, StartTime: "12:00", EndTime: "18:00"}
		require.NoError(t, tpl.Update(time.Monday, 1, replaced))

		got, err := tpl.Duty(time.Monday, 0)
		require.NoError(t, err)
		assert.Equal(t, first, got)

		got, err = tpl.Duty(time.Monday, 1)
		require.NoError(t, err)
		assert.Equal(t, replaced, got)

		got, err = tpl.Duty(time.Monday, 2)
		require.NoError(t, err)
		assert.Equal(t, third, got)
	})

	t.Run("删除后后续记录前移", func(t *testing.T) {
		require.NoError(t, tpl.Remove(time.Monday, 1))

		duties := tpl.Duties(time.Monday)
		require.Len(t, duties, 2)
		assert.Equal(t, first, duties[0])
		assert.Equal(t, third, duties[1])
	})
}

func TestTemplateIndexOutOfRange(t *testing.T) {
	tpl := NewTemplate()
	tpl.Add(time.Friday, domain.Duty{StaffID: 1, StartTime: "08:00", EndTime: "12:00"})

	before := tpl.Snapshot()

	assert.ErrorIs(t, tpl.Update(time.Friday, 1, domain.Duty{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, tpl.Update(time.Friday, -1, domain.Duty{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, tpl.Remove(time.Friday, 1), ErrIndexOutOfRange)
	assert.ErrorIs(t, tpl.Remove(time.Saturday, 0), ErrIndexOutOfRange)

	_, err := tpl.Duty(time.Friday, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	// 失败的操作不应该留下任何修改
	assert.Equal(t, before, tpl.Snapshot())
}

func TestTemplatePurgeStaff(t *testing.T) {
	tpl := NewTemplate()
	tpl.Add(time.Monday, domain.Duty{StaffID: 1, StartTime: "08:00", EndTime: "12:00"})
	tpl.Add(time.Monday, domain.Duty{StaffID: 2, StartTime: "12:00", EndTime: "16:00"})
	tpl.Add(time.Wednesday, domain.Duty{StaffID: 1, StartTime: "08:00", EndTime: "14:00"})
	tpl.Add(time.Sunday, domain.Duty{StaffID: 1, StartTime: "09:00", EndTime: "13:00"})

	tpl.PurgeStaff(1)

	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, d := range tpl.Duties(day) {
			assert.NotEqual(t, int64(1), d.StaffID)
		}
	}

	remaining := tpl.Duties(time.Monday)
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(2), remaining[0].StaffID)
}

func TestTemplateReset(t *testing.T) {
	tpl := NewTemplate()
	tpl.Add(time.Tuesday, domain.Duty{StaffID: 1, StartTime: "08:00", EndTime: "12:00"})
	tpl.Add(time.Saturday, domain.Duty{StaffID: 2, StartTime: "08:00", EndTime: "12:00"})

	tpl.Reset()

	for day := time.Sunday; day <= time.Saturday; day++ {
		assert.Empty(t, tpl.Duties(day))
	}
}

func TestTemplateHourTotals(t *testing.T) {
	tpl := NewTemplate()
	tpl.Add(time.Monday, domain.Duty{StaffID: 1, StartTime: "09:00", EndTime: "12:00"})
	tpl.Add(time.Thursday, domain.Duty{StaffID: 1, StartTime: "13:00", EndTime: "17:00"})
	tpl.Add(time.Thursday, domain.Duty{StaffID: 2, StartTime: "08:15", EndTime: "12:45"})

	totals := tpl.HourTotals()
	assert.InDelta(t, 7.0, totals[1], 1e-9)
	assert.InDelta(t, 4.5, totals[2], 1e-9)
}

func TestTemplateSnapshotIsDeepCopy(t *testing.T) {
	tpl := NewTemplate()
	tpl.Add(time.Monday, domain.Duty{StaffID: 1, StartTime: "08:00", EndTime: "12:00"})

	snap := tpl.Snapshot()
	snap[time.Monday][0].StaffID = 99

	got, err := tpl.Duty(time.Monday, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.StaffID)
}
