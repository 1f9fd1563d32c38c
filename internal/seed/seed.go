package seed

import (
	"log/slog"
	"time"

	"github.com/paiban-dev/roster-manager/backend/internal/config"
	"github.com/paiban-dev/roster-manager/backend/internal/domain"
	"github.com/paiban-dev/roster-manager/backend/internal/repository"
	"github.com/paiban-dev/roster-manager/backend/internal/roster"
)

func maxHours(h float64) *float64 {
	return &h
}

// 一个小型门店的典型人员配置，用于演示环境
var demoStaff = []*domain.Staff{
	{Name: "陈晓芳", Phone: "13800001111", MaxHours: maxHours(40), UnavailableWeekdays: []int32{}},
	{Name: "刘志强", Phone: "13800002222", MaxHours: maxHours(24), UnavailableWeekdays: []int32{0}},
	{Name: "王丽娟", Phone: "13800003333", MaxHours: maxHours(32), UnavailableWeekdays: []int32{3}},
	{Name: "李建国", Phone: "13800004444", UnavailableWeekdays: []int32{}},
	{Name: "张婷婷", Phone: "13800005555", MaxHours: maxHours(16), UnavailableWeekdays: []int32{1, 2}},
}

var demoDuties = []struct {
	weekdayOffset int // 相对周一的偏移
	staffIndex    int
	start, end    string
}{
	{0, 0, "08:00", "14:00"},
	{0, 1, "14:00", "20:00"},
	{1, 2, "08:00", "14:00"},
	{1, 3, "14:00", "20:00"},
	{2, 0, "08:00", "14:00"},
	{2, 4, "14:00", "20:00"},
	{3, 1, "08:00", "14:00"},
	{3, 3, "14:00", "20:00"},
	{4, 0, "08:00", "14:00"},
	{4, 2, "14:00", "20:00"},
	{5, 3, "08:00", "14:00"},
	{5, 4, "14:00", "20:00"},
	{6, 0, "09:00", "13:00"},
	{6, 1, "13:00", "19:00"},
}

// SeedDemoData 插入演示用的员工档案，并通过排班器归档一张
// 下周的排班表，让新部署的环境一打开就有内容可看
func SeedDemoData(cfg *config.Config, repo *repository.Repository) {
	for _, member := range demoStaff {
		member.Email = ""
		if err := repo.CreateStaff(member); err != nil {
			slog.Error("插入演示员工失败", "name", member.Name, "error", err)
			return
		}
	}
	slog.Info("插入演示员工成功", "count", len(demoStaff))

	planner, err := roster.NewPlanner(repo, roster.Window{
		Start: cfg.Roster.WindowStart,
		End:   cfg.Roster.WindowEnd,
	})
	if err != nil {
		slog.Error("创建排班器失败", "error", err)
		return
	}

	// 下一个周一
	now := time.Now()
	offset := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	start := now.AddDate(0, 0, offset)
	planner.Materialize(start)

	for _, d := range demoDuties {
		date := start.AddDate(0, 0, d.weekdayOffset).Format(roster.DateLayout)
		if _, err := planner.AddDuty(date, demoStaff[d.staffIndex].ID, d.start, d.end); err != nil {
			slog.Error("添加演示值班失败", "date", date, "error", err)
			return
		}
	}
	planner.SetNote(start.Format(roster.DateLayout), "早班提前 15 分钟开门准备")

	names := make(map[int64]string, len(demoStaff))
	for _, member := range demoStaff {
		names[member.ID] = member.Name
	}

	record := &domain.Roster{
		StartDate: planner.StartDate().Format(roster.DateLayout),
		EndDate:   planner.EndDate().Format(roster.DateLayout),
	}
	if err := repo.CreateRoster(record, planner.Entries(names)); err != nil {
		slog.Error("归档演示排班表失败", "error", err)
		return
	}

	slog.Info("归档演示排班表成功", "roster_id", record.ID, "start_date", record.StartDate)
}
