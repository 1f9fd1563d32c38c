package roster

import (
	"fmt"
	"time"

	"github.com/paiban-dev/roster-manager/backend/internal/domain"
)

// StaffDirectory 是排班器查询员工档案的接口。
// 每次计算可用性或工时上限之前都会重新读取，不做缓存
type StaffDirectory interface {
	GetAllStaff() ([]*domain.Staff, error)
}

// Window 是每天允许排班的时间窗口，闭区间，
// 两个端点都必须落在 15 分钟的网格上
type Window struct {
	Start string
	End   string
}

var DefaultWindow = Window{Start: "05:15", End: "20:15"}

// Planner 把星期几模板绑定到一个具体的 7 天日期区间上。
// 周视图是模板的值快照而不是引用，模板的任何修改都会整体重建视图，
// 不做增量修补。单个进程内只应存在一个 Planner 实例
type Planner struct {
	staff    StaffDirectory
	template *Template

	windowStart int
	windowEnd   int
	window      Window

	startDate time.Time
	view      map[string][]domain.Duty
	notes     map[string]string
}

func NewPlanner(staff StaffDirectory, window Window) (*Planner, error) {
	ws, ok := minutesOfDay(window.Start)
	if !ok {
		return nil, fmt.Errorf("排班窗口起点 %q 格式错误", window.Start)
	}
	we, ok := minutesOfDay(window.End)
	if !ok {
		return nil, fmt.Errorf("排班窗口终点 %q 格式错误", window.End)
	}
	if ws%gridMinutes != 0 || we%gridMinutes != 0 || ws >= we {
		return nil, fmt.Errorf("排班窗口 %s-%s 不合法", window.Start, window.End)
	}

	return &Planner{
		staff:       staff,
		template:    NewTemplate(),
		windowStart: ws,
		windowEnd:   we,
		window:      window,
		view:        make(map[string][]domain.Duty),
		notes:       make(map[string]string),
	}, nil
}

// Materialize 将模板展开到以 start 为起点的一周。
// 结束日期恒为 start+6，不接受外部传入的结束日期。
// 同一模板加同一起始日期的展开结果总是相同的（备注除外，
// 备注保存在独立的映射中，跨展开保留）
func (p *Planner) Materialize(start time.Time) {
	p.startDate = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	p.rebuild()
}

func (p *Planner) rebuild() {
	if p.startDate.IsZero() {
		return
	}
	view := make(map[string][]domain.Duty, 7)
	for i := 0; i < 7; i++ {
		d := p.startDate.AddDate(0, 0, i)
		view[d.Format(DateLayout)] = p.template.Duties(d.Weekday())
	}
	p.view = view
}

func (p *Planner) StartDate() time.Time {
	return p.startDate
}

func (p *Planner) EndDate() time.Time {
	return p.startDate.AddDate(0, 0, 6)
}

// Dates 按顺序返回当前视图中的 7 个日期
func (p *Planner) Dates() []string {
	if p.startDate.IsZero() {
		return nil
	}
	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, p.startDate.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

// View 返回当前周视图的深拷贝
func (p *Planner) View() map[string][]domain.Duty {
	out := make(map[string][]domain.Duty, len(p.view))
	for ds, duties := range p.view {
		cp := make([]domain.Duty, len(duties))
		copy(cp, duties)
		out[ds] = cp
	}
	return out
}

func (p *Planner) Notes() map[string]string {
	out := make(map[string]string, len(p.notes))
	for ds, note := range p.notes {
		out[ds] = note
	}
	return out
}

// SetNote 记录某一天的备注。备注独立于模板，不跨周循环，
// 也不会因为重新展开而丢失，只有 StartNew 和 Load 会替换它们
func (p *Planner) SetNote(date, text string) {
	p.notes[date] = text
}

// TemplateHourTotals 统计整个模板中每个员工的每周工时
func (p *Planner) TemplateHourTotals() map[int64]float64 {
	return p.template.HourTotals()
}

// TemplateSnapshot 返回模板的深拷贝，测试用它验证失败的写入
// 没有留下任何痕迹
func (p *Planner) TemplateSnapshot() [7][]domain.Duty {
	return p.template.Snapshot()
}

// AvailableStaff 重新读取员工目录并过滤掉当天不可排班的员工。
// 返回空列表时调用方应当以 ErrNoEligibleStaff 提示并阻止添加
func (p *Planner) AvailableStaff(day time.Weekday) ([]*domain.Staff, error) {
	all, err := p.staff.GetAllStaff()
	if err != nil {
		return nil, err
	}

	avail := make([]*domain.Staff, 0, len(all))
	for _, s := range all {
		if !s.UnavailableOn(day) {
			avail = append(avail, s)
		}
	}
	return avail, nil
}

func (p *Planner) weekdayInView(date string) (time.Weekday, error) {
	if _, ok := p.view[date]; !ok {
		return 0, ErrDateOutsideWeek
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, ErrDateOutsideWeek
	}
	return d.Weekday(), nil
}

// validateTimeRange 的所有检查都发生在模板修改之前，
// 被拒绝的写入保证模板保持原样
func (p *Planner) validateTimeRange(start, end string) error {
	st, ok := minutesOfDay(start)
	if !ok {
		return fmt.Errorf("%w: 开始时间 %q 格式错误", ErrInvalidTimeRange, start)
	}
	et, ok := minutesOfDay(end)
	if !ok {
		return fmt.Errorf("%w: 结束时间 %q 格式错误", ErrInvalidTimeRange, end)
	}
	if et <= st {
		return fmt.Errorf("%w: 结束时间必须晚于开始时间", ErrInvalidTimeRange)
	}
	if st%gridMinutes != 0 || et%gridMinutes != 0 {
		return fmt.Errorf("%w: 时间必须是 %d 分钟的倍数", ErrInvalidTimeRange, gridMinutes)
	}
	if st < p.windowStart || et > p.windowEnd {
		return fmt.Errorf("%w: 时间超出每天允许的排班窗口 %s-%s", ErrInvalidTimeRange, p.window.Start, p.window.End)
	}
	return nil
}

// adviseOnWrite 在写入前计算提示信息。deltaMinutes 是这次写入给
// 员工带来的工时净变化（编辑时为新旧时长之差）。
// 工时上限和当天不可用都只是提示，从不阻止写入
func (p *Planner) adviseOnWrite(day time.Weekday, staffID int64, deltaMinutes int) ([]Warning, error) {
	all, err := p.staff.GetAllStaff()
	if err != nil {
		return nil, err
	}

	var member *domain.Staff
	for _, s := range all {
		if s.ID == staffID {
			member = s
			break
		}
	}
	if member == nil {
		return nil, nil
	}

	var warnings []Warning
	if member.UnavailableOn(day) {
		warnings = append(warnings, Warning{
			Code:    WarnStaffUnavailable,
			Message: fmt.Sprintf("%s 在%s不可排班", member.Name, WeekdayLabel(day)),
		})
	}
	if member.MaxHours != nil {
		projected := p.template.HourTotals()[staffID] + float64(deltaMinutes)/60.0
		if projected > *member.MaxHours {
			warnings = append(warnings, Warning{
				Code:    WarnMaxHoursExceeded,
				Message: fmt.Sprintf("%s 的每周工时将达到 %.1f 小时，超过上限 %.1f 小时", member.Name, projected, *member.MaxHours),
			})
		}
	}
	return warnings, nil
}

// AddDuty 在 date 所在的星期几追加一条值班并整体重建周视图。
// 值班是按星期几循环的安排而不是单日事件：给某个周一添加值班，
// 视图中的每个周一都会显示这条记录
func (p *Planner) AddDuty(date string, staffID int64, start, end string) ([]Warning, error) {
	day, err := p.weekdayInView(date)
	if err != nil {
		return nil, err
	}
	if err := p.validateTimeRange(start, end); err != nil {
		return nil, err
	}

	duty := domain.Duty{StaffID: staffID, StartTime: start, EndTime: end}
	warnings, err := p.adviseOnWrite(day, staffID, dutyMinutes(duty))
	if err != nil {
		return nil, err
	}

	p.template.Add(day, duty)
	p.rebuild()
	return warnings, nil
}

// EditDuty 替换模板中对应星期几下标为 index 的记录。
// 工时提示针对净变化：员工不变时先扣除原时长
func (p *Planner) EditDuty(date string, index int, staffID int64, start, end string) ([]Warning, error) {
	day, err := p.weekdayInView(date)
	if err != nil {
		return nil, err
	}
	if err := p.validateTimeRange(start, end); err != nil {
		return nil, err
	}
	old, err := p.template.Duty(day, index)
	if err != nil {
		return nil, err
	}

	duty := domain.Duty{StaffID: staffID, StartTime: start, EndTime: end}
	delta := dutyMinutes(duty)
	if old.StaffID == staffID {
		delta -= dutyMinutes(old)
	}
	warnings, err := p.adviseOnWrite(day, staffID, delta)
	if err != nil {
		return nil, err
	}

	if err := p.template.Update(day, index, duty); err != nil {
		return nil, err
	}
	p.rebuild()
	return warnings, nil
}

func (p *Planner) RemoveDuty(date string, index int) error {
	day, err := p.weekdayInView(date)
	if err != nil {
		return err
	}
	if err := p.template.Remove(day, index); err != nil {
		return err
	}
	p.rebuild()
	return nil
}

// PurgeStaff 在员工档案被删除时级联清理模板中的值班记录
func (p *Planner) PurgeStaff(staffID int64) {
	p.template.PurgeStaff(staffID)
	p.rebuild()
}

// StartNew 清空模板与备注，开始一张全新的排班表
func (p *Planner) StartNew() {
	p.template.Reset()
	p.notes = make(map[string]string)
	p.rebuild()
}

// Load 用一张已归档的排班表重建模板与备注，并把视图定位到
// 它的起始日期。归档行中的日期映射回星期几后写入模板
func (p *Planner) Load(startDate string, duties []*domain.RosterDuty) error {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return err
	}

	// 先完整解析再修改，避免加载到一半失败留下部分状态
	days := make([]time.Weekday, len(duties))
	for i, rd := range duties {
		d, err := time.Parse(DateLayout, rd.DutyDate)
		if err != nil {
			return err
		}
		days[i] = d.Weekday()
	}

	p.template.Reset()
	p.notes = make(map[string]string)
	for i, rd := range duties {
		p.template.Add(days[i], domain.Duty{
			StaffID:   rd.StaffID,
			StartTime: rd.StartTime,
			EndTime:   rd.EndTime,
		})
		if rd.Note != "" {
			p.notes[rd.DutyDate] = rd.Note
		}
	}
	p.Materialize(start)
	return nil
}

// Entries 把当前视图展开为归档行。当天的备注冗余地写到这一天的
// 每一条记录上，读取端把它当作同一天共享的备注处理。
// names 是归档时刻的员工姓名快照
func (p *Planner) Entries(names map[int64]string) []*domain.RosterDuty {
	var entries []*domain.RosterDuty
	for _, ds := range p.Dates() {
		for _, d := range p.view[ds] {
			entries = append(entries, &domain.RosterDuty{
				DutyDate:  ds,
				StaffID:   d.StaffID,
				StaffName: names[d.StaffID],
				StartTime: d.StartTime,
				EndTime:   d.EndTime,
				Note:      p.notes[ds],
			})
		}
	}
	return entries
}
