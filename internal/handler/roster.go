package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/paiban-dev/roster-manager/backend/internal/domain"
	"github.com/paiban-dev/roster-manager/backend/internal/export"
	"github.com/paiban-dev/roster-manager/backend/internal/roster"
)

// weekPayload 是排班会话的完整状态，所有修改接口都返回它，
// 客户端直接用它整体刷新界面
type weekPayload struct {
	StartDate  string                   `json:"startDate"`
	EndDate    string                   `json:"endDate"`
	Dates      []string                 `json:"dates"`
	View       map[string][]domain.Duty `json:"view"`
	Notes      map[string]string        `json:"notes"`
	HourTotals map[int64]float64        `json:"hourTotals"`
	Warnings   []roster.Warning         `json:"warnings"`
}

// 调用方必须已经持有 plannerMu
func (h *Handler) currentWeek(warnings []roster.Warning) *weekPayload {
	if warnings == nil {
		warnings = make([]roster.Warning, 0)
	}
	return &weekPayload{
		StartDate:  h.planner.StartDate().Format(roster.DateLayout),
		EndDate:    h.planner.EndDate().Format(roster.DateLayout),
		Dates:      h.planner.Dates(),
		View:       h.planner.View(),
		Notes:      h.planner.Notes(),
		HourTotals: h.planner.TemplateHourTotals(),
		Warnings:   warnings,
	}
}

func (h *Handler) SetWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, err := time.Parse(roster.DateLayout, req.StartDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.plannerMu.Lock()
	defer h.plannerMu.Unlock()

	h.planner.Materialize(start)
	h.successResponse(w, r, "设置周起始日期成功", h.currentWeek(nil))
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	h.plannerMu.Lock()
	defer h.plannerMu.Unlock()

	if h.planner.StartDate().IsZero() {
		h.errorResponse(w, r, "还没有选择周起始日期")
		return
	}

	h.successResponse(w, r, "获取周视图成功", h.currentWeek(nil))
}

func (h *Handler) GetAvailableStaff(w http.ResponseWriter, r *http.Request) {
	weekdayParam := r.URL.Query().Get("weekday")
	weekday, err := strconv.Atoi(weekdayParam)
	if err != nil || weekday < 0 || weekday > 6 {
		h.errorResponse(w, r, "无效的星期参数")
		return
	}

	h.plannerMu.Lock()
	available, err := h.planner.AvailableStaff(time.Weekday(weekday))
	h.plannerMu.Unlock()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	data := struct {
		Staff           []*domain.Staff `json:"staff"`
		NoEligibleStaff bool            `json:"noEligibleStaff"`
	}{
		Staff:           available,
		NoEligibleStaff: len(available) == 0,
	}

	msg := "获取可排班员工成功"
	if data.NoEligibleStaff {
		msg = fmt.Sprintf("%s没有可排班的员工", roster.WeekdayLabel(time.Weekday(weekday)))
	}

	h.successResponse(w, r, msg, data)
}

func (h *Handler) AddDuty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      string `json:"date" validate:"required,datetime=2006-01-02"`
		StaffID   int64  `json:"staffID" validate:"required,gt=0"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.repository.GetStaffByID(req.StaffID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	day, err := time.Parse(roster.DateLayout, req.Date)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.plannerMu.Lock()
	defer h.plannerMu.Unlock()

	// 当天一个可排班的员工都没有时阻止添加
	available, err := h.planner.AvailableStaff(day.Weekday())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if len(available) == 0 {
		h.errorResponse(w, r, roster.ErrNoEligibleStaff.Error())
		return
	}

	warnings, err := h.planner.AddDuty(req.Date, req.StaffID, req.StartTime, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrDateOutsideWeek), errors.Is(err, roster.ErrInvalidTimeRange):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "添加值班成功", h.currentWeek(warnings))
}

func (h *Handler) dutyPosition(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(roster.DateLayout, date); err != nil {
		h.errorResponse(w, r, "无效的日期")
		return "", 0, false
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		h.errorResponse(w, r, "无效的值班序号")
		return "", 0, false
	}

	return date, index, true
}

func (h *Handler) EditDuty(w http.ResponseWriter, r *http.Request) {
	date, index, ok := h.dutyPosition(w, r)
	if !ok {
		return
	}

	var req struct {
		StaffID   int64  `json:"staffID" validate:"required,gt=0"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.repository.GetStaffByID(req.StaffID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.plannerMu.Lock()
	defer h.plannerMu.Unlock()

	warnings, err := h.planner.EditDuty(date, index, req.StaffID, req.StartTime, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrDateOutsideWeek),
			errors.Is(err, roster.ErrInvalidTimeRange),
			errors.Is(err, roster.ErrIndexOutOfRange):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "修改值班成功", h.currentWeek(warnings))
}

func (h *Handler) RemoveDuty(w http.ResponseWriter, r *http.Request) {
	date, index, ok := h.dutyPosition(w, r)
	if !ok {
		return
	}

	h.plannerMu.Lock()
	defer h.plannerMu.Unlock()

	if err := h.planner.RemoveDuty(date, index); err != nil {
		switch {
		case errors.Is(err, roster.ErrDateOutsideWeek), errors.Is(err, roster.ErrIndexOutOfRange):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除值班成功", h.currentWeek(nil))
}

func (h *Handler) SetNote(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(roster.DateLayout, date); err != nil {
		h.errorResponse(w, r, "无效的日期")
		return
	}

	var req struct {
		Note string `json:"note" validate:"max=256"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.plannerMu.Lock()
	defer h.plannerMu.Unlock()

	h.planner.SetNote(date, req.Note)
	h.successResponse(w, r, "设置备注成功", h.currentWeek(nil))
}

func (h *Handler) StartNewRoster(w http.ResponseWriter, r *http.Request) {
	h.plannerMu.Lock()
	defer h.plannerMu.Unlock()

	h.planner.StartNew()
	h.successResponse(w, r, "已开始新的排班表", h.currentWeek(nil))
}

func (h *Handler) FinalizeRoster(w http.ResponseWriter, r *http.Request) {
	h.plannerMu.Lock()
	defer h.plannerMu.Unlock()

	if h.planner.StartDate().IsZero() {
		h.errorResponse(w, r, "还没有选择周起始日期")
		return
	}

	staff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	names := make(map[int64]string, len(staff))
	for _, s := range staff {
		names[s.ID] = s.Name
	}

	entries := h.planner.Entries(names)
	if len(entries) == 0 {
		h.errorResponse(w, r, "排班表为空，无法归档")
		return
	}

	// 与最近一张归档比较，完全相同则拒绝
	latest, err := h.repository.GetLatestRosterDuties()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if len(latest) > 0 && roster.SameDutySet(entries, latest) {
		h.errorResponse(w, r, "与最近一张归档的排班表完全相同，无需重复归档")
		return
	}

	record := &domain.Roster{
		StartDate: h.planner.StartDate().Format(roster.DateLayout),
		EndDate:   h.planner.EndDate().Format(roster.DateLayout),
	}

	if err := h.repository.CreateRoster(record, entries); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	grid := roster.DailyBreakdown(h.planner.Dates(), h.planner.View(), h.planner.Notes(), staff)

	if err := os.MkdirAll(h.config.Roster.OutputDir, 0o755); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	pdfPath := filepath.Join(h.config.Roster.OutputDir, fmt.Sprintf("roster_%s_%d.pdf", record.StartDate, record.ID))
	opts := export.Options{
		Title:    fmt.Sprintf("排班表 %s ~ %s", record.StartDate, record.EndDate),
		FontPath: h.config.Roster.PDFFontPath,
	}

	// 排班表本身已经落库，PDF 只是附属产物，失败不回滚归档
	if err := export.RenderGrid(grid, opts, pdfPath); err != nil {
		slog.Error("渲染排班表 PDF 失败", "roster_id", record.ID, "error", err)
		h.successResponse(w, r, "排班表已归档，但 PDF 生成失败", record)
		return
	}

	record.PDFFile = pdfPath
	if err := h.repository.UpdateRosterPDF(record); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	data := struct {
		Roster *domain.Roster `json:"roster"`
		Grid   [][]string     `json:"grid"`
	}{
		Roster: record,
		Grid:   grid,
	}

	h.successResponse(w, r, "排班表归档成功", data)
}

func (h *Handler) GetRosterHistory(w http.ResponseWriter, r *http.Request) {
	rosters, err := h.repository.GetAllRosters()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取归档历史成功", rosters)
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	record := r.Context().Value(RosterCtx).(*domain.Roster)

	duties, err := h.repository.GetRosterDuties(record.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	data := struct {
		Roster *domain.Roster       `json:"roster"`
		Duties []*domain.RosterDuty `json:"duties"`
	}{
		Roster: record,
		Duties: duties,
	}

	h.successResponse(w, r, "获取排班表成功", data)
}

func (h *Handler) LoadRoster(w http.ResponseWriter, r *http.Request) {
	record := r.Context().Value(RosterCtx).(*domain.Roster)

	duties, err := h.repository.GetRosterDuties(record.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.plannerMu.Lock()
	defer h.plannerMu.Unlock()

	if err := h.planner.Load(record.StartDate, duties); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "已加载历史排班表", h.currentWeek(nil))
}

func (h *Handler) EmailRoster(w http.ResponseWriter, r *http.Request) {
	record := r.Context().Value(RosterCtx).(*domain.Roster)

	if record.PDFFile == "" {
		h.errorResponse(w, r, "这张排班表没有生成 PDF，无法发送")
		return
	}

	staff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sent := 0
	for _, s := range staff {
		if s.Email == "" {
			continue
		}

		if err := h.publishMail(domain.MailMessage{
			Type: "roster_published",
			To:   s.Email,
			Data: domain.RosterPublishedMailData{
				StaffName:  s.Name,
				StartDate:  record.StartDate,
				EndDate:    record.EndDate,
				Attachment: record.PDFFile,
			},
		}); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		sent++
	}

	h.successResponse(w, r, fmt.Sprintf("已向 %d 名员工发送排班表", sent), nil)
}
