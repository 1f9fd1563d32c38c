package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/paiban-dev/roster-manager/backend/internal/domain"
)

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                string   `json:"name" validate:"required,max=32"`
		Email               string   `json:"email" validate:"omitempty,email"`
		Phone               string   `json:"phone" validate:"omitempty,max=32"`
		MaxHours            *float64 `json:"maxHours" validate:"omitempty,gt=0"`
		UnavailableWeekdays []int32  `json:"unavailableWeekdays" validate:"omitempty,dive,gte=0,lte=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	member := &domain.Staff{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		MaxHours:            req.MaxHours,
		UnavailableWeekdays: req.UnavailableWeekdays,
	}
	if member.UnavailableWeekdays == nil {
		member.UnavailableWeekdays = make([]int32, 0)
	}

	if err := h.repository.CreateStaff(member); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "staff_unavailable_weekdays_pkey":
			h.errorResponse(w, r, "不可排班的星期存在重复")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建员工成功", member)
}

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", staff)
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffRecordCtx).(*domain.Staff)
	h.successResponse(w, r, "获取员工信息成功", member)
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffRecordCtx).(*domain.Staff)

	var req struct {
		Name                string   `json:"name" validate:"omitempty,max=32"`
		Email               *string  `json:"email" validate:"omitempty,email"`
		Phone               *string  `json:"phone" validate:"omitempty,max=32"`
		MaxHours            *float64 `json:"maxHours" validate:"omitempty,gt=0"`
		ClearMaxHours       bool     `json:"clearMaxHours"`
		UnavailableWeekdays []int32  `json:"unavailableWeekdays" validate:"omitempty,dive,gte=0,lte=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 值班记录只保存员工 ID，改名不会使任何值班失效
	if req.Name != "" {
		member.Name = req.Name
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.MaxHours != nil {
		member.MaxHours = req.MaxHours
	}
	if req.ClearMaxHours {
		member.MaxHours = nil
	}
	if req.UnavailableWeekdays != nil {
		member.UnavailableWeekdays = req.UnavailableWeekdays
	}

	if err := h.repository.UpdateStaff(member); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新员工失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新员工成功", member)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffRecordCtx).(*domain.Staff)

	if err := h.repository.DeleteStaff(member.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 级联清理当前排班会话中这名员工的所有值班
	h.plannerMu.Lock()
	h.planner.PurgeStaff(member.ID)
	h.plannerMu.Unlock()

	h.successResponse(w, r, "删除员工成功", nil)
}
