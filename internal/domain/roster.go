package domain

import (
	"time"
)

// Duty 表示某个员工在某一天（或某个星期几）的一段值班时间，
// 时间以 HH:MM 格式的字符串表示
type Duty struct {
	StaffID   int64  `json:"staffID"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Roster 表示一张已归档的排班表，归档后不可修改
type Roster struct {
	ID        int64     `json:"id"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	PDFFile   string    `json:"pdfFile"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// RosterDuty 是归档排班表中的一行值班记录。
// StaffName 是归档时刻的员工姓名快照，员工被删除后历史记录仍然可读
type RosterDuty struct {
	ID        int64  `json:"id"`
	RosterID  int64  `json:"rosterID"`
	DutyDate  string `json:"dutyDate"`
	StaffID   int64  `json:"staffID"`
	StaffName string `json:"staffName"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Note      string `json:"note"`
}
