package roster

import "errors"

// 硬性校验错误，返回时保证模板没有发生任何修改
var (
	ErrInvalidTimeRange = errors.New("无效的值班时间段")
	ErrIndexOutOfRange  = errors.New("值班记录序号超出范围")
	ErrDateOutsideWeek  = errors.New("日期不在当前排班周内")
)

// ErrNoEligibleStaff 属于提示性信号：当某个星期几没有任何可排班
// 的员工时，调用方应当阻止继续添加值班，而不是当作服务器错误处理
var ErrNoEligibleStaff = errors.New("当天没有可排班的员工")

const (
	WarnMaxHoursExceeded = "max_hours_exceeded"
	WarnStaffUnavailable = "staff_unavailable"
)

// Warning 表示一次成功写入之后附带的提示，不会阻止写入
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
