package handler

type ContextKey string

var (
	SubCtxKey      ContextKey = "sub"
	MyInfoCtx      ContextKey = "myInfo"
	StaffRecordCtx ContextKey = "staffRecord"
	RosterCtx      ContextKey = "roster"
)
