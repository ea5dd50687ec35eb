package assignment

import (
	"fmt"
	"time"
)

// AllowTransition 定义排班状态机的允许流转关系。
// rejected / completed 是终态（删除不在枚举内，任何状态都可删除）。
var AllowTransition = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusCompleted},
	StatusRejected:  {},
	StatusCompleted: {},
}

// CanTransition 判断 from -> to 是否是一个允许的状态流转。
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition 对排班应用状态变更，并维护关键时间字段。
func ApplyTransition(a *Assignment, to Status, now time.Time) error {
	if a == nil {
		return fmt.Errorf("assignment is nil")
	}
	from := a.Status
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid assignment status transition: %s -> %s", from, to)
	}

	a.Status = to

	switch to {
	case StatusAccepted:
		if a.AcceptedAt == nil {
			t := now
			a.AcceptedAt = &t
		}
	case StatusCompleted:
		if a.EndTime == nil {
			t := now
			a.EndTime = &t
		}
	}
	return nil
}
