package dto

import (
	"time"
)

// AssignmentRecord — период работы сотрудника на проекте (одна строка входного CSV).
type AssignmentRecord struct {
	EmployeeID int        `json:"employee_id" example:"143"`              // Идентификатор сотрудника
	ProjectID  int        `json:"project_id" example:"12"`                // Идентификатор проекта
	DateFrom   time.Time  `json:"date_from" example:"2013-11-01"`         // Дата начала (включительно)
	DateTo     *time.Time `json:"date_to,omitempty" example:"2014-01-05"` // Дата окончания, nil: работает по сей день
	Line       int        `json:"-"`                                      // Номер строки в исходном файле
}

// EffectiveEnd returns DateTo, or today when the assignment is still open.
func (r AssignmentRecord) EffectiveEnd(today time.Time) time.Time {
	if r.DateTo == nil {
		return today
	}

	return *r.DateTo
}
