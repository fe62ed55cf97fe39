package dto

// PairKey — канонический ключ пары сотрудников на проекте (Low <= High).
type PairKey struct {
	Low       int
	High      int
	ProjectID int
}

// NewPairKey orders the employee ids so (a, b) and (b, a) map to the same key.
func NewPairKey(a, b, projectID int) PairKey {
	if a > b {
		a, b = b, a
	}

	return PairKey{Low: a, High: b, ProjectID: projectID}
}

// PairOverlap — суммарное количество дней совместной работы пары на проекте.
type PairOverlap struct {
	EmployeeLowID      int `json:"employee_low_id" example:"143"`  // Меньший идентификатор сотрудника
	EmployeeHighID     int `json:"employee_high_id" example:"218"` // Больший идентификатор сотрудника
	ProjectID          int `json:"project_id" example:"10"`        // Общий проект
	DaysWorkedTogether int `json:"days_worked_together" example:"17"`
}

func (p PairOverlap) Key() PairKey {
	return PairKey{Low: p.EmployeeLowID, High: p.EmployeeHighID, ProjectID: p.ProjectID}
}
