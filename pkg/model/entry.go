package model

import "time"

// Entry is one persisted (task, service) answer of a submitted checklist.
// It maps onto a row of the form_data table.
type Entry struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskID      string `json:"task_id" gorm:"size:32;index"`
	System      string `json:"system" gorm:"size:128"`
	ServiceName string `json:"service_name" gorm:"size:128"`
	State       string `json:"state" gorm:"size:16"`
	Comment     string `json:"comment"`
}

// Key identifies the (task, service) pair an entry answers.
func (e Entry) Key() string {
	return e.TaskID + "/" + e.ServiceName
}

// Submission is a checklist batch received by the controller from a device.
type Submission struct {
	ID         string            `json:"id" gorm:"primaryKey;size:36"`
	Username   string            `json:"username" gorm:"size:64;index"`
	DeviceID   string            `json:"deviceId" gorm:"size:64"`
	ReceivedAt time.Time         `json:"receivedAt" gorm:"index"`
	Entries    []SubmissionEntry `json:"entries" gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

// SubmissionEntry is an Entry stored centrally under its submission.
type SubmissionEntry struct {
	ID           uint   `json:"-" gorm:"primaryKey"`
	SubmissionID string `json:"-" gorm:"size:36;index"`
	TaskID       string `json:"task_id" gorm:"size:32"`
	System       string `json:"system" gorm:"size:128"`
	ServiceName  string `json:"service_name" gorm:"size:128"`
	State        string `json:"state" gorm:"size:16"`
	Comment      string `json:"comment"`
}

// NewSubmissionEntries converts device rows for central storage.
func NewSubmissionEntries(entries []Entry) []SubmissionEntry {
	out := make([]SubmissionEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, SubmissionEntry{
			TaskID:      e.TaskID,
			System:      e.System,
			ServiceName: e.ServiceName,
			State:       e.State,
			Comment:     e.Comment,
		})
	}
	return out
}
