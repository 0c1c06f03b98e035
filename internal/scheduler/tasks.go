package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TaskFollowUpDue = "leads.follow_up_due"

const TaskActivityOverdue = "activities.task_overdue"

type FollowUpDuePayload struct {
	LeadID     string    `json:"leadId"`
	FollowUpAt time.Time `json:"followUpAt"`
}

type ActivityOverduePayload struct {
	ActivityID string    `json:"activityId"`
	Title      string    `json:"title"`
	DueDate    time.Time `json:"dueDate"`
	OwnerID    string    `json:"ownerId,omitempty"`
}

// followUpTaskID makes rescheduling the same follow-up idempotent.
func followUpTaskID(p FollowUpDuePayload) string {
	return fmt.Sprintf("followup:%s:%d", p.LeadID, p.FollowUpAt.Unix())
}

func overdueTaskID(p ActivityOverduePayload) string {
	return fmt.Sprintf("overdue:%s:%d", p.ActivityID, p.DueDate.Unix())
}

func NewFollowUpDueTask(payload FollowUpDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpDue, data), nil
}

func ParseFollowUpDuePayload(task *asynq.Task) (FollowUpDuePayload, error) {
	var payload FollowUpDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpDuePayload{}, err
	}
	return payload, nil
}

func NewActivityOverdueTask(payload ActivityOverduePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActivityOverdue, data), nil
}

func ParseActivityOverduePayload(task *asynq.Task) (ActivityOverduePayload, error) {
	var payload ActivityOverduePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ActivityOverduePayload{}, err
	}
	return payload, nil
}
