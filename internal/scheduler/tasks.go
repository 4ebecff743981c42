package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCampaignDispatch = "newsletter.campaign.dispatch"

const TaskAssessmentFollowUp = "assessments.followup"

type CampaignDispatchPayload struct {
	CampaignID string `json:"campaignId"`
}

type AssessmentFollowUpPayload struct {
	AssessmentID string `json:"assessmentId"`
}

func NewCampaignDispatchTask(payload CampaignDispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignDispatch, data), nil
}

func ParseCampaignDispatchPayload(task *asynq.Task) (CampaignDispatchPayload, error) {
	var payload CampaignDispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CampaignDispatchPayload{}, err
	}
	return payload, nil
}

func NewAssessmentFollowUpTask(payload AssessmentFollowUpPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAssessmentFollowUp, data), nil
}

func ParseAssessmentFollowUpPayload(task *asynq.Task) (AssessmentFollowUpPayload, error) {
	var payload AssessmentFollowUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AssessmentFollowUpPayload{}, err
	}
	return payload, nil
}
