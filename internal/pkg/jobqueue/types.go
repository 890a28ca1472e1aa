package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeSubscriptionExpiry JobType = "subscription_expiry"
	JobTypeEntitlementAudit   JobType = "entitlement_audit"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// SubscriptionExpiryJobPayload contains the payload for expiry sweep jobs
type SubscriptionExpiryJobPayload struct {
	BatchSize int `json:"batch_size"`
}

// ToMap converts the payload to a map for storage
func (p SubscriptionExpiryJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"batch_size": p.BatchSize,
	}
}

// FromMap creates a payload from a map
func SubscriptionExpiryJobPayloadFromMap(data map[string]interface{}) (*SubscriptionExpiryJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload SubscriptionExpiryJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// EntitlementAuditJobPayload contains the payload for entitlement audit jobs.
// With Repair set, profiles that drifted from their active subscription are
// rewritten; otherwise mismatches are only logged.
type EntitlementAuditJobPayload struct {
	Repair bool `json:"repair"`
}

// ToMap converts the payload to a map for storage
func (p EntitlementAuditJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"repair": p.Repair,
	}
}

// FromMap creates a payload from a map
func EntitlementAuditJobPayloadFromMap(data map[string]interface{}) (*EntitlementAuditJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload EntitlementAuditJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
