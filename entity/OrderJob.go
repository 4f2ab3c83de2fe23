package entity

import (
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobPublished JobStatus = "published"
	JobFailed    JobStatus = "failed"
)

// OrderJob is the transactional outbox row. It is written in the same
// DB transaction as the state change that calls for a notification, so
// the intent survives a broker outage.
type OrderJob struct {
	gorm.Model
	Payload    string    `json:"payload"`
	RoutingKey string    `json:"routingKey" gorm:"index"`
	Status     JobStatus `json:"status" gorm:"index;default:pending"`
}
