package repository

import (
	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/entity"
)

type JobRepository struct{ DB *gorm.DB }

func NewJobRepository(db *gorm.DB) *JobRepository { return &JobRepository{DB: db} }

// Enqueue appends an outbox row. Must be called with the transaction
// that performs the state change the job announces.
func (r *JobRepository) Enqueue(tx *gorm.DB, routingKey string, payload []byte) error {
	return tx.Create(&entity.OrderJob{
		Payload:    string(payload),
		RoutingKey: routingKey,
		Status:     entity.JobPending,
	}).Error
}

func (r *JobRepository) PendingByRoutingKey(routingKey string) ([]entity.OrderJob, error) {
	var jobs []entity.OrderJob
	err := r.DB.
		Where("routing_key = ? AND status = ?", routingKey, entity.JobPending).
		Order("id ASC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) MarkPublished(jobID uint) error {
	return r.setStatus(jobID, entity.JobPublished)
}

func (r *JobRepository) MarkFailed(jobID uint) error {
	return r.setStatus(jobID, entity.JobFailed)
}

func (r *JobRepository) setStatus(jobID uint, status entity.JobStatus) error {
	return r.DB.Model(&entity.OrderJob{}).
		Where("id = ?", jobID).
		Update("status", status).Error
}
