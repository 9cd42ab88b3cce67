package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sovouthea1111/hr-system-api/internal/model"
	"github.com/sovouthea1111/hr-system-api/internal/repository"
)

type leaveRepository struct {
	BaseRepository
}

func NewLeaveRepository(base BaseRepository) repository.LeaveRepository {
	return &leaveRepository{base}
}

func (r *leaveRepository) Create(ctx context.Context, leave *model.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (
			id, employee_id, employee_name, leave_type, start_date,
			end_date, reason, image, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	leave.ID = uuid.New()
	leave.Status = model.LeaveStatusPending
	leave.CreatedAt = time.Now()
	leave.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			leave.ID,
			leave.EmployeeID,
			leave.EmployeeName,
			leave.LeaveType,
			leave.StartDate,
			leave.EndDate,
			leave.Reason,
			leave.Image,
			leave.Status,
			leave.CreatedAt,
			leave.UpdatedAt,
		)
		return err
	})
}

func (r *leaveRepository) Get(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	query := `
		SELECT * FROM leave_requests
		WHERE id = $1 AND deleted_at IS NULL
	`

	var leave model.LeaveRequest
	if err := r.db.GetContext(ctx, &leave, query, id); err != nil {
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}

	return &leave, nil
}

func (r *leaveRepository) Update(ctx context.Context, leave *model.LeaveRequest) error {
	query := `
		UPDATE leave_requests SET
			leave_type = $1,
			start_date = $2,
			end_date = $3,
			reason = $4,
			image = $5,
			updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		leave.LeaveType,
		leave.StartDate,
		leave.EndDate,
		leave.Reason,
		leave.Image,
		time.Now(),
		leave.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("leave request not found")
	}

	return nil
}

func (r *leaveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE leave_requests
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("leave request not found")
	}

	return nil
}

func (r *leaveRepository) List(ctx context.Context, filters *model.LeaveFilters) ([]*model.LeaveRequest, error) {
	query := `
		SELECT * FROM leave_requests
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}

	if filters.EmployeeID != uuid.Nil {
		query += fmt.Sprintf(" AND employee_id = $%d", len(args)+1)
		args = append(args, filters.EmployeeID)
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filters.Status)
	}

	if filters.LeaveType != "" {
		query += fmt.Sprintf(" AND leave_type = $%d", len(args)+1)
		args = append(args, filters.LeaveType)
	}

	query += " ORDER BY created_at DESC"

	var leaves []*model.LeaveRequest
	if err := r.db.SelectContext(ctx, &leaves, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return leaves, nil
}

// SetStatus transitions a leave request out of pending. The WHERE guard on
// status makes terminal states absorbing at the database level.
func (r *leaveRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.LeaveStatus, approvedBy uuid.UUID, comment string) error {
	query := `
		UPDATE leave_requests SET
			status = $1,
			approved_by = $2,
			comment = $3,
			updated_at = $4
		WHERE id = $5 AND status = $6 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		status,
		approvedBy,
		comment,
		time.Now(),
		id,
		model.LeaveStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to set leave status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("leave request not pending")
	}

	return nil
}
