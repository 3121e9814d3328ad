package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iiitbh/gatepass/internal/domain"
)

type StudentRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*domain.Student, error)
	FindByEmail(ctx context.Context, email string) (*domain.Student, error)
	FindByID(ctx context.Context, id int64) (*domain.Student, error)
	FindByRollNumber(ctx context.Context, rollNumber string) (*domain.Student, error)
	SetOTP(ctx context.Context, id int64, otp string) error
	ConsumeOTP(ctx context.Context, id int64, otp string) (bool, error)
	CompleteProfile(ctx context.Context, id int64, req *domain.CompleteProfileRequest, qrCode string) (*domain.Student, error)
}

type studentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

const studentCols = `id, email, password_hash, otp, is_verified,
name, roll_number, department, batch, profile_photo, qr_code,
profile_completed, created_at, updated_at`

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var s domain.Student
	err := row.Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.OTP, &s.IsVerified,
		&s.Name, &s.RollNumber, &s.Department, &s.Batch, &s.ProfilePhoto, &s.QRCode,
		&s.Completed, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) Create(ctx context.Context, name, email, passwordHash string) (*domain.Student, error) {
	const q = `
		INSERT INTO students (name, email, password_hash, is_verified)
		VALUES ($1, $2, $3, false)
		RETURNING ` + studentCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanStudent(r.pool.QueryRow(ctx, q, name, email, passwordHash))
}

func (r *studentRepository) FindByEmail(ctx context.Context, email string) (*domain.Student, error) {
	const q = `SELECT ` + studentCols + ` FROM students WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanStudent(r.pool.QueryRow(ctx, q, email))
}

func (r *studentRepository) FindByID(ctx context.Context, id int64) (*domain.Student, error) {
	const q = `SELECT ` + studentCols + ` FROM students WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanStudent(r.pool.QueryRow(ctx, q, id))
}

func (r *studentRepository) FindByRollNumber(ctx context.Context, rollNumber string) (*domain.Student, error) {
	const q = `SELECT ` + studentCols + ` FROM students WHERE roll_number = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanStudent(r.pool.QueryRow(ctx, q, rollNumber))
}

// SetOTP overwrites any pending code. Last write wins when sends race,
// which is the intended behavior: only the most recent code validates.
func (r *studentRepository) SetOTP(ctx context.Context, id int64, otp string) error {
	const q = `UPDATE students SET otp = $2, updated_at = now() WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, otp)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ConsumeOTP flips is_verified and clears the stored code in one statement,
// so a matched code can never validate twice.
func (r *studentRepository) ConsumeOTP(ctx context.Context, id int64, otp string) (bool, error) {
	const q = `
		UPDATE students
		SET is_verified = true, otp = NULL, updated_at = now()
		WHERE id = $1 AND otp IS NOT NULL AND otp = $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, otp)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *studentRepository) CompleteProfile(ctx context.Context, id int64, req *domain.CompleteProfileRequest, qrCode string) (*domain.Student, error) {
	const q = `
		UPDATE students
		SET name = $2, roll_number = $3, department = $4, batch = $5,
		    profile_photo = NULLIF($6, ''), qr_code = $7,
		    profile_completed = true, updated_at = now()
		WHERE id = $1
		RETURNING ` + studentCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanStudent(r.pool.QueryRow(ctx, q, id,
		req.Name, req.RollNumber, req.Department, req.Batch, req.ProfilePhoto, qrCode))
}
