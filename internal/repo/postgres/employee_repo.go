package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iiitbh/gatepass/internal/domain"
)

type EmployeeRepository interface {
	Create(ctx context.Context, req *domain.RegisterEmployeeRequest, passwordHash string) (*domain.Employee, error)
	FindByEmailAndRole(ctx context.Context, email, role string) (*domain.Employee, error)
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
	ExistsByEmailOrEmployeeID(ctx context.Context, email, employeeID string) (bool, error)
	ListByRole(ctx context.Context, role string) ([]domain.Employee, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeCols = `id, role, email, employee_id, name, password_hash, created_at, updated_at`

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(
		&e.ID, &e.Role, &e.Email, &e.EmployeeID, &e.Name, &e.PasswordHash,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepository) Create(ctx context.Context, req *domain.RegisterEmployeeRequest, passwordHash string) (*domain.Employee, error) {
	const q = `
		INSERT INTO employees (role, email, employee_id, name, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + employeeCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEmployee(r.pool.QueryRow(ctx, q, req.Role, req.Email, req.EmployeeID, req.Name, passwordHash))
}

func (r *employeeRepository) FindByEmailAndRole(ctx context.Context, email, role string) (*domain.Employee, error) {
	const q = `SELECT ` + employeeCols + ` FROM employees WHERE email = $1 AND role = $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEmployee(r.pool.QueryRow(ctx, q, email, role))
}

func (r *employeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	const q = `SELECT ` + employeeCols + ` FROM employees WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEmployee(r.pool.QueryRow(ctx, q, id))
}

// ExistsByEmailOrEmployeeID checks both staff roles at once: guard and
// admin share the email and employee-id namespaces.
func (r *employeeRepository) ExistsByEmailOrEmployeeID(ctx context.Context, email, employeeID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM employees WHERE email = $1 OR employee_id = $2)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, email, employeeID).Scan(&exists)
	return exists, err
}

func (r *employeeRepository) ListByRole(ctx context.Context, role string) ([]domain.Employee, error) {
	const q = `SELECT ` + employeeCols + ` FROM employees WHERE role = $1 ORDER BY name`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(
			&e.ID, &e.Role, &e.Email, &e.EmployeeID, &e.Name, &e.PasswordHash,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}
