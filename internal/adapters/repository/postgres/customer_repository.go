package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/company"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/customer"
	pgdb "github.com/ogurasousui/codex-grpc-onboarding/internal/platform/db/postgres"
)

const customerSelect = `
        SELECT c.id, c.first_name, c.last_name, c.email, c.date_of_birth,
               c.has_credit_limit, c.credit_limit, c.created_at,
               co.id, co.name, co.description, co.created_at, co.updated_at
          FROM customers c
          LEFT JOIN companies co ON co.id = c.company_id`

// CustomerRepository は PostgreSQL を利用した顧客永続化の実装です。
type CustomerRepository struct {
	pool pgdb.Queryer
}

// NewCustomerRepository は CustomerRepository を生成します。
func NewCustomerRepository(pool pgdb.Queryer) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Add は承認済みの顧客を保存し、採番した ID と作成日時を c に設定します。
func (r *CustomerRepository) Add(ctx context.Context, c *customer.Customer) error {
	id := uuid.New()

	var creditLimit any
	if c.HasCreditLimit {
		creditLimit = c.CreditLimit
	}

	var companyID any
	if c.Company != nil {
		companyID = c.Company.ID
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO customers (id, first_name, last_name, email, date_of_birth, company_id, has_credit_limit, credit_limit)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at
    `, id, c.FirstName, c.LastName, c.Email, c.DateOfBirth, companyID, c.HasCreditLimit, creditLimit)

	var createdAt time.Time
	if err := row.Scan(&createdAt); err != nil {
		return err
	}

	c.ID = id.String()
	c.CreatedAt = createdAt
	return nil
}

// FindByID は ID で顧客を取得します。紐づく会社も合わせて読み込みます。
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, customerSelect+`
         WHERE c.id = $1
         LIMIT 1
    `, id)

	return scanCustomer(row)
}

// List は顧客の一覧を作成日時の昇順で取得します。
func (r *CustomerRepository) List(ctx context.Context, filter customer.ListCustomersFilter) ([]*customer.Customer, string, error) {
	if filter.Limit <= 0 {
		return nil, "", customer.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", customer.ErrInvalidPageToken
	}

	args := make([]any, 0, 3)
	whereClause := ""
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		whereClause = `
         WHERE c.company_id = $` + strconv.Itoa(len(args))
	}

	args = append(args, filter.Limit+1)
	limitPlaceholder := "$" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPlaceholder := "$" + strconv.Itoa(len(args))

	query := customerSelect + whereClause + `
         ORDER BY c.created_at ASC, c.id ASC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var customers []*customer.Customer
	for rows.Next() {
		found, err := scanCustomer(rows)
		if err != nil {
			return nil, "", err
		}
		customers = append(customers, found)
	}

	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var nextToken string
	if len(customers) > filter.Limit {
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
		customers = customers[:filter.Limit]
	}

	return customers, nextToken, nil
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var (
		c                  customer.Customer
		creditLimit        sql.NullInt32
		companyID          sql.NullInt64
		companyName        sql.NullString
		companyDescription sql.NullString
		companyCreatedAt   sql.NullTime
		companyUpdatedAt   sql.NullTime
	)

	if err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.DateOfBirth,
		&c.HasCreditLimit, &creditLimit, &c.CreatedAt,
		&companyID, &companyName, &companyDescription, &companyCreatedAt, &companyUpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, err
	}

	if c.HasCreditLimit && creditLimit.Valid {
		c.CreditLimit = int(creditLimit.Int32)
	}

	if companyID.Valid {
		c.Company = &company.Company{
			ID:          companyID.Int64,
			Name:        companyName.String,
			Description: stringPtr(companyDescription),
			CreatedAt:   companyCreatedAt.Time,
			UpdatedAt:   companyUpdatedAt.Time,
		}
	}

	return &c, nil
}
