package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/company"
	pgdb "github.com/ogurasousui/codex-grpc-onboarding/internal/platform/db/postgres"
)

const uniqueViolationCode = "23505"

const companyColumns = `id, name, description, created_at, updated_at`

// CompanyRepository は PostgreSQL を利用した会社永続化の実装です。
type CompanyRepository struct {
	pool pgdb.Queryer
}

// NewCompanyRepository は CompanyRepository を生成します。
func NewCompanyRepository(pool pgdb.Queryer) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Create は会社を新規作成します。
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO companies (name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4)
        RETURNING `+companyColumns+`
    `, c.Name, nullableString(c.Description), c.CreatedAt, c.UpdatedAt)

	created, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return created, nil
}

// FindByID は ID で会社を取得します。
func (r *CompanyRepository) FindByID(ctx context.Context, id int64) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+companyColumns+`
          FROM companies
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return found, nil
}

// List は会社の一覧を取得します。区分は会社名から判定されるため名前の条件に変換します。
func (r *CompanyRepository) List(ctx context.Context, filter company.ListCompaniesFilter) ([]*company.Company, string, error) {
	if filter.Limit <= 0 {
		return nil, "", company.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", company.ErrInvalidPageToken
	}

	args := make([]any, 0, 4)
	conditions := make([]string, 0, 1)

	if filter.Tier != nil {
		switch *filter.Tier {
		case company.TierVeryImportant:
			args = append(args, company.VeryImportantClientName)
			conditions = append(conditions, "name = $"+strconv.Itoa(len(args)))
		case company.TierImportant:
			args = append(args, company.ImportantClientName)
			conditions = append(conditions, "name = $"+strconv.Itoa(len(args)))
		case company.TierStandard:
			args = append(args, company.VeryImportantClientName, company.ImportantClientName)
			conditions = append(conditions, "name NOT IN ($"+strconv.Itoa(len(args)-1)+", $"+strconv.Itoa(len(args))+")")
		default:
			return nil, "", company.ErrInvalidTier
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, filter.Limit+1)
	limitPlaceholder := "$" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPlaceholder := "$" + strconv.Itoa(len(args))

	query := `
        SELECT ` + companyColumns + `
          FROM companies` + whereClause + `
         ORDER BY id ASC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateCompanyPgError(err)
	}
	defer rows.Close()

	var companies []*company.Company
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, "", translateCompanyPgError(err)
		}
		companies = append(companies, found)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateCompanyPgError(err)
	}

	var nextToken string
	if len(companies) > filter.Limit {
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
		companies = companies[:filter.Limit]
	}

	return companies, nextToken, nil
}

func scanCompany(row pgx.Row) (*company.Company, error) {
	var (
		id                   int64
		name                 string
		description          sql.NullString
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&id, &name, &description, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}

	return &company.Company{
		ID:          id,
		Name:        name,
		Description: stringPtr(description),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func translateCompanyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode {
			return company.ErrNameAlreadyExists
		}
	}
	return err
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
