package models

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/Vinay0726/Eventra/apperr"
	"github.com/Vinay0726/Eventra/utils"
)

// sqlAccountRepo serves one of the three identity tables (users, organizers,
// admins); the table is fixed at construction so role checks never reach SQL.
type sqlAccountRepo struct {
	db    *sql.DB
	table string
}

func NewSQLAccountRepository(db *sql.DB, table string) AccountRepository {
	return &sqlAccountRepo{db: db, table: table}
}

func (r *sqlAccountRepo) Create(ctx context.Context, a *Account) error {
	hashed, err := utils.HashPassword(a.Password)
	if err != nil {
		return err
	}
	a.Password = hashed

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO `+r.table+`(name, email, mobile, password) VALUES ($1,$2,$3,$4) RETURNING id`,
		a.Name, a.Email, a.Mobile, a.Password,
	).Scan(&a.ID)
	if err != nil {
		// unique_violation on email
		if isUniqueViolation(err) {
			return apperr.New(apperr.KindConflict, "account already exists")
		}
		return err
	}
	return nil
}

func (r *sqlAccountRepo) ValidateCredentials(ctx context.Context, email, plain string) (Account, error) {
	var a Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, mobile, password FROM `+r.table+` WHERE email=$1`, email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Mobile, &a.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, apperr.NotFound("account")
		}
		return Account{}, err
	}

	if !utils.CheckPasswordHash(plain, a.Password) {
		return Account{}, apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}
	a.Password = ""
	return a, nil
}

func (r *sqlAccountRepo) GetByID(ctx context.Context, id int64) (Account, error) {
	var a Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, mobile FROM `+r.table+` WHERE id=$1`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Mobile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, apperr.NotFound("account")
		}
		return Account{}, err
	}
	return a, nil
}

func (r *sqlAccountRepo) Update(ctx context.Context, a *Account) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+r.table+` SET name=$1, email=$2, mobile=$3 WHERE id=$4`,
		a.Name, a.Email, a.Mobile, a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.New(apperr.KindConflict, "email already in use")
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("account")
	}
	return nil
}

func (r *sqlAccountRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("account")
	}
	return nil
}

func (r *sqlAccountRepo) ListAll(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, mobile FROM `+r.table+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Account{}
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Mobile); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *sqlAccountRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+r.table).Scan(&n)
	return n, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
