package repository

import (
	"context"

	"github.com/VictorDENSC/CaisseNoire/internal/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type User struct {
	ID        uuid.UUID `db:"id"`
	TeamID    uuid.UUID `db:"team_id"`
	Firstname string    `db:"firstname"`
	Lastname  string    `db:"lastname"`
	Nickname  *string   `db:"nickname"`
	Email     *string   `db:"email"`
}

type UserRepository interface {
	List(ctx context.Context, teamID uuid.UUID) ([]*User, error)
	Get(ctx context.Context, teamID, userID uuid.UUID) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgxUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgxUserRepository{pool: pool}
}

var userColumns = []string{"id", "team_id", "firstname", "lastname", "nickname", "email"}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	if err := row.Scan(
		&u.ID,
		&u.TeamID,
		&u.Firstname,
		&u.Lastname,
		&u.Nickname,
		&u.Email,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func (p *pgxUserRepository) List(ctx context.Context, teamID uuid.UUID) ([]*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "team_id", "firstname", "lastname", "nickname", "email"),
		sm.From("users"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*User, error) {
		return scanUser(row)
	})
}

func (p *pgxUserRepository) Get(ctx context.Context, teamID, userID uuid.UUID) (*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "team_id", "firstname", "lastname", "nickname", "email"),
		sm.From("users"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID)).And(psql.Quote("id").EQ(psql.Arg(userID)))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (p *pgxUserRepository) Create(ctx context.Context, user *User) (*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("users", userColumns...),
		im.Values(
			psql.Arg(user.ID),
			psql.Arg(user.TeamID),
			psql.Arg(user.Firstname),
			psql.Arg(user.Lastname),
			psql.Arg(user.Nickname),
			psql.Arg(user.Email),
		),
		im.Returning("id", "team_id", "firstname", "lastname", "nickname", "email"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(e.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateConstraintErr(err)
	}
	return u, nil
}

func (p *pgxUserRepository) Update(ctx context.Context, user *User) (*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("users"),
		um.SetCol("firstname").ToArg(user.Firstname),
		um.SetCol("lastname").ToArg(user.Lastname),
		um.SetCol("nickname").ToArg(user.Nickname),
		um.SetCol("email").ToArg(user.Email),
		um.Where(psql.Quote("team_id").EQ(psql.Arg(user.TeamID)).And(psql.Quote("id").EQ(psql.Arg(user.ID)))),
		um.Returning("id", "team_id", "firstname", "lastname", "nickname", "email"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translateConstraintErr(err)
	}
	return u, nil
}
