package repository

import (
	"context"
	"encoding/json"

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

// Team is the teams row. Rules ride on the row as a JSONB document; decoding
// into the domain type happens in the service layer.
type Team struct {
	ID            uuid.UUID       `db:"id"`
	Name          string          `db:"name"`
	AdminPassword string          `db:"admin_password"`
	Rules         json.RawMessage `db:"rules"`
}

type TeamRepository interface {
	Create(ctx context.Context, team *Team) (*Team, error)
	Get(ctx context.Context, id uuid.UUID) (*Team, error)
	Update(ctx context.Context, team *Team) (*Team, error)
}

type pgxTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgxTeamRepository{pool: pool}
}

func (p *pgxTeamRepository) Create(ctx context.Context, team *Team) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("teams", "id", "name", "admin_password", "rules"),
		im.Values(psql.Arg(team.ID), psql.Arg(team.Name), psql.Arg(team.AdminPassword), psql.Arg(team.Rules)),
		im.Returning("id", "name", "admin_password", "rules"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	created := &Team{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&created.ID,
		&created.Name,
		&created.AdminPassword,
		&created.Rules,
	); err != nil {
		return nil, translateConstraintErr(err)
	}

	return created, nil
}

func (p *pgxTeamRepository) Get(ctx context.Context, id uuid.UUID) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "admin_password", "rules"),
		sm.From("teams"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	team := &Team{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&team.ID,
		&team.Name,
		&team.AdminPassword,
		&team.Rules,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return team, nil
}

func (p *pgxTeamRepository) Update(ctx context.Context, team *Team) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("teams"),
		um.SetCol("name").ToArg(team.Name),
		um.SetCol("admin_password").ToArg(team.AdminPassword),
		um.SetCol("rules").ToArg(team.Rules),
		um.Where(psql.Quote("id").EQ(psql.Arg(team.ID))),
		um.Returning("id", "name", "admin_password", "rules"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	updated := &Team{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&updated.ID,
		&updated.Name,
		&updated.AdminPassword,
		&updated.Rules,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translateConstraintErr(err)
	}

	return updated, nil
}
