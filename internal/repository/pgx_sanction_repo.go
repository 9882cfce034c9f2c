package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/VictorDENSC/CaisseNoire/internal/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

// Sanction is the sanctions row. SanctionInfo is stored as JSONB; the service
// layer owns the domain encoding.
type Sanction struct {
	ID           uuid.UUID       `db:"id"`
	UserID       uuid.UUID       `db:"user_id"`
	TeamID       uuid.UUID       `db:"team_id"`
	SanctionInfo json.RawMessage `db:"sanction_info"`
	Price        float64         `db:"price"`
	CreatedAt    time.Time       `db:"created_at"`
}

// DateInterval is an inclusive created_at range used as a read filter.
type DateInterval struct {
	Start time.Time
	End   time.Time
}

type SanctionRepository interface {
	List(ctx context.Context, teamID uuid.UUID, interval *DateInterval) ([]*Sanction, error)
	// CreateBatch inserts all records in a single statement; either every row
	// is inserted or none is.
	CreateBatch(ctx context.Context, sanctions []*Sanction) ([]*Sanction, error)
	Delete(ctx context.Context, teamID, sanctionID uuid.UUID) (*Sanction, error)
}

type pgxSanctionRepository struct {
	pool *pgxpool.Pool
}

func NewPgxSanctionRepository(pool *pgxpool.Pool) SanctionRepository {
	return &pgxSanctionRepository{pool: pool}
}

func scanSanction(row pgx.Row) (*Sanction, error) {
	s := &Sanction{}
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.TeamID,
		&s.SanctionInfo,
		&s.Price,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *pgxSanctionRepository) List(ctx context.Context, teamID uuid.UUID, interval *DateInterval) ([]*Sanction, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "user_id", "team_id", "sanction_info", "price", "created_at"),
		sm.From("sanctions"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
	)

	if interval != nil {
		q.Apply(sm.Where(psql.Quote("created_at").Between(psql.Arg(interval.Start), psql.Arg(interval.End))))
	}

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Sanction, error) {
		return scanSanction(row)
	})
}

func (p *pgxSanctionRepository) CreateBatch(ctx context.Context, sanctions []*Sanction) ([]*Sanction, error) {
	// Without this guard a zero-row insert becomes "INSERT ... DEFAULT VALUES",
	// which would insert a row nobody asked for.
	if len(sanctions) == 0 {
		return []*Sanction{}, nil
	}

	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	mods := make([]bob.Mod[*dialect.InsertQuery], 0, len(sanctions)+2)
	mods = append(mods, im.Into("sanctions", "id", "user_id", "team_id", "sanction_info", "price", "created_at"))
	for _, s := range sanctions {
		mods = append(mods, im.Values(
			psql.Arg(s.ID),
			psql.Arg(s.UserID),
			psql.Arg(s.TeamID),
			psql.Arg(s.SanctionInfo),
			psql.Arg(s.Price),
			psql.Arg(s.CreatedAt),
		))
	}
	mods = append(mods, im.Returning("id", "user_id", "team_id", "sanction_info", "price", "created_at"))

	q := psql.Insert(mods...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateConstraintErr(err)
	}
	defer rows.Close()

	created, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Sanction, error) {
		return scanSanction(row)
	})
	if err != nil {
		return nil, translateConstraintErr(err)
	}

	return created, nil
}

func (p *pgxSanctionRepository) Delete(ctx context.Context, teamID, sanctionID uuid.UUID) (*Sanction, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("sanctions"),
		dm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID)).And(psql.Quote("id").EQ(psql.Arg(sanctionID)))),
		dm.Returning("id", "user_id", "team_id", "sanction_info", "price", "created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	s, err := scanSanction(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
