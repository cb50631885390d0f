package course

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	model "github.com/golfguiders/guiders-ai/backend/internal/model/course"
)

// PostgresStore reads course data from the two igolf tables. The tables
// are maintained by an upstream ingest job; this adapter never writes.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) ScorecardsByCourse(ctx context.Context, courseID string) ([]model.Scorecard, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id_course, men_hcp_hole, men_par_hole, wmn_hcp_hole, wmn_par_hole,
			COALESCE(men_par_in, 0), COALESCE(men_par_out, 0), COALESCE(men_par_total, 0),
			COALESCE(wmn_par_in, 0), COALESCE(wmn_par_out, 0), COALESCE(wmn_par_total, 0)
		 FROM igolf_scorecard_by_course WHERE id_course = $1`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query scorecards: %w", err)
	}
	defer rows.Close()

	cards := make([]model.Scorecard, 0, 1)
	for rows.Next() {
		var card model.Scorecard
		var menHcp, menPar, womenHcp, womenPar pgtype.Text
		if err := rows.Scan(&card.CourseID, &menHcp, &menPar, &womenHcp, &womenPar,
			&card.MenParIn, &card.MenParOut, &card.MenParTotal,
			&card.WomenParIn, &card.WomenParOut, &card.WomenParTotal); err != nil {
			return nil, fmt.Errorf("scan scorecard row: %w", err)
		}
		card.MenHcpHole = model.ParseCSVNumbers(menHcp.String)
		card.MenParHole = model.ParseCSVNumbers(menPar.String)
		card.WomenHcpHole = model.ParseCSVNumbers(womenHcp.String)
		card.WomenParHole = model.ParseCSVNumbers(womenPar.String)
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scorecard rows: %w", err)
	}
	return cards, nil
}

func (s *PostgresStore) TeeDetailsByCourse(ctx context.Context, courseID string) ([]model.TeeDetail, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id_course, teename, ydshole, COALESCE(ydstotal, 0), ratingmen, slopemen, ratingwomen, slopewomen
		 FROM igolf_tee_detail_by_course WHERE id_course = $1`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tee details: %w", err)
	}
	defer rows.Close()

	tees := make([]model.TeeDetail, 0, 4)
	for rows.Next() {
		var tee model.TeeDetail
		var teeName, ydsHole pgtype.Text
		var ratingMen, slopeMen, ratingWmn, slopeWmn pgtype.Text
		if err := rows.Scan(&tee.CourseID, &teeName, &ydsHole, &tee.YardsTotal,
			&ratingMen, &slopeMen, &ratingWmn, &slopeWmn); err != nil {
			return nil, fmt.Errorf("scan tee row: %w", err)
		}
		tee.TeeName = teeName.String
		tee.YardsHole = model.ParseCSVNumbers(ydsHole.String)
		tee.RatingMen = ratingMen.String
		tee.SlopeMen = slopeMen.String
		tee.RatingWomen = ratingWmn.String
		tee.SlopeWomen = slopeWmn.String
		tees = append(tees, tee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tee rows: %w", err)
	}
	return tees, nil
}
